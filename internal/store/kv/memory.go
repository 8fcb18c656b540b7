package kv

import "errors"

// ErrInjected is the failure returned by MemoryMedium when FailWrites is set.
var ErrInjected = errors.New("injected write failure")

// MemoryMedium keeps values in a map. Tests flip FailWrites to simulate a
// full or broken medium.
type MemoryMedium struct {
	FailWrites bool

	values map[string]string
	writes int
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{values: make(map[string]string)}
}

func (m *MemoryMedium) Get(key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryMedium) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if m.FailWrites {
		return ErrInjected
	}
	m.values[key] = value
	m.writes++
	return nil
}

func (m *MemoryMedium) Delete(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if m.FailWrites {
		return ErrInjected
	}
	delete(m.values, key)
	m.writes++
	return nil
}

// Writes counts successful Set and Delete calls.
func (m *MemoryMedium) Writes() int { return m.writes }
