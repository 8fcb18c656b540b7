// Package kv provides durable key-value media for the persistence adapter.
// Every Set replaces the whole value of a key.
package kv

import (
	"errors"
	"fmt"
	"regexp"
)

// Medium is a string key-value store.
type Medium interface {
	// Get returns ok=false when the key has never been written.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// ErrInvalidKey is returned for keys that are not plain identifiers.
var ErrInvalidKey = errors.New("invalid key")

var keyRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func checkKey(key string) error {
	if !keyRegexp.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
