package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/tada/internal/model"
)

func TestRelativeDate(t *testing.T) {
	// Wednesday
	now := time.Date(2025, time.September, 10, 15, 4, 0, 0, time.UTC)

	cases := map[string]model.Date{
		"Today":       model.NewDate(2025, time.September, 10),
		"Tomorrow":    model.NewDate(2025, time.September, 11),
		"Yesterday":   model.NewDate(2025, time.September, 9),
		"Saturday":    model.NewDate(2025, time.September, 13),
		"Last Monday": model.NewDate(2025, time.September, 8),
		"Oct 1":       model.NewDate(2025, time.October, 1),
		"Jan 5 2026":  model.NewDate(2026, time.January, 5),
		"":            {},
	}
	for want, d := range cases {
		assert.Equal(t, want, RelativeDate(d, now), d.String())
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2025, time.September, 10, 23, 0, 0, 0, time.UTC)
	assert.True(t, Overdue(model.NewDate(2025, time.September, 9), now))
	assert.False(t, Overdue(model.NewDate(2025, time.September, 10), now))
	assert.False(t, Overdue(model.Date{}, now))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
}

func TestPanel_AlignsBorders(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, nil)
	t.Cleanup(func() { SetOutput(os.Stdout, os.Stderr) })
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic"); disableColor = false })

	Panel([]string{"ab", "abcd"})
	assert.Equal(t, "+------+\n| ab   |\n| abcd |\n+------+\n", buf.String())
}

func TestPriorityTag(t *testing.T) {
	SetColorForcing(false, true)
	t.Cleanup(func() { SetColorForcing(false, false) })

	assert.Equal(t, "p1", PriorityTag(model.Priority1))
	assert.Equal(t, "", PriorityTag("bogus"))
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 80))

	long := strings.Repeat("é", 100)
	got := Truncate(long, 80)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, lipgloss.Width(got), 80)
}
