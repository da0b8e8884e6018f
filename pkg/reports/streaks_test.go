package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreaks(t *testing.T) {
	tests := []struct {
		name    string
		series  []bool
		current int
		best    int
	}{
		{"empty", nil, 0, 0},
		{"single completed", []bool{true}, 1, 1},
		{"single missed", []bool{false}, 0, 0},
		{"broken then resumed", []bool{true, true, false, true}, 1, 2},
		{"all completed", []bool{true, true, true}, 3, 3},
		{"ends broken", []bool{true, true, true, false}, 0, 3},
		{"longest in middle", []bool{true, false, true, true, true, false, true, true}, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, best := Streaks(tt.series)
			assert.Equal(t, tt.current, current)
			assert.Equal(t, tt.best, best)
		})
	}
}
