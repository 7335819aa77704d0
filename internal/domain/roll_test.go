package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombatResult(t *testing.T) {
	tests := []struct {
		name     string
		a, b     int
		expected int
	}{
		{"equal rolls", 50, 50, 50},
		{"half rounds up", 50, 51, 51},
		{"minimum rolls", 1, 1, 1},
		{"maximum rolls", 100, 100, 100},
		{"one and two", 1, 2, 2},
		{"spread rolls", 10, 91, 51},
		{"order does not matter", 91, 10, 51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CombatResult(tt.a, tt.b))
		})
	}
}
