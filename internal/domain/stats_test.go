package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStats(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected *CharacterStats
		wantErr  bool
	}{
		{
			name: "structured shape",
			raw:  `{"baseStats":{"hp":20,"str":7},"growths":{"hp":60}}`,
			expected: &CharacterStats{
				BaseStats: StatBlock{"hp": 20, "str": 7},
				Growths:   StatBlock{"hp": 60},
			},
		},
		{
			name: "flat map folds into baseStats",
			raw:  `{"hp":18,"skl":9}`,
			expected: &CharacterStats{
				BaseStats: StatBlock{"hp": 18, "skl": 9},
			},
		},
		{
			name:     "null is empty",
			raw:      `null`,
			expected: &CharacterStats{},
		},
		{
			name:     "empty is empty",
			raw:      ``,
			expected: &CharacterStats{},
		},
		{
			name: "weaponRanks alone selects structured shape",
			raw:  `{"weaponRanks":{"sword":"A"}}`,
			expected: &CharacterStats{
				WeaponRanks: map[string]string{"sword": "A"},
			},
		},
		{
			name:    "non-numeric flat values rejected",
			raw:     `{"hp":"twenty"}`,
			wantErr: true,
		},
		{
			name:    "array rejected",
			raw:     `[1,2,3]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := NormalizeStats(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stats)
		})
	}
}

func TestCharacterStatsBaseHP(t *testing.T) {
	assert.Equal(t, 0, (*CharacterStats)(nil).BaseHP())
	assert.Equal(t, 0, (&CharacterStats{}).BaseHP())
	assert.Equal(t, 22, (&CharacterStats{BaseStats: StatBlock{"hp": 22}}).BaseHP())
}
