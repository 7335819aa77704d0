package domain

import (
	"encoding/json"

	"gorm.io/datatypes"
)

type StatBlock map[string]int

// CharacterStats is the canonical stored shape of a character's stats.
// Imports may submit either this shape or a flat numeric map; the flat form
// is folded into BaseStats.
type CharacterStats struct {
	BaseStats   StatBlock         `json:"baseStats"`
	Growths     StatBlock         `json:"growths"`
	BonusStats  StatBlock         `json:"bonusStats"`
	WeaponRanks map[string]string `json:"weaponRanks"`
}

// NormalizeStats accepts the union-shaped stats payload and returns the
// canonical structured form.
func NormalizeStats(raw json.RawMessage) (*CharacterStats, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return &CharacterStats{}, nil
	}

	var structured CharacterStats
	if err := json.Unmarshal(raw, &structured); err == nil {
		if structured.BaseStats != nil || structured.Growths != nil ||
			structured.BonusStats != nil || structured.WeaponRanks != nil {
			return &structured, nil
		}
	}

	var flat StatBlock
	if err := json.Unmarshal(raw, &flat); err == nil {
		return &CharacterStats{BaseStats: flat}, nil
	}

	return nil, NewValidationError(FieldViolation{
		Field:   "stats",
		Message: "must be a flat numeric map or a {baseStats, growths, bonusStats, weaponRanks} object",
	})
}

// BaseHP returns the hp value the stats supply, 0 when absent. Used to
// default a new character's currentHp.
func (s *CharacterStats) BaseHP() int {
	if s == nil || s.BaseStats == nil {
		return 0
	}
	return s.BaseStats["hp"]
}

func (s *CharacterStats) JSON() datatypes.JSON {
	data, _ := json.Marshal(s)
	return datatypes.JSON(data)
}

func DecodeStats(raw datatypes.JSON) (*CharacterStats, error) {
	if len(raw) == 0 {
		return &CharacterStats{}, nil
	}
	var stats CharacterStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
