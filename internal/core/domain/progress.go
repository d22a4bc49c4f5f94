package domain

import (
	"encoding/json"
	"strconv"
)

// Percent is a rounded completion percentage. Valid is false when the scope
// had no activities at all, which is different from 0%.
type Percent struct {
	Value int
	Valid bool
}

func PercentOf(value int) Percent {
	return Percent{Value: value, Valid: true}
}

var NoData = Percent{}

func (p Percent) AtLeast(threshold int) bool {
	return p.Valid && p.Value >= threshold
}

func (p Percent) String() string {
	if !p.Valid {
		return "-"
	}
	return strconv.Itoa(p.Value) + "%"
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = NoData
		return nil
	}

	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = PercentOf(v)
	return nil
}

// ActivityInfo is an activity together with where it lives in the plan.
type ActivityInfo struct {
	Activity Activity     `json:"activity"`
	GoalName string       `json:"goal_name"`
	GoalID   string       `json:"goal_id"`
	Category CategoryType `json:"category"`
}
