package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidCategory     = errors.New("invalid category (must be family, health, career or development)")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrGoalNameEmpty       = errors.New("goal name cannot be empty")
	ErrActivityNotFound    = errors.New("activity not found")
	ErrActivityNameEmpty   = errors.New("activity name cannot be empty")
	ErrPlanItemNameTooLong = errors.New("name is too long (max 100 chars)")
)

type CategoryType string

const (
	CategoryFamily      CategoryType = "family"
	CategoryHealth      CategoryType = "health"
	CategoryCareer      CategoryType = "career"
	CategoryDevelopment CategoryType = "development"
)

var categoryOrder = [...]CategoryType{
	CategoryFamily,
	CategoryHealth,
	CategoryCareer,
	CategoryDevelopment,
}

var categoryNames = map[CategoryType]string{
	CategoryFamily:      "Family",
	CategoryHealth:      "Health",
	CategoryCareer:      "Career",
	CategoryDevelopment: "Development",
}

// AllCategories returns the categories in declaration order.
func AllCategories() []CategoryType {
	out := make([]CategoryType, len(categoryOrder))
	copy(out, categoryOrder[:])
	return out
}

func ParseCategory(s string) (CategoryType, error) {
	c := CategoryType(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

func (c CategoryType) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

func (c CategoryType) DisplayName() string {
	return categoryNames[c]
}

type Category struct {
	Goals []Goal `json:"goals"`
}

func (c Category) goalIndex(goalID string) int {
	for i, g := range c.Goals {
		if g.ID == goalID {
			return i
		}
	}
	return -1
}

// Categories maps every category to its goals. A category missing from the
// map reads as empty.
type Categories map[CategoryType]Category

func NewCategories() Categories {
	cats := make(Categories, len(categoryOrder))
	for _, c := range categoryOrder {
		cats[c] = Category{Goals: []Goal{}}
	}
	return cats
}

func (cs Categories) Clone() Categories {
	if cs == nil {
		return nil
	}

	out := make(Categories, len(cs))
	for k, cat := range cs {
		goals := cloneSlice(cat.Goals)
		for i := range goals {
			goals[i] = goals[i].Clone()
		}
		out[k] = Category{Goals: goals}
	}
	return out
}

type Goal struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Activities []Activity `json:"activities"`
}

func NewGoal(id, name string) (Goal, error) {
	clean, err := cleanItemName(name, ErrGoalNameEmpty)
	if err != nil {
		return Goal{}, err
	}
	return Goal{ID: id, Name: clean, Activities: []Activity{}}, nil
}

func (g Goal) Clone() Goal {
	acts := cloneSlice(g.Activities)
	for i := range acts {
		acts[i] = acts[i].Clone()
	}
	g.Activities = acts
	return g
}

func (g *Goal) AddActivity(a Activity) {
	g.Activities = append(g.Activities, a)
}

func (g *Goal) RemoveActivity(activityID string) error {
	idx := g.activityIndex(activityID)
	if idx < 0 {
		return ErrActivityNotFound
	}
	g.Activities = append(g.Activities[:idx:idx], g.Activities[idx+1:]...)
	return nil
}

// ToggleActivity flips the done flag of one activity for one week.
func (g *Goal) ToggleActivity(activityID string, week int) error {
	idx := g.activityIndex(activityID)
	if idx < 0 {
		return ErrActivityNotFound
	}
	g.Activities[idx] = g.Activities[idx].Toggled(week)
	return nil
}

func (g Goal) activityIndex(activityID string) int {
	for i, a := range g.Activities {
		if a.ID == activityID {
			return i
		}
	}
	return -1
}

type Activity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Completed []bool `json:"completed"`
}

// NewActivity pre-sizes Completed to the plan length.
func NewActivity(id, name string, totalWeeks int) (Activity, error) {
	clean, err := cleanItemName(name, ErrActivityNameEmpty)
	if err != nil {
		return Activity{}, err
	}
	if totalWeeks < 0 {
		totalWeeks = 0
	}
	return Activity{ID: id, Name: clean, Completed: make([]bool, totalWeeks)}, nil
}

func (a Activity) Clone() Activity {
	a.Completed = cloneSlice(a.Completed)
	return a
}

// DoneIn reports whether the activity was marked done in week. Indices past
// the end of Completed, or negative, read as false.
func (a Activity) DoneIn(week int) bool {
	if week < 0 || week >= len(a.Completed) {
		return false
	}
	return a.Completed[week]
}

// Toggled returns a copy with week flipped, padding Completed with false up
// to week when it is too short.
func (a Activity) Toggled(week int) Activity {
	if week < 0 {
		return a.Clone()
	}

	size := len(a.Completed)
	if week >= size {
		size = week + 1
	}

	completed := make([]bool, size)
	copy(completed, a.Completed)
	completed[week] = !completed[week]

	a.Completed = completed
	return a
}

func cleanItemName(name string, emptyErr error) (string, error) {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return "", emptyErr
	}
	if utf8.RuneCountInString(clean) > MaxNameLen {
		return "", ErrPlanItemNameTooLong
	}
	return clean, nil
}

// cloneSlice copies s, keeping nil and empty distinct.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
