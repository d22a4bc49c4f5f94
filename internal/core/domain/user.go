package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserNameEmpty     = errors.New("user name cannot be empty")
	ErrUserNameTooLong   = errors.New("user name is too long (max 100 chars)")
	ErrInvalidTotalWeeks = errors.New("total weeks must be between 1 and 52")
	ErrWeekOutOfRange    = errors.New("week is outside the plan")
)

const (
	MaxNameLen    = 100
	MinTotalWeeks = 1
	MaxTotalWeeks = 52
)

// User is one person's plan: the unit every engine operation works on.
type User struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	StartDate     time.Time      `json:"start_date"`
	TotalWeeks    int            `json:"total_weeks"`
	Categories    Categories     `json:"categories"`
	WeeklyReviews []WeeklyReview `json:"weekly_reviews"`
	Achievements  AchievementSet `json:"achievements"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewUser builds a fresh plan with every category present and empty.
// The start date keeps only its calendar day.
func NewUser(id, name string, startDate time.Time, totalWeeks int, now time.Time) (*User, error) {
	cleanName := strings.TrimSpace(name)
	if cleanName == "" {
		return nil, ErrUserNameEmpty
	}
	if utf8.RuneCountInString(cleanName) > MaxNameLen {
		return nil, ErrUserNameTooLong
	}
	if totalWeeks < MinTotalWeeks || totalWeeks > MaxTotalWeeks {
		return nil, ErrInvalidTotalWeeks
	}

	y, m, d := startDate.Date()

	return &User{
		ID:            id,
		Name:          cleanName,
		StartDate:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		TotalWeeks:    totalWeeks,
		Categories:    NewCategories(),
		WeeklyReviews: []WeeklyReview{},
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}, nil
}

// Clone returns a deep copy so callers can derive a new snapshot without
// touching the original.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	clone := *u
	clone.Categories = u.Categories.Clone()
	clone.WeeklyReviews = cloneSlice(u.WeeklyReviews)
	clone.Achievements = u.Achievements.Clone()
	return &clone
}

func (u *User) ValidateWeek(week int) error {
	if week < 0 || week >= u.TotalWeeks {
		return ErrWeekOutOfRange
	}
	return nil
}

// GoalCount is the number of goals across every category.
func (u *User) GoalCount() int {
	total := 0
	for _, c := range AllCategories() {
		total += len(u.Categories[c].Goals)
	}
	return total
}

func (u *User) AddGoal(category CategoryType, goal Goal) error {
	if !category.IsValid() {
		return ErrInvalidCategory
	}

	cat := u.Categories[category]
	cat.Goals = append(cat.Goals, goal)
	u.setCategory(category, cat)
	return nil
}

func (u *User) RemoveGoal(category CategoryType, goalID string) error {
	if !category.IsValid() {
		return ErrInvalidCategory
	}

	cat := u.Categories[category]
	idx := cat.goalIndex(goalID)
	if idx < 0 {
		return ErrGoalNotFound
	}

	cat.Goals = append(cat.Goals[:idx:idx], cat.Goals[idx+1:]...)
	u.setCategory(category, cat)
	return nil
}

// UpdateGoal applies fn to the goal in place.
func (u *User) UpdateGoal(category CategoryType, goalID string, fn func(*Goal) error) error {
	if !category.IsValid() {
		return ErrInvalidCategory
	}

	cat := u.Categories[category]
	idx := cat.goalIndex(goalID)
	if idx < 0 {
		return ErrGoalNotFound
	}

	if err := fn(&cat.Goals[idx]); err != nil {
		return err
	}
	u.setCategory(category, cat)
	return nil
}

func (u *User) FindGoal(category CategoryType, goalID string) (Goal, bool) {
	cat := u.Categories[category]
	idx := cat.goalIndex(goalID)
	if idx < 0 {
		return Goal{}, false
	}
	return cat.Goals[idx], true
}

// SaveReview stores the review for its week, replacing any previous one.
func (u *User) SaveReview(review WeeklyReview) {
	kept := make([]WeeklyReview, 0, len(u.WeeklyReviews)+1)
	for _, r := range u.WeeklyReviews {
		if r.WeekNumber != review.WeekNumber {
			kept = append(kept, r)
		}
	}
	u.WeeklyReviews = append(kept, review)
}

func (u *User) ReviewForWeek(week int) (WeeklyReview, bool) {
	for _, r := range u.WeeklyReviews {
		if r.WeekNumber == week {
			return r, true
		}
	}
	return WeeklyReview{WeekNumber: week}, false
}

func (u *User) setCategory(category CategoryType, cat Category) {
	if u.Categories == nil {
		u.Categories = NewCategories()
	}
	u.Categories[category] = cat
}
