package domain

import "encoding/json"

type AchievementID string

const (
	AchievementPlanCreated  AchievementID = "PLAN_CREATED"
	AchievementTenGoals     AchievementID = "TEN_GOALS"
	AchievementPerfectWeek  AchievementID = "PERFECT_WEEK"
	AchievementStreak4Weeks AchievementID = "STREAK_4_WEEKS"
	AchievementFirstReview  AchievementID = "FIRST_REVIEW"
)

type Achievement struct {
	ID          AchievementID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
}

// Read-only after package initialisation.
var achievementCatalog = []Achievement{
	{ID: AchievementPlanCreated, Name: "Planner", Description: "You created your first plan.", Icon: "star"},
	{ID: AchievementTenGoals, Name: "Ambitious", Description: "You have created 10 goals.", Icon: "goal"},
	{ID: AchievementPerfectWeek, Name: "Perfectionist", Description: "You reached 100% in a week.", Icon: "trophy"},
	{ID: AchievementStreak4Weeks, Name: "Momentum", Description: "You stayed above 80% for four weeks in a row.", Icon: "streak"},
	{ID: AchievementFirstReview, Name: "Reflective", Description: "You completed your first weekly review.", Icon: "review"},
}

var achievementsByID = func() map[AchievementID]Achievement {
	m := make(map[AchievementID]Achievement, len(achievementCatalog))
	for _, a := range achievementCatalog {
		m[a.ID] = a
	}
	return m
}()

// AchievementCatalog lists every achievement in rule order.
func AchievementCatalog() []Achievement {
	out := make([]Achievement, len(achievementCatalog))
	copy(out, achievementCatalog)
	return out
}

func LookupAchievement(id AchievementID) (Achievement, bool) {
	a, ok := achievementsByID[id]
	return a, ok
}

// AchievementSet is an insertion-ordered set of unlocked achievements.
// The zero value is an empty set. With never modifies the receiver.
type AchievementSet struct {
	ids []AchievementID
}

func NewAchievementSet(ids ...AchievementID) AchievementSet {
	var s AchievementSet
	for _, id := range ids {
		s = s.With(id)
	}
	return s
}

func (s AchievementSet) Has(id AchievementID) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// With returns a set that also contains id, appended after existing members.
func (s AchievementSet) With(id AchievementID) AchievementSet {
	if s.Has(id) {
		return s
	}

	ids := make([]AchievementID, len(s.ids), len(s.ids)+1)
	copy(ids, s.ids)
	return AchievementSet{ids: append(ids, id)}
}

func (s AchievementSet) IDs() []AchievementID {
	out := make([]AchievementID, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s AchievementSet) Len() int {
	return len(s.ids)
}

func (s AchievementSet) Clone() AchievementSet {
	return AchievementSet{ids: cloneSlice(s.ids)}
}

// Details resolves the set to catalog entries in unlock order, skipping ids
// the catalog does not know.
func (s AchievementSet) Details() []Achievement {
	out := make([]Achievement, 0, len(s.ids))
	for _, id := range s.ids {
		if a, ok := LookupAchievement(id); ok {
			out = append(out, a)
		}
	}
	return out
}

func (s AchievementSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *AchievementSet) UnmarshalJSON(data []byte) error {
	var ids []AchievementID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewAchievementSet(ids...)
	return nil
}
