package engine

import "github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"

// IncompleteForWeek lists the activities not done in week, walking categories
// in declaration order, then goals and activities in insertion order.
// Activities whose history is shorter than week count as not done.
func IncompleteForWeek(user *domain.User, week int) []domain.ActivityInfo {
	return collect(user, func(a domain.Activity) bool {
		return !a.DoneIn(week)
	})
}

// AllForWeek is the same walk without filtering.
func AllForWeek(user *domain.User, week int) []domain.ActivityInfo {
	return collect(user, func(domain.Activity) bool { return true })
}

func collect(user *domain.User, keep func(domain.Activity) bool) []domain.ActivityInfo {
	out := []domain.ActivityInfo{}
	if user == nil {
		return out
	}

	for _, c := range domain.AllCategories() {
		for _, g := range user.Categories[c].Goals {
			for _, a := range g.Activities {
				if !keep(a) {
					continue
				}
				out = append(out, domain.ActivityInfo{
					Activity: a.Clone(),
					GoalName: g.Name,
					GoalID:   g.ID,
					Category: c,
				})
			}
		}
	}
	return out
}
