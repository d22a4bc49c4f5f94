package engine

import "github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"

// GoalProgress is the share of the goal's activities done in week.
func GoalProgress(goal domain.Goal, week int) domain.Percent {
	done, total := countActivities(goal.Activities, week)
	return ratio(done, total)
}

// CategoryProgress aggregates every activity of every goal in one category.
func CategoryProgress(user *domain.User, category domain.CategoryType, week int) domain.Percent {
	done, total := countCategory(user, category, week)
	return ratio(done, total)
}

// OverallProgress aggregates every activity in the plan.
func OverallProgress(user *domain.User, week int) domain.Percent {
	done, total := 0, 0
	for _, c := range domain.AllCategories() {
		d, t := countCategory(user, c, week)
		done += d
		total += t
	}
	return ratio(done, total)
}

// WeeklyOverall returns OverallProgress for every week of the plan.
func WeeklyOverall(user *domain.User) []domain.Percent {
	if user.TotalWeeks < 1 {
		return []domain.Percent{}
	}

	out := make([]domain.Percent, user.TotalWeeks)
	for w := range out {
		out[w] = OverallProgress(user, w)
	}
	return out
}

func countCategory(user *domain.User, category domain.CategoryType, week int) (int, int) {
	if user == nil {
		return 0, 0
	}

	done, total := 0, 0
	for _, g := range user.Categories[category].Goals {
		d, t := countActivities(g.Activities, week)
		done += d
		total += t
	}
	return done, total
}

func countActivities(activities []domain.Activity, week int) (int, int) {
	done := 0
	for _, a := range activities {
		if a.DoneIn(week) {
			done++
		}
	}
	return done, len(activities)
}

// ratio rounds half up in integer arithmetic: floor(100*done/total + 0.5).
func ratio(done, total int) domain.Percent {
	if total == 0 {
		return domain.NoData
	}
	return domain.PercentOf((200*done + total) / (2 * total))
}
