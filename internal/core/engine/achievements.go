package engine

import "github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"

const (
	tenGoalsThreshold   = 10
	perfectWeekPercent  = 100
	streakWeekThreshold = 80
	streakLength        = 4
)

type achievementRule struct {
	id  domain.AchievementID
	met func(*domain.User) bool
}

// Evaluation order is also the order of the returned unlocks.
var achievementRules = []achievementRule{
	{id: domain.AchievementPlanCreated, met: func(*domain.User) bool { return true }},
	{id: domain.AchievementTenGoals, met: hasTenGoals},
	{id: domain.AchievementPerfectWeek, met: hasPerfectWeek},
	{id: domain.AchievementStreak4Weeks, met: hasFourWeekStreak},
	{id: domain.AchievementFirstReview, met: hasFirstReview},
}

// Evaluate returns a copy of user with every newly satisfied achievement
// unlocked, plus the achievements that were unlocked by this call. Already
// unlocked achievements are never re-reported or removed, so running it
// again on its own output unlocks nothing.
func Evaluate(user *domain.User) (*domain.User, []domain.Achievement) {
	updated := user.Clone()
	unlocked := []domain.Achievement{}
	if updated == nil {
		return nil, unlocked
	}

	for _, rule := range achievementRules {
		if updated.Achievements.Has(rule.id) || !rule.met(user) {
			continue
		}

		updated.Achievements = updated.Achievements.With(rule.id)
		if a, ok := domain.LookupAchievement(rule.id); ok {
			unlocked = append(unlocked, a)
		}
	}

	return updated, unlocked
}

func hasTenGoals(user *domain.User) bool {
	return user.GoalCount() >= tenGoalsThreshold
}

func hasPerfectWeek(user *domain.User) bool {
	for w := 0; w < user.TotalWeeks; w++ {
		p := OverallProgress(user, w)
		if p.Valid && p.Value == perfectWeekPercent {
			return true
		}
	}
	return false
}

func hasFourWeekStreak(user *domain.User) bool {
	return streakFound(user.TotalWeeks, func(w int) domain.Percent {
		return OverallProgress(user, w)
	})
}

// streakFound scans forward from week 0 and stops at the first run of
// qualifying weeks long enough. A week without data breaks the run.
func streakFound(weeks int, progress func(week int) domain.Percent) bool {
	run := 0
	for w := 0; w < weeks; w++ {
		if !progress(w).AtLeast(streakWeekThreshold) {
			run = 0
			continue
		}
		run++
		if run >= streakLength {
			return true
		}
	}
	return false
}

func hasFirstReview(user *domain.User) bool {
	for _, r := range user.WeeklyReviews {
		if r.HasContent() {
			return true
		}
	}
	return false
}
