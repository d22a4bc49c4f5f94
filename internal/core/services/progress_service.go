package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/engine"
)

type ProgressService struct {
	repo domain.UserRepository
	now  Clock
}

func NewProgressService(repo domain.UserRepository, now Clock) *ProgressService {
	if now == nil {
		now = SystemClock
	}
	return &ProgressService{
		repo: repo,
		now:  now,
	}
}

type CategorySummary struct {
	Category  domain.CategoryType `json:"category"`
	Name      string              `json:"name"`
	Progress  domain.Percent      `json:"progress"`
	GoalCount int                 `json:"goal_count"`
}

type Dashboard struct {
	UserID       string                `json:"user_id"`
	Name         string                `json:"name"`
	CurrentWeek  int                   `json:"current_week"`
	TotalWeeks   int                   `json:"total_weeks"`
	Overall      domain.Percent        `json:"overall"`
	Categories   []CategorySummary     `json:"categories"`
	TotalGoals   int                   `json:"total_goals"`
	Incomplete   []domain.ActivityInfo `json:"incomplete"`
	Achievements []domain.Achievement  `json:"achievements"`
}

type GoalSummary struct {
	Category domain.CategoryType `json:"category"`
	GoalID   string              `json:"goal_id"`
	Name     string              `json:"name"`
	Progress domain.Percent      `json:"progress"`
}

type WeekActivity struct {
	domain.ActivityInfo
	Done bool `json:"done"`
}

type WeekDetail struct {
	Week       int                 `json:"week"`
	Overall    domain.Percent      `json:"overall"`
	Categories []CategorySummary   `json:"categories"`
	Goals      []GoalSummary       `json:"goals"`
	Activities []WeekActivity      `json:"activities"`
	Review     domain.WeeklyReview `json:"review"`
}

type Timeline struct {
	CurrentWeek int              `json:"current_week"`
	Weeks       []domain.Percent `json:"weeks"`
}

func (s *ProgressService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	week := engine.ResolveWeek(user.StartDate, user.TotalWeeks, s.now())

	return &Dashboard{
		UserID:       user.ID,
		Name:         user.Name,
		CurrentWeek:  week,
		TotalWeeks:   user.TotalWeeks,
		Overall:      engine.OverallProgress(user, week),
		Categories:   categorySummaries(user, week),
		TotalGoals:   user.GoalCount(),
		Incomplete:   engine.IncompleteForWeek(user, week),
		Achievements: user.Achievements.Details(),
	}, nil
}

func (s *ProgressService) WeekDetail(ctx context.Context, userID string, week int) (*WeekDetail, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.ValidateWeek(week); err != nil {
		return nil, err
	}

	all := engine.AllForWeek(user, week)
	activities := make([]WeekActivity, 0, len(all))
	for _, info := range all {
		activities = append(activities, WeekActivity{
			ActivityInfo: info,
			Done:         info.Activity.DoneIn(week),
		})
	}

	review, _ := user.ReviewForWeek(week)

	return &WeekDetail{
		Week:       week,
		Overall:    engine.OverallProgress(user, week),
		Categories: categorySummaries(user, week),
		Goals:      goalSummaries(user, week),
		Activities: activities,
		Review:     review,
	}, nil
}

func (s *ProgressService) Timeline(ctx context.Context, userID string) (*Timeline, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Timeline{
		CurrentWeek: engine.ResolveWeek(user.StartDate, user.TotalWeeks, s.now()),
		Weeks:       engine.WeeklyOverall(user),
	}, nil
}

func categorySummaries(user *domain.User, week int) []CategorySummary {
	cats := domain.AllCategories()
	out := make([]CategorySummary, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategorySummary{
			Category:  c,
			Name:      c.DisplayName(),
			Progress:  engine.CategoryProgress(user, c, week),
			GoalCount: len(user.Categories[c].Goals),
		})
	}
	return out
}

func goalSummaries(user *domain.User, week int) []GoalSummary {
	out := make([]GoalSummary, 0, user.GoalCount())
	for _, c := range domain.AllCategories() {
		for _, g := range user.Categories[c].Goals {
			out = append(out, GoalSummary{
				Category: c,
				GoalID:   g.ID,
				Name:     g.Name,
				Progress: engine.GoalProgress(g, week),
			})
		}
	}
	return out
}
