package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/engine"
)

// Clock returns the current instant. Services take one so tests can pin time.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}

type PlanService struct {
	repo   domain.UserRepository
	logger *zap.Logger
	now    Clock
	newID  func() string
	locks  *userLocks
}

func NewPlanService(repo domain.UserRepository, logger *zap.Logger, now Clock) *PlanService {
	if now == nil {
		now = SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		repo:   repo,
		logger: logger,
		now:    now,
		newID:  uuid.NewString,
		locks:  newUserLocks(),
	}
}

type CreateUserInput struct {
	Name       string
	StartDate  time.Time
	TotalWeeks int
}

// MutationResult is the new snapshot plus whatever the change unlocked.
// CreatedID is set when the mutation created a goal or an activity.
type MutationResult struct {
	User          *domain.User         `json:"user"`
	NewlyUnlocked []domain.Achievement `json:"newly_unlocked"`
	CreatedID     string               `json:"created_id,omitempty"`
}

func (s *PlanService) CreateUser(ctx context.Context, input CreateUserInput) (*MutationResult, error) {
	now := s.now()

	start := input.StartDate
	if start.IsZero() {
		start = now
	}

	user, err := domain.NewUser(s.newID(), input.Name, start, input.TotalWeeks, now)
	if err != nil {
		return nil, err
	}

	res, err := s.commit(ctx, user, s.repo.Create)
	if err != nil {
		return nil, err
	}

	s.logger.Info("plan created",
		zap.String("user_id", user.ID),
		zap.Int("total_weeks", user.TotalWeeks),
	)
	return res, nil
}

func (s *PlanService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *PlanService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *PlanService) DeleteUser(ctx context.Context, userID string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("plan deleted", zap.String("user_id", userID))
	return nil
}

func (s *PlanService) AddGoal(ctx context.Context, userID string, category domain.CategoryType, name string) (*MutationResult, error) {
	goal, err := domain.NewGoal(s.newID(), name)
	if err != nil {
		return nil, err
	}

	res, err := s.mutate(ctx, userID, func(u *domain.User) error {
		return u.AddGoal(category, goal)
	})
	if err != nil {
		return nil, err
	}

	res.CreatedID = goal.ID
	return res, nil
}

func (s *PlanService) DeleteGoal(ctx context.Context, userID string, category domain.CategoryType, goalID string) (*MutationResult, error) {
	return s.mutate(ctx, userID, func(u *domain.User) error {
		return u.RemoveGoal(category, goalID)
	})
}

func (s *PlanService) AddActivity(ctx context.Context, userID string, category domain.CategoryType, goalID, name string) (*MutationResult, error) {
	activityID := s.newID()

	res, err := s.mutate(ctx, userID, func(u *domain.User) error {
		activity, err := domain.NewActivity(activityID, name, u.TotalWeeks)
		if err != nil {
			return err
		}
		return u.UpdateGoal(category, goalID, func(g *domain.Goal) error {
			g.AddActivity(activity)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	res.CreatedID = activityID
	return res, nil
}

func (s *PlanService) ToggleActivity(ctx context.Context, userID string, category domain.CategoryType, goalID, activityID string, week int) (*MutationResult, error) {
	return s.mutate(ctx, userID, func(u *domain.User) error {
		if err := u.ValidateWeek(week); err != nil {
			return err
		}
		return u.UpdateGoal(category, goalID, func(g *domain.Goal) error {
			return g.ToggleActivity(activityID, week)
		})
	})
}

func (s *PlanService) DeleteActivity(ctx context.Context, userID string, category domain.CategoryType, goalID, activityID string) (*MutationResult, error) {
	return s.mutate(ctx, userID, func(u *domain.User) error {
		return u.UpdateGoal(category, goalID, func(g *domain.Goal) error {
			return g.RemoveActivity(activityID)
		})
	})
}

func (s *PlanService) SaveReview(ctx context.Context, userID string, week int, wentWell, couldBeImproved string) (*MutationResult, error) {
	review, err := domain.NewWeeklyReview(week, wentWell, couldBeImproved)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, userID, func(u *domain.User) error {
		if err := u.ValidateWeek(week); err != nil {
			return err
		}
		u.SaveReview(review)
		return nil
	})
}

// GetReview returns the stored review for week, or an empty one to prefill a
// form with.
func (s *PlanService) GetReview(ctx context.Context, userID string, week int) (domain.WeeklyReview, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return domain.WeeklyReview{}, err
	}
	if err := user.ValidateWeek(week); err != nil {
		return domain.WeeklyReview{}, err
	}

	review, _ := user.ReviewForWeek(week)
	return review, nil
}

// mutate runs load, change, evaluate and save under the user's lock.
func (s *PlanService) mutate(ctx context.Context, userID string, fn func(*domain.User) error) (*MutationResult, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}

	return s.commit(ctx, next, s.repo.Update)
}

func (s *PlanService) commit(ctx context.Context, user *domain.User, save func(context.Context, *domain.User) error) (*MutationResult, error) {
	evaluated, unlocked := engine.Evaluate(user)
	evaluated.UpdatedAt = s.now().UTC()

	if err := save(ctx, evaluated); err != nil {
		return nil, err
	}

	for _, a := range unlocked {
		s.logger.Info("achievement unlocked",
			zap.String("user_id", evaluated.ID),
			zap.String("achievement", string(a.ID)),
		)
	}

	return &MutationResult{User: evaluated, NewlyUnlocked: unlocked}, nil
}
