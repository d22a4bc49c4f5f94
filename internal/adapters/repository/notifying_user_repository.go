package repository

import (
	"context"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
)

var _ domain.UserRepository = (*NotifyingUserRepository)(nil)

// ChangeNotifier is told after every successful write.
type ChangeNotifier interface {
	Enqueue()
}

// NotifyingUserRepository decorates a repository so that every successful
// write schedules a snapshot.
type NotifyingUserRepository struct {
	next     domain.UserRepository
	notifier ChangeNotifier
}

func NewNotifyingUserRepository(next domain.UserRepository, notifier ChangeNotifier) *NotifyingUserRepository {
	return &NotifyingUserRepository{
		next:     next,
		notifier: notifier,
	}
}

func (r *NotifyingUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.next.GetByID(ctx, id)
}

func (r *NotifyingUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.next.List(ctx)
}

func (r *NotifyingUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.next.Create(ctx, user); err != nil {
		return err
	}
	r.notifier.Enqueue()
	return nil
}

func (r *NotifyingUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.next.Update(ctx, user); err != nil {
		return err
	}
	r.notifier.Enqueue()
	return nil
}

func (r *NotifyingUserRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.notifier.Enqueue()
	return nil
}
