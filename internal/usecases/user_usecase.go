package usecases

import (
	"context"

	"github.com/google/uuid"

	"taskbridge.backend/internal/domain/authz"
	"taskbridge.backend/internal/domain/entities"
	"taskbridge.backend/internal/domain/repositories"
)

// UserUsecase handles profile and admin dashboard queries
type UserUsecase struct {
	userRepo    repositories.UserRepository
	taskRepo    repositories.TaskRepository
	paymentRepo repositories.PaymentRepository
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(
	userRepo repositories.UserRepository,
	taskRepo repositories.TaskRepository,
	paymentRepo repositories.PaymentRepository,
) *UserUsecase {
	return &UserUsecase{
		userRepo:    userRepo,
		taskRepo:    taskRepo,
		paymentRepo: paymentRepo,
	}
}

// GetProfile returns the user's public data with activity counts
func (u *UserUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	taskCount, err := u.taskRepo.CountByClient(ctx, userID)
	if err != nil {
		return nil, err
	}

	paymentCount, err := u.paymentRepo.CountByClient(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &entities.UserProfile{
		PublicUser:   user.Public(),
		TaskCount:    taskCount,
		PaymentCount: paymentCount,
	}, nil
}

// AdminStats aggregates platform totals for the admin dashboard. Revenue
// counts verified payments only.
func (u *UserUsecase) AdminStats(ctx context.Context, caller authz.Caller) (*entities.AdminStats, error) {
	if err := authz.Authorize(caller, authz.CapAdminOnly, uuid.Nil); err != nil {
		return nil, err
	}

	users, err := u.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := u.taskRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	revenue, err := u.paymentRepo.SumSuccessful(ctx)
	if err != nil {
		return nil, err
	}

	return &entities.AdminStats{
		Users:   users,
		Tasks:   tasks,
		Revenue: revenue,
	}, nil
}
