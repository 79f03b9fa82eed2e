package usecase

import (
	"context"

	"jobboard-backend/internal/domain"
)

type adminUsecase struct {
	repo domain.AdminRepository
}

func NewAdminUsecase(repo domain.AdminRepository) domain.AdminUsecase {
	return &adminUsecase{repo: repo}
}

// Dashboard returns platform statistics for administrators.
func (u *adminUsecase) Dashboard(ctx context.Context, caller domain.Caller) (*domain.AdminStats, error) {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return u.repo.GetStats(ctx)
}
