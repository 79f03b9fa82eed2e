package usecase

import (
	"context"

	"jobboard-backend/internal/domain"
)

type locationUsecase struct {
	repo domain.LocationRepository
}

func NewLocationUsecase(repo domain.LocationRepository) domain.LocationUsecase {
	return &locationUsecase{repo: repo}
}

func (u *locationUsecase) ListCountries(ctx context.Context) ([]domain.Country, error) {
	return u.repo.ListCountries(ctx)
}

func (u *locationUsecase) ListRegions(ctx context.Context, countryID int64) ([]domain.Region, error) {
	return u.repo.ListRegions(ctx, countryID)
}

func (u *locationUsecase) ListCities(ctx context.Context, regionID int64) ([]domain.City, error) {
	return u.repo.ListCities(ctx, regionID)
}
