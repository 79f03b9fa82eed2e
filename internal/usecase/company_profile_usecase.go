package usecase

import (
	"context"
	"errors"

	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"
	"jobboard-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type companyProfileUsecase struct {
	repo     domain.CompanyProfileRepository
	validate *validator.Validate
}

func NewCompanyProfileUsecase(repo domain.CompanyProfileRepository, validate *validator.Validate) domain.CompanyProfileUsecase {
	return &companyProfileUsecase{repo: repo, validate: validate}
}

func (u *companyProfileUsecase) GetMine(ctx context.Context, caller domain.Caller) (*domain.CompanyProfile, error) {
	return companyFor(ctx, u.repo, caller)
}

func (u *companyProfileUsecase) UpdateMine(ctx context.Context, caller domain.Caller, input domain.CompanyProfileInput) (*domain.CompanyProfile, error) {
	profile, err := companyFor(ctx, u.repo, caller)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(u.validate, input); err != nil {
		return nil, err
	}

	profile.Name = input.Name
	profile.Description = optional(input.Description)
	profile.Sector = optional(input.Sector)
	profile.CityID = input.CityID
	profile.Address = optional(input.Address)
	profile.Website = optional(input.Website)
	profile.LogoURL = optional(input.LogoURL)
	profile.Phone = optional(input.Phone)

	if err := u.repo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetPublic returns the company page with its published postings only.
func (u *companyProfileUsecase) GetPublic(ctx context.Context, id int64) (*domain.CompanyPublicProfile, error) {
	profile, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Company not found")
		}
		return nil, err
	}
	postings, err := u.repo.ListPublishedJobs(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return &domain.CompanyPublicProfile{Profile: profile, Postings: postings}, nil
}
