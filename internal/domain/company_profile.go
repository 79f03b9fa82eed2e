package domain

import (
	"context"
	"time"
)

// CompanyProfile represents an employer's public profile
type CompanyProfile struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Sector      *string   `json:"sector,omitempty"`
	CityID      *int64    `json:"city_id,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Website     *string   `json:"website,omitempty"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined
	CityName *string `json:"city_name,omitempty"`
}

type CompanyProfileInput struct {
	Name        string `json:"name" validate:"required,max=200,valid_name"`
	Description string `json:"description" validate:"max=5000,no_emoji"`
	Sector      string `json:"sector" validate:"max=100"`
	CityID      *int64 `json:"city_id"`
	Address     string `json:"address" validate:"max=300"`
	Website     string `json:"website" validate:"omitempty,url"`
	LogoURL     string `json:"logo_url" validate:"omitempty,url"`
	Phone       string `json:"phone" validate:"omitempty,phone_ec"`
}

// CompanyPublicProfile is the company page with its published postings.
type CompanyPublicProfile struct {
	Profile  *CompanyProfile  `json:"profile"`
	Postings []JobWithCompany `json:"postings"`
}

type CompanyProfileRepository interface {
	Create(ctx context.Context, profile *CompanyProfile) error
	GetByUserID(ctx context.Context, userID string) (*CompanyProfile, error)
	GetByID(ctx context.Context, id int64) (*CompanyProfile, error)
	Update(ctx context.Context, profile *CompanyProfile) error
	ListPublishedJobs(ctx context.Context, companyID int64) ([]JobWithCompany, error)
}

type CompanyProfileUsecase interface {
	GetMine(ctx context.Context, caller Caller) (*CompanyProfile, error)
	UpdateMine(ctx context.Context, caller Caller, input CompanyProfileInput) (*CompanyProfile, error)
	GetPublic(ctx context.Context, id int64) (*CompanyPublicProfile, error)
}
