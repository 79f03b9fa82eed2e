package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"
	"jobboard-backend/pkg/audit"
	"jobboard-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type authUsecase struct {
	userRepo      domain.UserRepository
	candidateRepo domain.CandidateRepository
	companyRepo   domain.CompanyProfileRepository
	tx            domain.Transactor
	validate      *validator.Validate
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	candidateRepo domain.CandidateRepository,
	companyRepo domain.CompanyProfileRepository,
	tx domain.Transactor,
	validate *validator.Validate,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo:      userRepo,
		candidateRepo: candidateRepo,
		companyRepo:   companyRepo,
		tx:            tx,
		validate:      validate,
	}
}

// Register creates the local user for an identity provider account together
// with a placeholder profile for its role, in one transaction.
func (u *authUsecase) Register(ctx context.Context, input domain.RegisterInput) (*domain.RegisterResult, error) {
	if input.UserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if err := validation.Struct(u.validate, input); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, apperror.Validation(apperror.FieldError{Field: "email", Message: "is required"})
	}

	if _, err := u.userRepo.GetByID(ctx, input.UserID); err == nil {
		return nil, apperror.Conflict("User is already registered")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:        input.UserID,
		Email:     email,
		Role:      input.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	local := emailLocalPart(email)

	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.userRepo.Create(ctx, user); err != nil {
			return err
		}
		switch user.Role {
		case domain.RoleCandidate:
			return u.candidateRepo.Create(ctx, &domain.CandidateProfile{
				UserID:    user.ID,
				FullName:  local,
				BirthDate: domain.PlaceholderBirthDate,
			})
		case domain.RoleCompany:
			return u.companyRepo.Create(ctx, &domain.CompanyProfile{
				UserID: user.ID,
				Name:   "Company " + local,
			})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperror.Conflict("Email is already registered")
		}
		return nil, err
	}

	record(ctx, domain.Caller{UserID: user.ID, Role: user.Role}, audit.EventUserRegistered, "user", 0,
		map[string]interface{}{"email": audit.MaskEmail(email)})

	return &domain.RegisterResult{User: user, LandingRoute: firstRoute(user.Role, false)}, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) Me(ctx context.Context, caller domain.Caller) (*domain.CurrentUser, error) {
	if caller.Anonymous() {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	user, err := u.GetCurrentUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	complete := true
	if user.Role == domain.RoleCandidate {
		profile, err := u.candidateRepo.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		complete = profile.HasPersonalInfo()
	}
	return &domain.CurrentUser{
		User:            user,
		LandingRoute:    firstRoute(user.Role, complete),
		ProfileComplete: complete,
	}, nil
}

// firstRoute sends candidates without personal info into the wizard.
func firstRoute(role domain.Role, profileComplete bool) string {
	if role == domain.RoleCandidate && !profileComplete {
		return domain.StepPersonalInfo.Route()
	}
	return domain.LandingRoute(role)
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
