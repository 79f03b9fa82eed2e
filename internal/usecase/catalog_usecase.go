package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"
)

const catalogSearchLimit = 20

type catalogUsecase struct {
	repo domain.CatalogRepository
}

func NewCatalogUsecase(repo domain.CatalogRepository) domain.CatalogUsecase {
	return &catalogUsecase{repo: repo}
}

// Resolve returns the existing item matching name ignoring case, or inserts
// it. A concurrent insert of the same name is absorbed by re-reading.
func (u *catalogUsecase) Resolve(ctx context.Context, kind domain.CatalogKind, name string) (*domain.CatalogItem, bool, error) {
	if !kind.Valid() {
		return nil, false, apperror.BadRequest("Unknown catalog")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, apperror.Validation(apperror.FieldError{Field: "name", Message: "is required"})
	}
	if utf8.RuneCountInString(name) > domain.MaxCatalogNameLength {
		return nil, false, apperror.Validation(apperror.FieldError{
			Field:   "name",
			Message: fmt.Sprintf("must be at most %d characters", domain.MaxCatalogNameLength),
		})
	}

	item, err := u.repo.FindByName(ctx, kind, name)
	if err == nil {
		return item, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	item, created, err := u.repo.InsertIfAbsent(ctx, kind, name)
	if err != nil {
		return nil, false, err
	}
	if created {
		return item, true, nil
	}

	item, err = u.repo.FindByName(ctx, kind, name)
	if err != nil {
		return nil, false, fmt.Errorf("re-read %s %q: %w", kind, name, err)
	}
	return item, false, nil
}

func (u *catalogUsecase) Search(ctx context.Context, kind domain.CatalogKind, query string) ([]domain.CatalogItem, error) {
	if !kind.Valid() {
		return nil, apperror.NotFound("Catalog not found")
	}
	return u.repo.Search(ctx, kind, strings.TrimSpace(query), catalogSearchLimit)
}
