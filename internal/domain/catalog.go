package domain

import (
	"context"
	"time"
)

// CatalogKind selects one of the shared, deduplicated catalogs.
type CatalogKind string

const (
	CatalogSkill    CatalogKind = "skill"
	CatalogLanguage CatalogKind = "language"
)

func (k CatalogKind) Valid() bool {
	return k == CatalogSkill || k == CatalogLanguage
}

// CatalogItem is a skill or language. Names are unique ignoring case; the
// first insert fixes the stored casing.
type CatalogItem struct {
	ID        int64       `json:"id"`
	Kind      CatalogKind `json:"kind"`
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"created_at"`
}

type SkillLevel string

const (
	SkillBasic        SkillLevel = "basic"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillExpert       SkillLevel = "expert"
)

func (l SkillLevel) Valid() bool {
	switch l {
	case SkillBasic, SkillIntermediate, SkillAdvanced, SkillExpert:
		return true
	}
	return false
}

type LanguageLevel string

const (
	LanguageA1     LanguageLevel = "A1"
	LanguageA2     LanguageLevel = "A2"
	LanguageB1     LanguageLevel = "B1"
	LanguageB2     LanguageLevel = "B2"
	LanguageC1     LanguageLevel = "C1"
	LanguageC2     LanguageLevel = "C2"
	LanguageNative LanguageLevel = "native"
)

func (l LanguageLevel) Valid() bool {
	switch l {
	case LanguageA1, LanguageA2, LanguageB1, LanguageB2, LanguageC1, LanguageC2, LanguageNative:
		return true
	}
	return false
}

const MaxCatalogNameLength = 100

type CatalogRepository interface {
	// FindByName matches name case-insensitively.
	FindByName(ctx context.Context, kind CatalogKind, name string) (*CatalogItem, error)
	// InsertIfAbsent inserts name unless a case-insensitive match exists.
	// It returns (nil, false, nil) when another writer got there first.
	InsertIfAbsent(ctx context.Context, kind CatalogKind, name string) (*CatalogItem, bool, error)
	Search(ctx context.Context, kind CatalogKind, prefix string, limit int) ([]CatalogItem, error)
}

type CatalogUsecase interface {
	// Resolve returns the catalog item for name, creating it on first use.
	Resolve(ctx context.Context, kind CatalogKind, name string) (*CatalogItem, bool, error)
	Search(ctx context.Context, kind CatalogKind, query string) ([]CatalogItem, error)
}
