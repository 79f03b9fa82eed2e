package postgres

import (
	"context"
	"errors"
	"fmt"

	"jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type catalogRepo struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) domain.CatalogRepository {
	return &catalogRepo{db: db}
}

func catalogTable(kind domain.CatalogKind) (string, error) {
	switch kind {
	case domain.CatalogSkill:
		return "skills", nil
	case domain.CatalogLanguage:
		return "languages", nil
	}
	return "", fmt.Errorf("unknown catalog kind %q", kind)
}

func (r *catalogRepo) FindByName(ctx context.Context, kind domain.CatalogKind, name string) (*domain.CatalogItem, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, name, created_at FROM ` + table + ` WHERE lower(name) = lower($1)`
	item := domain.CatalogItem{Kind: kind}
	if err := conn(ctx, r.db).QueryRow(ctx, query, name).Scan(&item.ID, &item.Name, &item.CreatedAt); err != nil {
		return nil, notFound(err, "find "+string(kind))
	}
	return &item, nil
}

func (r *catalogRepo) InsertIfAbsent(ctx context.Context, kind domain.CatalogKind, name string) (*domain.CatalogItem, bool, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, false, err
	}
	query := `
		INSERT INTO ` + table + ` (name) VALUES ($1)
		ON CONFLICT ((lower(name))) DO NOTHING
		RETURNING id, name, created_at`
	item := domain.CatalogItem{Kind: kind}
	err = conn(ctx, r.db).QueryRow(ctx, query, name).Scan(&item.ID, &item.Name, &item.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("insert %s: %w", kind, err)
	}
	return &item, true, nil
}

func (r *catalogRepo) Search(ctx context.Context, kind domain.CatalogKind, prefix string, limit int) ([]domain.CatalogItem, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	escaped := likeEscaper.Replace(prefix)
	query := `SELECT id, name, created_at FROM ` + table + ` WHERE name ILIKE $1 ORDER BY lower(name) LIMIT $2`
	rows, err := conn(ctx, r.db).Query(ctx, query, escaped+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", kind, err)
	}
	defer rows.Close()

	items := []domain.CatalogItem{}
	for rows.Next() {
		item := domain.CatalogItem{Kind: kind}
		if err := rows.Scan(&item.ID, &item.Name, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
