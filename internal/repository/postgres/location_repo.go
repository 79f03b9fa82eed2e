package postgres

import (
	"context"
	"fmt"

	"jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type locationRepo struct {
	db *pgxpool.Pool
}

func NewLocationRepository(db *pgxpool.Pool) domain.LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) ListCountries(ctx context.Context) ([]domain.Country, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id, name, code FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	countries := []domain.Country{}
	for rows.Next() {
		var c domain.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Code); err != nil {
			return nil, err
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

func (r *locationRepo) ListRegions(ctx context.Context, countryID int64) ([]domain.Region, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT id, country_id, name FROM regions WHERE country_id = $1 ORDER BY name`, countryID)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	regions := []domain.Region{}
	for rows.Next() {
		var reg domain.Region
		if err := rows.Scan(&reg.ID, &reg.CountryID, &reg.Name); err != nil {
			return nil, err
		}
		regions = append(regions, reg)
	}
	return regions, rows.Err()
}

func (r *locationRepo) ListCities(ctx context.Context, regionID int64) ([]domain.City, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT id, region_id, name FROM cities WHERE region_id = $1 ORDER BY name`, regionID)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	cities := []domain.City{}
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.RegionID, &c.Name); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}
