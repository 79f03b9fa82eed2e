package domain

import "context"

type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type Region struct {
	ID        int64  `json:"id"`
	CountryID int64  `json:"country_id"`
	Name      string `json:"name"`
}

type City struct {
	ID       int64  `json:"id"`
	RegionID int64  `json:"region_id"`
	Name     string `json:"name"`
}

type LocationRepository interface {
	ListCountries(ctx context.Context) ([]Country, error)
	ListRegions(ctx context.Context, countryID int64) ([]Region, error)
	ListCities(ctx context.Context, regionID int64) ([]City, error)
}

type LocationUsecase interface {
	ListCountries(ctx context.Context) ([]Country, error)
	ListRegions(ctx context.Context, countryID int64) ([]Region, error)
	ListCities(ctx context.Context, regionID int64) ([]City, error)
}
