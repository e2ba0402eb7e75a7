package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/tennis-league/internal/domain/city"
)

type CityService struct {
	cityRepo city.Repository
}

func NewCityService(cityRepo city.Repository) *CityService {
	return &CityService{cityRepo: cityRepo}
}

func (s *CityService) ListCities(ctx context.Context) ([]city.City, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CityService.ListCities")
	defer span.End()

	items, err := s.cityRepo.List(ctx)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("list cities: %w", err))
	}
	return items, nil
}

func (s *CityService) GetCity(ctx context.Context, slug string) (city.City, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CityService.GetCity")
	defer span.End()

	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return city.City{}, spanError(span, fmt.Errorf("%w: city slug is required", ErrInvalidInput))
	}

	item, exists, err := s.cityRepo.GetBySlug(ctx, slug)
	if err != nil {
		return city.City{}, spanError(span, fmt.Errorf("get city: %w", err))
	}
	if !exists {
		return city.City{}, spanError(span, fmt.Errorf("%w: city=%s", ErrNotFound, slug))
	}
	return item, nil
}
