// Package seed loads reference cities and leagues from YAML fixtures.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/riskibarqy/tennis-league/internal/domain/city"
	"github.com/riskibarqy/tennis-league/internal/domain/league"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultFixture []byte

type Dataset struct {
	Cities  []city.City
	Leagues []league.League
}

type fileModel struct {
	Cities  []cityModel   `yaml:"cities"`
	Leagues []leagueModel `yaml:"leagues"`
}

type cityModel struct {
	ID       string `yaml:"id"`
	Slug     string `yaml:"slug"`
	Name     string `yaml:"name"`
	State    string `yaml:"state"`
	Timezone string `yaml:"timezone"`
}

type leagueModel struct {
	ID           string      `yaml:"id"`
	Slug         string      `yaml:"slug"`
	Name         string      `yaml:"name"`
	City         string      `yaml:"city"`
	Season       string      `yaml:"season"`
	Level        string      `yaml:"level"`
	Status       string      `yaml:"status"`
	SeasonConfig seasonModel `yaml:"season_config"`
}

type seasonModel struct {
	RegistrationStart *time.Time `yaml:"registration_start"`
	RegistrationEnd   *time.Time `yaml:"registration_end"`
	StartDate         *time.Time `yaml:"start_date"`
	EndDate           *time.Time `yaml:"end_date"`
}

// Default returns the fixture bundled with the binary.
func Default(now time.Time) (Dataset, error) {
	return Load(bytes.NewReader(defaultFixture), now)
}

// Load parses a fixture. League city references are resolved by city slug and
// now is used as the creation time of every record.
func Load(r io.Reader, now time.Time) (Dataset, error) {
	var file fileModel
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return Dataset{}, fmt.Errorf("decode seed fixture: %w", err)
	}

	cityIDBySlug := make(map[string]string, len(file.Cities))
	out := Dataset{
		Cities:  make([]city.City, 0, len(file.Cities)),
		Leagues: make([]league.League, 0, len(file.Leagues)),
	}

	for _, c := range file.Cities {
		item := city.City{
			ID:       strings.TrimSpace(c.ID),
			Slug:     strings.ToLower(strings.TrimSpace(c.Slug)),
			Name:     strings.TrimSpace(c.Name),
			State:    strings.TrimSpace(c.State),
			Timezone: strings.TrimSpace(c.Timezone),
		}
		if err := item.Validate(); err != nil {
			return Dataset{}, fmt.Errorf("seed city %q: %w", c.Slug, err)
		}
		cityIDBySlug[item.Slug] = item.ID
		out.Cities = append(out.Cities, item)
	}

	for _, l := range file.Leagues {
		cityID, ok := cityIDBySlug[strings.ToLower(strings.TrimSpace(l.City))]
		if !ok {
			return Dataset{}, fmt.Errorf("seed league %q: unknown city %q", l.Slug, l.City)
		}
		status, err := league.ParseStatus(l.Status)
		if err != nil {
			return Dataset{}, fmt.Errorf("seed league %q: %w", l.Slug, err)
		}

		item := league.League{
			ID:     strings.TrimSpace(l.ID),
			Slug:   strings.ToLower(strings.TrimSpace(l.Slug)),
			Name:   strings.TrimSpace(l.Name),
			CityID: cityID,
			Season: strings.TrimSpace(l.Season),
			Level:  strings.TrimSpace(l.Level),
			Status: status,
			SeasonConfig: league.SeasonConfig{
				RegistrationStart: l.SeasonConfig.RegistrationStart,
				RegistrationEnd:   l.SeasonConfig.RegistrationEnd,
				StartDate:         l.SeasonConfig.StartDate,
				EndDate:           l.SeasonConfig.EndDate,
			},
			CreatedAt: now.UTC(),
			UpdatedAt: now.UTC(),
		}
		if err := item.Validate(); err != nil {
			return Dataset{}, fmt.Errorf("seed league %q: %w", l.Slug, err)
		}
		out.Leagues = append(out.Leagues, item)
	}

	return out, nil
}

// CityWriter and LeagueWriter are the store operations Apply needs.
type CityWriter interface {
	Upsert(ctx context.Context, item city.City) error
}

type LeagueWriter interface {
	GetByID(ctx context.Context, leagueID string) (league.League, bool, error)
	Create(ctx context.Context, item league.League) error
}

type ApplyResult struct {
	Cities         int
	LeaguesCreated int
	LeaguesSkipped int
}

// Apply writes a dataset into a store. Existing leagues are left untouched.
func Apply(ctx context.Context, data Dataset, cities CityWriter, leagues LeagueWriter) (ApplyResult, error) {
	var result ApplyResult
	for _, c := range data.Cities {
		if err := cities.Upsert(ctx, c); err != nil {
			return result, fmt.Errorf("upsert city %s: %w", c.Slug, err)
		}
		result.Cities++
	}

	for _, l := range data.Leagues {
		_, exists, err := leagues.GetByID(ctx, l.ID)
		if err != nil {
			return result, fmt.Errorf("get league %s: %w", l.ID, err)
		}
		if exists {
			result.LeaguesSkipped++
			continue
		}
		if err := leagues.Create(ctx, l); err != nil {
			return result, fmt.Errorf("create league %s: %w", l.Slug, err)
		}
		result.LeaguesCreated++
	}

	return result, nil
}
