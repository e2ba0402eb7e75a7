package httpapi

import (
	"fmt"
	"time"

	"github.com/riskibarqy/tennis-league/internal/domain/city"
	"github.com/riskibarqy/tennis-league/internal/domain/interest"
	"github.com/riskibarqy/tennis-league/internal/domain/league"
	"github.com/riskibarqy/tennis-league/internal/platform/serialize"
	"github.com/riskibarqy/tennis-league/internal/usecase"
)

type registerInterestRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

type seasonConfigRequest struct {
	RegistrationStart string `json:"registration_start" validate:"omitempty"`
	RegistrationEnd   string `json:"registration_end" validate:"omitempty"`
	StartDate         string `json:"start_date" validate:"omitempty"`
	EndDate           string `json:"end_date" validate:"omitempty"`
}

type createLeagueRequest struct {
	Slug         string              `json:"slug" validate:"required,max=120"`
	Name         string              `json:"name" validate:"required,max=200"`
	CitySlug     string              `json:"city_slug" validate:"required"`
	Season       string              `json:"season" validate:"omitempty,max=60"`
	Level        string              `json:"level" validate:"omitempty,max=60"`
	Status       string              `json:"status"`
	SeasonConfig seasonConfigRequest `json:"season_config"`
}

type updateLeagueStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type reconcileStatusesRequest struct {
	DryRun     bool `json:"dry_run"`
	MaxWorkers int  `json:"max_workers" validate:"gte=0,lte=64"`
}

func (r seasonConfigRequest) toDomain() (league.SeasonConfig, error) {
	var (
		out league.SeasonConfig
		err error
	)
	if out.RegistrationStart, err = parseOptionalTime("registration_start", r.RegistrationStart); err != nil {
		return league.SeasonConfig{}, err
	}
	if out.RegistrationEnd, err = parseOptionalTime("registration_end", r.RegistrationEnd); err != nil {
		return league.SeasonConfig{}, err
	}
	if out.StartDate, err = parseOptionalTime("start_date", r.StartDate); err != nil {
		return league.SeasonConfig{}, err
	}
	if out.EndDate, err = parseOptionalTime("end_date", r.EndDate); err != nil {
		return league.SeasonConfig{}, err
	}
	return out, nil
}

// parseOptionalTime accepts RFC3339 timestamps or plain dates (UTC midnight).
func parseOptionalTime(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s must be RFC3339 or YYYY-MM-DD", usecase.ErrInvalidInput, field)
}

type cityDTO struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	State    string `json:"state,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

type seasonConfigDTO struct {
	RegistrationStart *string `json:"registration_start"`
	RegistrationEnd   *string `json:"registration_end"`
	StartDate         *string `json:"start_date"`
	EndDate           *string `json:"end_date"`
}

type leagueDTO struct {
	ID           string          `json:"id"`
	Slug         string          `json:"slug"`
	Name         string          `json:"name"`
	CityID       string          `json:"city_id"`
	Season       string          `json:"season,omitempty"`
	Level        string          `json:"level,omitempty"`
	Status       string          `json:"status"`
	SeasonConfig seasonConfigDTO `json:"season_config"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

type leagueDocumentDTO struct {
	LeagueID        string `json:"league_id"`
	EffectiveStatus string `json:"effective_status"`
	Document        any    `json:"document"`
}

type interestDTO struct {
	ID        string `json:"id"`
	LeagueID  string `json:"league_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
}

type overviewDTO struct {
	Cities      []cityDTO      `json:"cities"`
	LeagueCount int            `json:"league_count"`
	ByStatus    map[string]int `json:"by_status"`
	GeneratedAt string         `json:"generated_at"`
}

func cityToDTO(c city.City) cityDTO {
	return cityDTO{
		ID:       c.ID,
		Slug:     c.Slug,
		Name:     c.Name,
		State:    c.State,
		Timezone: c.Timezone,
	}
}

func leagueToDTO(l league.League) leagueDTO {
	return leagueDTO{
		ID:     l.ID,
		Slug:   l.Slug,
		Name:   l.Name,
		CityID: l.CityID,
		Season: l.Season,
		Level:  l.Level,
		Status: l.Status.String(),
		SeasonConfig: seasonConfigDTO{
			RegistrationStart: formatOptionalTime(l.SeasonConfig.RegistrationStart),
			RegistrationEnd:   formatOptionalTime(l.SeasonConfig.RegistrationEnd),
			StartDate:         formatOptionalTime(l.SeasonConfig.StartDate),
			EndDate:           formatOptionalTime(l.SeasonConfig.EndDate),
		},
		CreatedAt: serialize.FormatTime(l.CreatedAt),
		UpdatedAt: serialize.FormatTime(l.UpdatedAt),
	}
}

func leaguesToDTO(leagues []league.League) []leagueDTO {
	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}
	return items
}

func interestToDTO(i interest.Interest) interestDTO {
	return interestDTO{
		ID:        i.ID,
		LeagueID:  i.LeagueID,
		Name:      i.Name,
		Email:     i.Email,
		Phone:     i.Phone,
		CreatedAt: serialize.FormatTime(i.CreatedAt),
	}
}

func overviewToDTO(o usecase.Overview) overviewDTO {
	cities := make([]cityDTO, 0, len(o.Cities))
	for _, c := range o.Cities {
		cities = append(cities, cityToDTO(c))
	}

	byStatus := make(map[string]int, len(o.ByStatus))
	for status, count := range o.ByStatus {
		byStatus[status.String()] = count
	}

	return overviewDTO{
		Cities:      cities,
		LeagueCount: o.LeagueCount,
		ByStatus:    byStatus,
		GeneratedAt: serialize.FormatTime(o.GeneratedAt),
	}
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := serialize.FormatTime(*t)
	return &v
}
