package league

import (
	"fmt"
	"strings"
	"time"
)

// SeasonConfig holds the optional calendar of a league season.
// Expected ordering is RegistrationStart <= RegistrationEnd <= StartDate <= EndDate,
// but stored data is not guaranteed to follow it.
type SeasonConfig struct {
	RegistrationStart *time.Time
	RegistrationEnd   *time.Time
	StartDate         *time.Time
	EndDate           *time.Time
}

// League is a tennis league offered in a city.
type League struct {
	ID           string
	Slug         string
	Name         string
	CityID       string
	Season       string
	Level        string
	Status       Status
	SeasonConfig SeasonConfig
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (l League) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("league id is required")
	}
	if strings.TrimSpace(l.Slug) == "" {
		return fmt.Errorf("league slug is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league name is required")
	}
	if strings.TrimSpace(l.CityID) == "" {
		return fmt.Errorf("league city id is required")
	}
	if !l.Status.IsKnown() {
		return fmt.Errorf("league status %q is not supported", l.Status)
	}
	if err := l.SeasonConfig.Validate(); err != nil {
		return err
	}

	return nil
}

// Validate checks that every pair of configured dates is ordered.
func (c SeasonConfig) Validate() error {
	ordered := []struct {
		name string
		at   *time.Time
	}{
		{name: "registration start", at: c.RegistrationStart},
		{name: "registration end", at: c.RegistrationEnd},
		{name: "start date", at: c.StartDate},
		{name: "end date", at: c.EndDate},
	}

	for i := 0; i < len(ordered); i++ {
		if ordered[i].at == nil {
			continue
		}
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j].at == nil {
				continue
			}
			if ordered[j].at.Before(*ordered[i].at) {
				return fmt.Errorf("%s must not be before %s", ordered[j].name, ordered[i].name)
			}
		}
	}

	return nil
}
