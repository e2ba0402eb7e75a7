package city

import (
	"fmt"
	"strings"
)

// City is a metro area where leagues are organised.
type City struct {
	ID       string
	Slug     string
	Name     string
	State    string
	Timezone string
}

func (c City) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("city id is required")
	}
	if strings.TrimSpace(c.Slug) == "" {
		return fmt.Errorf("city slug is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("city name is required")
	}

	return nil
}
