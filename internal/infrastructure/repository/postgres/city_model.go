package postgres

import (
	"time"

	"github.com/riskibarqy/tennis-league/internal/domain/city"
)

type cityTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	Slug      string    `db:"slug"`
	Name      string    `db:"name"`
	State     string    `db:"state"`
	Timezone  string    `db:"timezone"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type cityUpsertModel struct {
	PublicID  string    `db:"public_id"`
	Slug      string    `db:"slug"`
	Name      string    `db:"name"`
	State     string    `db:"state"`
	Timezone  string    `db:"timezone"`
	UpdatedAt time.Time `db:"updated_at"`
}

func cityFromRow(row cityTableModel) city.City {
	return city.City{
		ID:       row.PublicID,
		Slug:     row.Slug,
		Name:     row.Name,
		State:    row.State,
		Timezone: row.Timezone,
	}
}
