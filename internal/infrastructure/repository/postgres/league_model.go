package postgres

import (
	"time"

	"github.com/riskibarqy/tennis-league/internal/domain/league"
)

type leagueTableModel struct {
	ID                int64      `db:"id"`
	PublicID          string     `db:"public_id"`
	Slug              string     `db:"slug"`
	Name              string     `db:"name"`
	CityPublicID      string     `db:"city_public_id"`
	Season            string     `db:"season"`
	Level             string     `db:"level"`
	Status            string     `db:"status"`
	RegistrationStart *time.Time `db:"registration_start"`
	RegistrationEnd   *time.Time `db:"registration_end"`
	StartDate         *time.Time `db:"start_date"`
	EndDate           *time.Time `db:"end_date"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at"`
}

type leagueInsertModel struct {
	PublicID          string     `db:"public_id"`
	Slug              string     `db:"slug"`
	Name              string     `db:"name"`
	CityPublicID      string     `db:"city_public_id"`
	Season            string     `db:"season"`
	Level             string     `db:"level"`
	Status            string     `db:"status"`
	RegistrationStart *time.Time `db:"registration_start"`
	RegistrationEnd   *time.Time `db:"registration_end"`
	StartDate         *time.Time `db:"start_date"`
	EndDate           *time.Time `db:"end_date"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:     row.PublicID,
		Slug:   row.Slug,
		Name:   row.Name,
		CityID: row.CityPublicID,
		Season: row.Season,
		Level:  row.Level,
		Status: league.Status(row.Status),
		SeasonConfig: league.SeasonConfig{
			RegistrationStart: row.RegistrationStart,
			RegistrationEnd:   row.RegistrationEnd,
			StartDate:         row.StartDate,
			EndDate:           row.EndDate,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func leagueToInsertModel(item league.League) leagueInsertModel {
	return leagueInsertModel{
		PublicID:          item.ID,
		Slug:              item.Slug,
		Name:              item.Name,
		CityPublicID:      item.CityID,
		Season:            item.Season,
		Level:             item.Level,
		Status:            string(item.Status),
		RegistrationStart: item.SeasonConfig.RegistrationStart,
		RegistrationEnd:   item.SeasonConfig.RegistrationEnd,
		StartDate:         item.SeasonConfig.StartDate,
		EndDate:           item.SeasonConfig.EndDate,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}
