package postgres

import (
	"time"

	"github.com/riskibarqy/tennis-league/internal/domain/interest"
)

type interestTableModel struct {
	ID             int64     `db:"id"`
	PublicID       string    `db:"public_id"`
	LeaguePublicID string    `db:"league_public_id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	Phone          string    `db:"phone"`
	CreatedAt      time.Time `db:"created_at"`
}

type interestInsertModel struct {
	PublicID       string    `db:"public_id"`
	LeaguePublicID string    `db:"league_public_id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	Phone          string    `db:"phone"`
	CreatedAt      time.Time `db:"created_at"`
}

func interestFromRow(row interestTableModel) interest.Interest {
	return interest.Interest{
		ID:        row.PublicID,
		LeagueID:  row.LeaguePublicID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		CreatedAt: row.CreatedAt,
	}
}
