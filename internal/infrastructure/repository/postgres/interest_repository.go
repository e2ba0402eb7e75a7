package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tennis-league/internal/domain/interest"
	qb "github.com/riskibarqy/tennis-league/internal/platform/querybuilder"
)

var interestColumns = qb.ColumnsOf(interestTableModel{})

type InterestRepository struct {
	db *sqlx.DB
}

func NewInterestRepository(db *sqlx.DB) *InterestRepository {
	return &InterestRepository{db: db}
}

func (r *InterestRepository) Create(ctx context.Context, item interest.Interest) error {
	query, args, err := qb.InsertModel("league_interests", interestInsertModel{
		PublicID:       item.ID,
		LeaguePublicID: item.LeagueID,
		Name:           item.Name,
		Email:          interest.NormalizeEmail(item.Email),
		Phone:          item.Phone,
		CreatedAt:      item.CreatedAt,
	}).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert interest query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "league_interests_league_public_id_email_key") {
			return interest.ErrDuplicate
		}
		return fmt.Errorf("insert interest: %w", err)
	}
	return nil
}

func (r *InterestRepository) ListByLeague(ctx context.Context, leagueID string) ([]interest.Interest, error) {
	query, args, err := qb.Select(interestColumns...).From("league_interests").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select interests query: %w", err)
	}

	var rows []interestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select interests: %w", err)
	}

	out := make([]interest.Interest, 0, len(rows))
	for _, row := range rows {
		out = append(out, interestFromRow(row))
	}
	return out, nil
}
