package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tennis-league/internal/domain/league"
	qb "github.com/riskibarqy/tennis-league/internal/platform/querybuilder"
)

var leagueColumns = qb.ColumnsOf(leagueTableModel{})

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select(leagueColumns...).From("leagues").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	return r.selectLeagues(ctx, "select leagues", query, args)
}

func (r *LeagueRepository) ListByCity(ctx context.Context, cityID string) ([]league.League, error) {
	query, args, err := qb.Select(leagueColumns...).From("leagues").
		Where(
			qb.Eq("city_public_id", cityID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues by city query: %w", err)
	}

	return r.selectLeagues(ctx, "select leagues by city", query, args)
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return r.getLeague(ctx, "public_id", leagueID)
}

func (r *LeagueRepository) GetBySlug(ctx context.Context, slug string) (league.League, bool, error) {
	return r.getLeague(ctx, "slug", slug)
}

func (r *LeagueRepository) GetDocument(ctx context.Context, leagueID string) (map[string]any, bool, error) {
	item, exists, err := r.GetByID(ctx, leagueID)
	if err != nil || !exists {
		return nil, exists, err
	}
	return league.Document(item), true, nil
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) error {
	query, args, err := qb.InsertModel("leagues", leagueToInsertModel(item)).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "leagues_slug_key") {
			return league.ErrDuplicateSlug
		}
		return fmt.Errorf("insert league: %w", err)
	}
	return nil
}

func (r *LeagueRepository) UpdateStatus(ctx context.Context, leagueID string, status league.Status, updatedAt time.Time) (bool, error) {
	return r.setStatus(ctx, leagueID, status, updatedAt)
}

// CompareAndSetStatus writes to only while the stored status is still from.
func (r *LeagueRepository) CompareAndSetStatus(ctx context.Context, leagueID string, from, to league.Status, updatedAt time.Time) (bool, error) {
	return r.setStatus(ctx, leagueID, to, updatedAt, qb.Eq("status", string(from)))
}

func (r *LeagueRepository) setStatus(ctx context.Context, leagueID string, status league.Status, updatedAt time.Time, extra ...qb.Condition) (bool, error) {
	query, args, err := updateStatusQuery(leagueID, status, updatedAt, extra...)
	if err != nil {
		return false, fmt.Errorf("build update league status query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update league status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read affected rows: %w", err)
	}
	return affected > 0, nil
}

func (r *LeagueRepository) getLeague(ctx context.Context, column, value string) (league.League, bool, error) {
	query, args, err := qb.Select(leagueColumns...).From("leagues").
		Where(
			qb.Eq(column, value),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by %s query: %w", column, err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by %s: %w", column, err)
	}

	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) selectLeagues(ctx context.Context, op, query string, args []any) ([]league.League, error) {
	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}
	return out, nil
}

func updateStatusQuery(leagueID string, status league.Status, updatedAt time.Time, extra ...qb.Condition) (string, []any, error) {
	conds := append([]qb.Condition{
		qb.Eq("public_id", leagueID),
		qb.IsNull("deleted_at"),
	}, extra...)

	return qb.Update("leagues").
		Set("status", string(status)).
		Set("updated_at", updatedAt).
		Where(conds...).
		ToSQL()
}
