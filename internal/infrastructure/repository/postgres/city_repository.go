package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tennis-league/internal/domain/city"
	qb "github.com/riskibarqy/tennis-league/internal/platform/querybuilder"
)

var cityColumns = qb.ColumnsOf(cityTableModel{})

type CityRepository struct {
	db *sqlx.DB
}

func NewCityRepository(db *sqlx.DB) *CityRepository {
	return &CityRepository{db: db}
}

func (r *CityRepository) List(ctx context.Context) ([]city.City, error) {
	query, args, err := qb.Select(cityColumns...).From("cities").OrderBy("name").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select cities query: %w", err)
	}

	var rows []cityTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select cities: %w", err)
	}

	out := make([]city.City, 0, len(rows))
	for _, row := range rows {
		out = append(out, cityFromRow(row))
	}
	return out, nil
}

func (r *CityRepository) GetBySlug(ctx context.Context, slug string) (city.City, bool, error) {
	query, args, err := qb.Select(cityColumns...).From("cities").
		Where(qb.Eq("slug", slug)).
		Limit(1).
		ToSQL()
	if err != nil {
		return city.City{}, false, fmt.Errorf("build get city query: %w", err)
	}

	var row cityTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return city.City{}, false, nil
		}
		return city.City{}, false, fmt.Errorf("get city: %w", err)
	}
	return cityFromRow(row), true, nil
}

func (r *CityRepository) Upsert(ctx context.Context, item city.City) error {
	query, args, err := qb.InsertModel("cities", cityUpsertModel{
		PublicID:  item.ID,
		Slug:      item.Slug,
		Name:      item.Name,
		State:     item.State,
		Timezone:  item.Timezone,
		UpdatedAt: time.Now().UTC(),
	}).
		OnConflict("public_id").
		DoUpdate().
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert city query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert city: %w", err)
	}
	return nil
}
