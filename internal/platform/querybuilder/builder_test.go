package querybuilder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leagueRow struct {
	PublicID  string     `db:"public_id"`
	Slug      string     `db:"slug"`
	Status    string     `db:"status"`
	DeletedAt *time.Time `db:"deleted_at"`
	internal  string
	Ignored   string `db:"-"`
}

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("public_id", "slug").
		From("leagues").
		Where(Eq("city_public_id", "c1"), NotEq("status", "archived"), IsNull("deleted_at")).
		OrderBy("id").
		Limit(10).
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "SELECT public_id, slug FROM leagues WHERE city_public_id = $1 AND status <> $2 AND deleted_at IS NULL ORDER BY id LIMIT 10", query)
	assert.Equal(t, []any{"c1", "archived"}, args)
}

func TestSelectBuilder_Errors(t *testing.T) {
	_, _, err := Select().From("leagues").ToSQL()
	assert.Error(t, err)

	_, _, err = Select("id").ToSQL()
	assert.Error(t, err)
}

func TestInsertModel(t *testing.T) {
	query, args, err := InsertModel("leagues", leagueRow{PublicID: "l1", Slug: "austin-open", Status: "coming_soon", internal: "x"}).ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO leagues (public_id, slug, status, deleted_at) VALUES ($1, $2, $3, $4)", query)
	require.Len(t, args, 4)
	assert.Equal(t, "l1", args[0])
	assert.Nil(t, args[3])
}

func TestInsertModel_Upsert(t *testing.T) {
	query, _, err := InsertModel("leagues", &leagueRow{PublicID: "l1"}).
		OnConflict("public_id").
		DoUpdate().
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO leagues (public_id, slug, status, deleted_at) VALUES ($1, $2, $3, $4) ON CONFLICT (public_id) DO UPDATE SET slug = EXCLUDED.slug, status = EXCLUDED.status, deleted_at = EXCLUDED.deleted_at", query)

	query, _, err = InsertModel("leagues", leagueRow{}).OnConflict("public_id").DoUpdate("status").ToSQL()
	require.NoError(t, err)
	assert.Contains(t, query, "DO UPDATE SET status = EXCLUDED.status")

	query, _, err = InsertModel("leagues", leagueRow{}).OnConflict().DoNothing().ToSQL()
	require.NoError(t, err)
	assert.Contains(t, query, "ON CONFLICT DO NOTHING")
}

func TestInsertModel_Errors(t *testing.T) {
	_, _, err := InsertModel("leagues", nil).ToSQL()
	assert.Error(t, err)

	var nilRow *leagueRow
	_, _, err = InsertModel("leagues", nilRow).ToSQL()
	assert.Error(t, err)

	_, _, err = InsertModel("leagues", struct{ Name string }{}).ToSQL()
	assert.Error(t, err)

	_, _, err = InsertModel("leagues", leagueRow{}).OnConflict("public_id").ToSQL()
	assert.Error(t, err)

	_, _, err = InsertModel("leagues", leagueRow{}).OnConflict().DoUpdate().ToSQL()
	assert.Error(t, err)

	_, _, err = InsertInto("leagues").Columns("a", "b").Values(1).ToSQL()
	assert.Error(t, err)
}

func TestUpdateBuilder(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := Update("leagues").
		Set("status", "active").
		Set("updated_at", now).
		Where(Eq("public_id", "l1"), IsNull("deleted_at")).
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE leagues SET status = $1, updated_at = $2 WHERE public_id = $3 AND deleted_at IS NULL", query)
	assert.Equal(t, []any{"active", now, "l1"}, args)

	_, _, err = Update("leagues").Set("status", "active").ToSQL()
	assert.Error(t, err)
}

func TestColumnsOf(t *testing.T) {
	assert.Equal(t, []string{"public_id", "slug", "status", "deleted_at"}, ColumnsOf(leagueRow{}))
	assert.Panics(t, func() { ColumnsOf(struct{}{}) })
}
