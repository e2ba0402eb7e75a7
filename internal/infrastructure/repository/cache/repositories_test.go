package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/tennis-league/internal/domain/league"
	leaguemock "github.com/riskibarqy/tennis-league/internal/mocks/domain/league"
	basecache "github.com/riskibarqy/tennis-league/internal/platform/cache"
	"github.com/stretchr/testify/mock"
)

func TestLeagueRepository_CachesListUntilWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := leaguemock.NewRepository(t)
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))

	next.On("List", mock.Anything).Return([]league.League{{ID: "l1", Status: league.StatusActive}}, nil).Twice()
	next.On("UpdateStatus", mock.Anything, "l1", league.StatusCompleted, mock.Anything).Return(true, nil).Once()

	first, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	first[0].Name = "mutated by caller"

	second, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if second[0].Name != "" {
		t.Fatalf("cached slice must not be shared with callers")
	}

	if _, err := repo.UpdateStatus(ctx, "l1", league.StatusCompleted, time.Now()); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if _, err := repo.List(ctx); err != nil {
		t.Fatalf("third list: %v", err)
	}
}

func TestLeagueRepository_CompareAndSetStatusInvalidates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := leaguemock.NewRepository(t)
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))

	next.On("GetByID", mock.Anything, "l1").Return(league.League{ID: "l1", Status: league.StatusActive}, true, nil).Twice()
	next.On("CompareAndSetStatus", mock.Anything, "l1", league.StatusActive, league.StatusCompleted, mock.Anything).Return(true, nil).Once()

	if _, _, err := repo.GetByID(ctx, "l1"); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if ok, err := repo.CompareAndSetStatus(ctx, "l1", league.StatusActive, league.StatusCompleted, time.Now()); err != nil || !ok {
		t.Fatalf("compare and set ok=%v err=%v", ok, err)
	}
	if _, _, err := repo.GetByID(ctx, "l1"); err != nil {
		t.Fatalf("second get: %v", err)
	}
}

func TestLeagueRepository_CachesMissingLookups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := leaguemock.NewRepository(t)
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))

	next.On("GetBySlug", mock.Anything, "ghost").Return(league.League{}, false, nil).Once()

	for i := 0; i < 3; i++ {
		_, exists, err := repo.GetBySlug(ctx, "ghost")
		if err != nil || exists {
			t.Fatalf("unexpected lookup result exists=%v err=%v", exists, err)
		}
	}
}
