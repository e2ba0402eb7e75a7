package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tennis-league/internal/domain/interest"
	"github.com/riskibarqy/tennis-league/internal/domain/league"
	interestmock "github.com/riskibarqy/tennis-league/internal/mocks/domain/interest"
	leaguemock "github.com/riskibarqy/tennis-league/internal/mocks/domain/league"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInterestService_Register(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	interestRepo := interestmock.NewRepository(t)
	metrics := &recordingMetrics{}
	service := NewInterestService(interestRepo, leagueRepo, fixedIDGenerator{id: "i-1"}, clockwork.NewFakeClockAt(testNow), metrics)

	leagueRepo.On("GetByID", mock.Anything, "l1").Return(league.League{
		ID:           "l1",
		Status:       league.StatusRegistrationOpen,
		SeasonConfig: league.SeasonConfig{RegistrationStart: timeRef(testNow.AddDate(0, 1, 0))},
	}, true, nil).Once()
	interestRepo.
		On("Create", mock.Anything, mock.MatchedBy(func(v interest.Interest) bool {
			return v.ID == "i-1" && v.LeagueID == "l1" && v.Email == "sam@example.com"
		})).
		Return(nil).
		Once()

	got, err := service.Register(context.Background(), RegisterInterestInput{
		LeagueRef: "l1",
		Name:      " Sam Rivera ",
		Email:     "Sam@Example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "Sam Rivera", got.Name)
	require.Equal(t, testNow, got.CreatedAt)
	require.Equal(t, 1, metrics.interests)
}

func TestInterestService_Register_RejectsStartedLeague(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	service := NewInterestService(interestmock.NewRepository(t), leagueRepo, nil, clockwork.NewFakeClockAt(testNow), nil)

	leagueRepo.On("GetByID", mock.Anything, "l1").Return(league.League{
		ID:           "l1",
		Status:       league.StatusRegistrationOpen,
		SeasonConfig: league.SeasonConfig{RegistrationEnd: timeRef(testNow.AddDate(0, 0, -1))},
	}, true, nil).Once()

	_, err := service.Register(context.Background(), RegisterInterestInput{LeagueRef: "l1", Name: "Sam", Email: "sam@example.com"})
	require.ErrorIs(t, err, ErrInterestClosed)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestInterestService_Register_Duplicate(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	interestRepo := interestmock.NewRepository(t)
	service := NewInterestService(interestRepo, leagueRepo, nil, clockwork.NewFakeClockAt(testNow), nil)

	leagueRepo.On("GetByID", mock.Anything, "l1").Return(league.League{ID: "l1", Status: league.StatusComingSoon}, true, nil).Once()
	interestRepo.On("Create", mock.Anything, mock.Anything).Return(interest.ErrDuplicate).Once()

	_, err := service.Register(context.Background(), RegisterInterestInput{LeagueRef: "l1", Name: "Sam", Email: "sam@example.com"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestInterestService_Register_InvalidEmail(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	service := NewInterestService(interestmock.NewRepository(t), leagueRepo, nil, clockwork.NewFakeClockAt(testNow), nil)

	leagueRepo.On("GetByID", mock.Anything, "l1").Return(league.League{ID: "l1", Status: league.StatusComingSoon}, true, nil).Once()

	_, err := service.Register(context.Background(), RegisterInterestInput{LeagueRef: "l1", Name: "Sam", Email: "nope"})
	require.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
}

func TestInterestService_ListByLeague(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	interestRepo := interestmock.NewRepository(t)
	service := NewInterestService(interestRepo, leagueRepo, nil, clockwork.NewFakeClockAt(testNow), nil)

	leagueRepo.On("GetByID", mock.Anything, "l1").Return(league.League{ID: "l1"}, true, nil).Once()
	interestRepo.On("ListByLeague", mock.Anything, "l1").Return([]interest.Interest{{ID: "i1"}, {ID: "i2"}}, nil).Once()

	got, err := service.ListByLeague(context.Background(), "l1")
	require.NoError(t, err)
	require.Len(t, got, 2)
}
