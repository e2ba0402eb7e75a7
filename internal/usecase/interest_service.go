package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tennis-league/internal/domain/interest"
	"github.com/riskibarqy/tennis-league/internal/domain/league"
	"github.com/riskibarqy/tennis-league/internal/platform/id"
)

type InterestService struct {
	interestRepo interest.Repository
	leagueRepo   league.Repository
	idGen        id.Generator
	clock        clockwork.Clock
	metrics      MetricsRecorder
}

func NewInterestService(
	interestRepo interest.Repository,
	leagueRepo league.Repository,
	idGen id.Generator,
	clock clockwork.Clock,
	metrics MetricsRecorder,
) *InterestService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if idGen == nil {
		idGen = id.NewObjectIDGenerator()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &InterestService{
		interestRepo: interestRepo,
		leagueRepo:   leagueRepo,
		idGen:        idGen,
		clock:        clock,
		metrics:      metrics,
	}
}

type RegisterInterestInput struct {
	LeagueRef string
	Name      string
	Email     string
	Phone     string
}

// Register records a player's interest in a league that has not started
// registration or is still accepting it.
func (s *InterestService) Register(ctx context.Context, input RegisterInterestInput) (interest.Interest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InterestService.Register", leagueRefAttr(input.LeagueRef))
	defer span.End()

	item, err := findLeague(ctx, s.leagueRepo, input.LeagueRef)
	if err != nil {
		return interest.Interest{}, spanError(span, err)
	}

	now := s.clock.Now()
	if effective := item.EffectiveStatus(now); !effective.AcceptsInterest() {
		return interest.Interest{}, spanError(span, fmt.Errorf("%w: league=%s is %s", ErrInterestClosed, item.ID, effective))
	}

	interestID, err := s.idGen.NewID()
	if err != nil {
		return interest.Interest{}, spanError(span, fmt.Errorf("generate interest id: %w", err))
	}

	record := interest.Interest{
		ID:        interestID,
		LeagueID:  item.ID,
		Name:      strings.TrimSpace(input.Name),
		Email:     interest.NormalizeEmail(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		CreatedAt: now.UTC(),
	}
	if err := record.Validate(); err != nil {
		return interest.Interest{}, spanError(span, fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}

	if err := s.interestRepo.Create(ctx, record); err != nil {
		if errors.Is(err, interest.ErrDuplicate) {
			return interest.Interest{}, spanError(span, fmt.Errorf("%w: email already registered for league=%s", ErrConflict, item.ID))
		}
		return interest.Interest{}, spanError(span, fmt.Errorf("create interest: %w", err))
	}

	s.metrics.InterestRegistered(item.ID)
	return record, nil
}

func (s *InterestService) ListByLeague(ctx context.Context, leagueRef string) ([]interest.Interest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InterestService.ListByLeague", leagueRefAttr(leagueRef))
	defer span.End()

	item, err := findLeague(ctx, s.leagueRepo, leagueRef)
	if err != nil {
		return nil, spanError(span, err)
	}

	items, err := s.interestRepo.ListByLeague(ctx, item.ID)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("list interests: %w", err))
	}
	return items, nil
}
