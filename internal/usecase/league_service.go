package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tennis-league/internal/domain/city"
	"github.com/riskibarqy/tennis-league/internal/domain/league"
	"github.com/riskibarqy/tennis-league/internal/platform/id"
	"github.com/riskibarqy/tennis-league/internal/platform/logging"
	"github.com/riskibarqy/tennis-league/internal/platform/serialize"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

type LeagueService struct {
	leagueRepo league.Repository
	cityRepo   city.Repository
	idGen      id.Generator
	clock      clockwork.Clock
	logger     *logging.Logger
	metrics    MetricsRecorder
}

type LeagueServiceOption func(*LeagueService)

func WithLeagueMetrics(m MetricsRecorder) LeagueServiceOption {
	return func(s *LeagueService) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithLeagueLogger(logger *logging.Logger) LeagueServiceOption {
	return func(s *LeagueService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewLeagueService(
	leagueRepo league.Repository,
	cityRepo city.Repository,
	idGen id.Generator,
	clock clockwork.Clock,
	opts ...LeagueServiceOption,
) *LeagueService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if idGen == nil {
		idGen = id.NewObjectIDGenerator()
	}

	s := &LeagueService{
		leagueRepo: leagueRepo,
		cityRepo:   cityRepo,
		idGen:      idGen,
		clock:      clock,
		logger:     logging.Default(),
		metrics:    nopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateLeagueInput struct {
	Slug         string
	Name         string
	CitySlug     string
	Season       string
	Level        string
	Status       string
	SeasonConfig league.SeasonConfig
}

// LeagueDocument is the stored league prepared for a client page.
type LeagueDocument struct {
	LeagueID        string
	EffectiveStatus league.Status
	Document        any
}

type Overview struct {
	Cities      []city.City
	LeagueCount int
	ByStatus    map[league.Status]int
	GeneratedAt time.Time
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListLeagues")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("list leagues: %w", err))
	}

	return league.ApplyEffectiveStatuses(leagues, s.clock.Now()), nil
}

func (s *LeagueService) ListLeaguesByStatus(ctx context.Context, rawStatus string) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListLeaguesByStatus")
	defer span.End()

	status, err := league.ParseStatus(rawStatus)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}

	leagues, err := s.ListLeagues(ctx)
	if err != nil {
		return nil, spanError(span, err)
	}

	out := make([]league.League, 0, len(leagues))
	for _, item := range leagues {
		if item.Status == status {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *LeagueService) ListLeaguesByCity(ctx context.Context, citySlug string) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListLeaguesByCity", attribute.String("city.slug", citySlug))
	defer span.End()

	citySlug = strings.TrimSpace(citySlug)
	if citySlug == "" {
		return nil, spanError(span, fmt.Errorf("%w: city slug is required", ErrInvalidInput))
	}

	item, exists, err := s.cityRepo.GetBySlug(ctx, citySlug)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("get city: %w", err))
	}
	if !exists {
		return nil, spanError(span, fmt.Errorf("%w: city=%s", ErrNotFound, citySlug))
	}

	leagues, err := s.leagueRepo.ListByCity(ctx, item.ID)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("list leagues by city: %w", err))
	}

	return league.ApplyEffectiveStatuses(leagues, s.clock.Now()), nil
}

// GetLeague resolves ref as a league id first, then as a slug.
func (s *LeagueService) GetLeague(ctx context.Context, ref string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeague", leagueRefAttr(ref))
	defer span.End()

	item, err := findLeague(ctx, s.leagueRepo, ref)
	if err != nil {
		return league.League{}, spanError(span, err)
	}

	item.Status = item.EffectiveStatus(s.clock.Now())
	return item, nil
}

func (s *LeagueService) GetLeagueDocument(ctx context.Context, ref string) (LeagueDocument, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeagueDocument", leagueRefAttr(ref))
	defer span.End()

	item, err := findLeague(ctx, s.leagueRepo, ref)
	if err != nil {
		return LeagueDocument{}, spanError(span, err)
	}

	doc, exists, err := s.leagueRepo.GetDocument(ctx, item.ID)
	if err != nil {
		return LeagueDocument{}, spanError(span, fmt.Errorf("get league document: %w", err))
	}
	if !exists {
		return LeagueDocument{}, spanError(span, fmt.Errorf("%w: league=%s", ErrNotFound, item.ID))
	}

	return LeagueDocument{
		LeagueID:        item.ID,
		EffectiveStatus: item.EffectiveStatus(s.clock.Now()),
		Document:        serialize.ForTransport(doc),
	}, nil
}

func (s *LeagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CreateLeague")
	defer span.End()

	status := league.StatusComingSoon
	if strings.TrimSpace(input.Status) != "" {
		parsed, err := league.ParseStatus(input.Status)
		if err != nil {
			return league.League{}, spanError(span, fmt.Errorf("%w: %v", ErrInvalidInput, err))
		}
		status = parsed
	}

	citySlug := strings.TrimSpace(input.CitySlug)
	cityItem, exists, err := s.cityRepo.GetBySlug(ctx, citySlug)
	if err != nil {
		return league.League{}, spanError(span, fmt.Errorf("get city: %w", err))
	}
	if !exists {
		return league.League{}, spanError(span, fmt.Errorf("%w: city=%s does not exist", ErrInvalidInput, citySlug))
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if _, taken, err := s.leagueRepo.GetBySlug(ctx, slug); err != nil {
		return league.League{}, spanError(span, fmt.Errorf("get league by slug: %w", err))
	} else if taken {
		return league.League{}, spanError(span, fmt.Errorf("%w: league slug=%s", ErrConflict, slug))
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, spanError(span, fmt.Errorf("generate league id: %w", err))
	}

	now := s.clock.Now().UTC()
	item := league.League{
		ID:           leagueID,
		Slug:         slug,
		Name:         strings.TrimSpace(input.Name),
		CityID:       cityItem.ID,
		Season:       strings.TrimSpace(input.Season),
		Level:        strings.TrimSpace(input.Level),
		Status:       status,
		SeasonConfig: input.SeasonConfig,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := item.Validate(); err != nil {
		return league.League{}, spanError(span, fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}

	if err := s.leagueRepo.Create(ctx, item); err != nil {
		if errors.Is(err, league.ErrDuplicateSlug) {
			return league.League{}, spanError(span, fmt.Errorf("%w: league slug=%s", ErrConflict, slug))
		}
		return league.League{}, spanError(span, fmt.Errorf("create league: %w", err))
	}

	item.Status = item.EffectiveStatus(now)
	return item, nil
}

func (s *LeagueService) UpdateLeagueStatus(ctx context.Context, ref, rawStatus string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.UpdateLeagueStatus",
		leagueRefAttr(ref),
		attribute.String("league.status", rawStatus),
	)
	defer span.End()

	status, err := league.ParseStatus(rawStatus)
	if err != nil {
		return league.League{}, spanError(span, fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}

	item, err := findLeague(ctx, s.leagueRepo, ref)
	if err != nil {
		return league.League{}, spanError(span, err)
	}

	now := s.clock.Now().UTC()
	updated, err := s.leagueRepo.UpdateStatus(ctx, item.ID, status, now)
	if err != nil {
		return league.League{}, spanError(span, fmt.Errorf("update league status: %w", err))
	}
	if !updated {
		return league.League{}, spanError(span, fmt.Errorf("%w: league=%s", ErrNotFound, item.ID))
	}

	item.Status = status
	item.UpdatedAt = now
	item.Status = item.EffectiveStatus(now)
	return item, nil
}

// GetOverview loads cities and leagues concurrently and counts leagues by
// effective status.
func (s *LeagueService) GetOverview(ctx context.Context) (Overview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetOverview")
	defer span.End()

	var (
		cities  []city.City
		leagues []league.League
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := s.cityRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list cities: %w", err)
		}
		cities = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.leagueRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list leagues: %w", err)
		}
		leagues = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return Overview{}, spanError(span, err)
	}

	now := s.clock.Now()
	byStatus := make(map[league.Status]int)
	for _, item := range league.ApplyEffectiveStatuses(leagues, now) {
		byStatus[item.Status]++
	}

	sort.SliceStable(cities, func(i, j int) bool {
		return cities[i].Name < cities[j].Name
	})

	return Overview{
		Cities:      cities,
		LeagueCount: len(leagues),
		ByStatus:    byStatus,
		GeneratedAt: now.UTC(),
	}, nil
}

func findLeague(ctx context.Context, repo league.Repository, ref string) (league.League, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := repo.GetByID(ctx, ref)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if exists {
		return item, nil
	}

	item, exists, err = repo.GetBySlug(ctx, strings.ToLower(ref))
	if err != nil {
		return league.League{}, fmt.Errorf("get league by slug: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, ref)
	}
	return item, nil
}
