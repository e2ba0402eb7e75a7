package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tennis-league/internal/domain/league"
	"github.com/riskibarqy/tennis-league/internal/platform/logging"
	"github.com/riskibarqy/tennis-league/internal/usecase"
)

const maxRequestBodyBytes = 64 << 10

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

type Handler struct {
	leagueService   *usecase.LeagueService
	cityService     *usecase.CityService
	interestService *usecase.InterestService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	cityService *usecase.CityService,
	interestService *usecase.InterestService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:   leagueService,
		cityService:     cityService,
		interestService: interestService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOverview")
	defer span.End()

	overview, err := h.leagueService.GetOverview(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get overview failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, overviewToDTO(overview))
}

func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCities")
	defer span.End()

	cities, err := h.cityService.ListCities(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list cities failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]cityDTO, 0, len(cities))
	for _, c := range cities {
		items = append(items, cityToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListLeaguesByCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeaguesByCity")
	defer span.End()

	citySlug := r.PathValue("citySlug")
	leagues, err := h.leagueService.ListLeaguesByCity(ctx, citySlug)
	if err != nil {
		h.logger.WarnContext(ctx, "list leagues by city failed", "city_slug", citySlug, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaguesToDTO(leagues))
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	status := strings.TrimSpace(r.URL.Query().Get("status"))

	var (
		leagues []league.League
		err     error
	)
	if status == "" {
		leagues, err = h.leagueService.ListLeagues(ctx)
	} else {
		leagues, err = h.leagueService.ListLeaguesByStatus(ctx, status)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "list leagues failed", "status", status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaguesToDTO(leagues))
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	item, err := h.leagueService.GetLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item))
}

func (h *Handler) GetLeagueDocument(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueDocument")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	doc, err := h.leagueService.GetLeagueDocument(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league document failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueDocumentDTO{
		LeagueID:        doc.LeagueID,
		EffectiveStatus: doc.EffectiveStatus.String(),
		Document:        doc.Document,
	})
}

func (h *Handler) RegisterInterest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterInterest")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	var req registerInterestRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.interestService.Register(ctx, usecase.RegisterInterestInput{
		LeagueRef: leagueID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register interest failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, interestToDTO(item))
}

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	var req createLeagueRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	seasonConfig, err := req.SeasonConfig.toDomain()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.leagueService.CreateLeague(ctx, usecase.CreateLeagueInput{
		Slug:         req.Slug,
		Name:         req.Name,
		CitySlug:     req.CitySlug,
		Season:       req.Season,
		Level:        req.Level,
		Status:       req.Status,
		SeasonConfig: seasonConfig,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create league failed", "slug", req.Slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	principal, _ := principalFromContext(ctx)
	h.logger.InfoContext(ctx, "league created", "league_id", item.ID, "slug", item.Slug, "user_id", principal.UserID)
	writeSuccess(ctx, w, http.StatusCreated, leagueToDTO(item))
}

func (h *Handler) UpdateLeagueStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateLeagueStatus")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	var req updateLeagueStatusRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.leagueService.UpdateLeagueStatus(ctx, leagueID, req.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "update league status failed", "league_id", leagueID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item))
}

func (h *Handler) ListInterests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListInterests")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	items, err := h.interestService.ListByLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list interests failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]interestDTO, 0, len(items))
	for _, item := range items {
		out = append(out, interestToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ReconcileStatuses(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReconcileStatuses")
	defer span.End()

	// Body is optional.
	var req reconcileStatusesRequest
	if err := decodeJSON(r.Body, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.leagueService.ReconcileStatuses(ctx, usecase.ReconcileInput{
		MaxWorkers: req.MaxWorkers,
		DryRun:     req.DryRun,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "reconcile statuses failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

var errEmptyBody = fmt.Errorf("%w: request body is empty", usecase.ErrInvalidInput)

func decodeJSON(body io.Reader, out any) error {
	raw, err := io.ReadAll(io.LimitReader(body, maxRequestBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(raw) > maxRequestBodyBytes {
		return fmt.Errorf("%w: request body exceeds %d bytes", usecase.ErrInvalidInput, maxRequestBodyBytes)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return errEmptyBody
	}
	if err := strictJSON.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
