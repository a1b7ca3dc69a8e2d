package inventory

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stocklane/stocklane/internal/observability"
	"github.com/stocklane/stocklane/internal/platform/httpx"
	"github.com/stocklane/stocklane/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	metrics   *observability.Metrics
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics, validator: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/adjustments", h.Adjust)
	r.Post("/adjustments/bulk", h.AdjustBulk)
	r.Get("/adjustments", h.History)
}

type adjustmentForm struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Delta     int    `json:"delta"`
	Type      string `json:"adjustment_type" validate:"required"`
	Reason    string `json:"reason"`
	ActorID   string `json:"actor_id" validate:"omitempty,uuid"`
}

type bulkAdjustmentForm struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,dive,uuid"`
	Delta      int      `json:"delta"`
	Type       string   `json:"adjustment_type" validate:"required"`
	Reason     string   `json:"reason"`
	ActorID    string   `json:"actor_id" validate:"omitempty,uuid"`
}

func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	storeID, err := shared.StoreFromRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Missing Store", err.Error())
		return
	}
	var form adjustmentForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	adj, err := h.service.Apply(r.Context(), ApplyInput{
		StoreID:        storeID,
		ProductID:      uuid.MustParse(form.ProductID),
		Delta:          form.Delta,
		Type:           AdjustmentType(form.Type),
		Reason:         form.Reason,
		ActorID:        parseActor(form.ActorID),
		IdempotencyKey: r.Header.Get(shared.IdempotencyHeader),
	})
	if err != nil {
		h.metrics.CountAdjustment(form.Type, "rejected")
		h.respondAdjustmentError(w, err)
		return
	}
	h.metrics.CountAdjustment(form.Type, "applied")
	httpx.JSON(w, http.StatusCreated, adj)
}

func (h *Handler) AdjustBulk(w http.ResponseWriter, r *http.Request) {
	storeID, err := shared.StoreFromRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Missing Store", err.Error())
		return
	}
	var form bulkAdjustmentForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	ids := make([]uuid.UUID, len(form.ProductIDs))
	for i, raw := range form.ProductIDs {
		ids[i] = uuid.MustParse(raw)
	}

	result, err := h.service.ApplyBulk(r.Context(), BulkInput{
		StoreID:        storeID,
		ProductIDs:     ids,
		Delta:          form.Delta,
		Type:           AdjustmentType(form.Type),
		Reason:         form.Reason,
		ActorID:        parseActor(form.ActorID),
		IdempotencyKey: r.Header.Get(shared.IdempotencyHeader),
	})
	if err != nil {
		h.metrics.CountAdjustment(form.Type, "rejected")
		h.respondAdjustmentError(w, err)
		return
	}
	h.metrics.CountAdjustment(form.Type, "applied")
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	storeID, err := shared.StoreFromRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Missing Store", err.Error())
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}

	history, err := h.service.History(r.Context(), storeID, filter)
	if err != nil {
		h.logger.Error("list adjustments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"adjustments": history, "total": len(history)})
}

func (h *Handler) respondAdjustmentError(w http.ResponseWriter, err error) {
	var rejected *BulkRejectedError
	switch {
	case errors.Is(err, ErrInvalidAdjustment), errors.Is(err, ErrInvalidAdjustmentType):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Adjustment", err.Error())
	case errors.Is(err, ErrNegativeStock), errors.Is(err, ErrProductInactive):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Adjustment Rejected", err.Error())
	case errors.As(err, &rejected):
		httpx.ProblemWith(w, http.StatusUnprocessableEntity, "Bulk Adjustment Rejected", rejected.Error(),
			map[string]any{"rejected_ids": rejected.RejectedIDs})
	case errors.Is(err, ErrConcurrentModification):
		httpx.Problem(w, http.StatusConflict, "Concurrent Modification", err.Error())
	case errors.Is(err, shared.ErrIdempotencyConflict):
		httpx.Problem(w, http.StatusConflict, "Duplicate Request", err.Error())
	default:
		h.logger.Error("apply adjustment", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func filterFromQuery(r *http.Request) (AdjustmentFilter, error) {
	q := r.URL.Query()
	var filter AdjustmentFilter

	if raw := q.Get("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("product_id must be a uuid")
		}
		filter.ProductID = id
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("from must be RFC3339")
		}
		filter.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("to must be RFC3339")
		}
		filter.To = t
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, errors.New("limit must be a non-negative integer")
		}
		filter.Limit = n
	}
	return filter, nil
}

func parseActor(raw string) uuid.UUID {
	if raw == "" {
		return uuid.Nil
	}
	return uuid.MustParse(raw)
}
