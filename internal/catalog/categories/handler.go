package categories

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stocklane/stocklane/internal/catalog/shared"
	"github.com/stocklane/stocklane/internal/platform/httpx"
	internalShared "github.com/stocklane/stocklane/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Get("/{id}/can-remove", h.CanRemove)
	r.Delete("/{id}", h.Delete)
}

type categoryForm struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := internalShared.StoreFromRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Missing Store", err.Error())
		return
	}
	items, err := h.service.List(r.Context(), storeID, r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"categories": items, "total": len(items)})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	storeID, id, ok := h.scope(w, r)
	if !ok {
		return
	}
	category, err := h.service.Get(r.Context(), storeID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	storeID, err := internalShared.StoreFromRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Missing Store", err.Error())
		return
	}
	var form categoryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), Category{StoreID: storeID, Name: form.Name, Description: form.Description})
	if err != nil {
		h.logger.Error("create category", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	storeID, id, ok := h.scope(w, r)
	if !ok {
		return
	}
	var form categoryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	err := h.service.Update(r.Context(), Category{ID: id, StoreID: storeID, Name: form.Name, Description: form.Description})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) CanRemove(w http.ResponseWriter, r *http.Request) {
	storeID, id, ok := h.scope(w, r)
	if !ok {
		return
	}
	check, err := h.service.CanRemove(r.Context(), storeID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, check)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	storeID, id, ok := h.scope(w, r)
	if !ok {
		return
	}
	err := h.service.Delete(r.Context(), storeID, id)
	var blocked *shared.DeleteBlockedError
	switch {
	case errors.As(err, &blocked):
		httpx.ProblemWith(w, http.StatusConflict, "Delete Blocked", blocked.Error(),
			map[string]int{"blocking_count": blocked.BlockingCount})
	case err != nil:
		httpx.RespondError(w, err)
	default:
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	storeID, err := internalShared.StoreFromRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Missing Store", err.Error())
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "category id must be a uuid")
		return uuid.Nil, uuid.Nil, false
	}
	return storeID, id, true
}
