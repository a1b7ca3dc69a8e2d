package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

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
	r.Delete("/{id}", h.Delete)
}

type productForm struct {
	Name              string  `json:"name" validate:"required"`
	SKU               string  `json:"sku"`
	Description       string  `json:"description"`
	Price             string  `json:"price" validate:"required"`
	Cost              string  `json:"cost"`
	StockQuantity     int     `json:"stock_quantity" validate:"gte=0"`
	LowStockThreshold int     `json:"low_stock_threshold" validate:"gte=0"`
	CategoryID        *string `json:"category_id"`
	SupplierID        *string `json:"supplier_id"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := internalShared.StoreFromRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Missing Store", err.Error())
		return
	}

	spec, err := specFromQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}

	items, err := h.service.List(r.Context(), storeID, spec)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	page, perPage := pageParams(r)
	meta := internalShared.NewPagination(page, perPage, len(items))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"products": pageSlice(items, meta),
		"total":    meta.Total,
		"pagination": map[string]int{
			"page":        meta.Page,
			"per_page":    meta.PerPage,
			"total_pages": meta.TotalPages,
		},
	})
}

func pageParams(r *http.Request) (int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if page <= 0 {
		page = shared.DefaultPage
	}
	if perPage <= 0 {
		perPage = shared.DefaultLimit
	}
	return page, perPage
}

// pageSlice windows the already-filtered set. Filtering and sorting run over
// the full snapshot, so a page boundary never changes which products match.
func pageSlice(items []Product, meta internalShared.Pagination) []Product {
	start := (meta.Page - 1) * meta.PerPage
	if start >= len(items) {
		return []Product{}
	}
	end := start + meta.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	storeID, err := internalShared.StoreFromRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Missing Store", err.Error())
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "product id must be a uuid")
		return
	}
	product, err := h.service.Get(r.Context(), storeID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	storeID, err := internalShared.StoreFromRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Missing Store", err.Error())
		return
	}
	var form productForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := form.toProduct(storeID)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), product)
	if err != nil {
		h.logger.Error("create product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	storeID, err := internalShared.StoreFromRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Missing Store", err.Error())
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "product id must be a uuid")
		return
	}
	var form productForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := form.toProduct(storeID)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	product.ID = id
	if err := h.service.Update(r.Context(), product); err != nil {
		h.logger.Error("update product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	storeID, err := internalShared.StoreFromRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Missing Store", err.Error())
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "product id must be a uuid")
		return
	}
	if err := h.service.Delete(r.Context(), storeID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (f productForm) toProduct(storeID uuid.UUID) (Product, error) {
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return Product{}, err
	}
	cost := decimal.Zero
	if f.Cost != "" {
		if cost, err = decimal.NewFromString(f.Cost); err != nil {
			return Product{}, err
		}
	}
	p := Product{
		StoreID:           storeID,
		Name:              f.Name,
		SKU:               f.SKU,
		Description:       f.Description,
		Price:             price,
		Cost:              cost,
		StockQuantity:     f.StockQuantity,
		LowStockThreshold: f.LowStockThreshold,
		IsActive:          true,
	}
	if f.CategoryID != nil && *f.CategoryID != "" {
		id, err := uuid.Parse(*f.CategoryID)
		if err != nil {
			return Product{}, err
		}
		p.CategoryID = &id
	}
	if f.SupplierID != nil && *f.SupplierID != "" {
		id, err := uuid.Parse(*f.SupplierID)
		if err != nil {
			return Product{}, err
		}
		p.SupplierID = &id
	}
	return p, nil
}

func specFromQuery(r *http.Request) (FilterSpec, error) {
	q := r.URL.Query()
	spec := FilterSpec{
		Search:     q.Get("search"),
		Category:   q.Get("category"),
		Supplier:   q.Get("supplier"),
		StockLevel: q.Get("stock_level"),
		SortBy:     q.Get("sort_by"),
		SortOrder:  q.Get("sort_order"),
	}
	if raw := q.Get("price_min"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			return FilterSpec{}, err
		}
		spec.PriceMin = &min
	}
	if raw := q.Get("price_max"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			return FilterSpec{}, err
		}
		spec.PriceMax = &max
	}
	return spec, nil
}
