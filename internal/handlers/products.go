package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/BradenHooton/emporium/internal/auth"
	"github.com/BradenHooton/emporium/internal/models"
	pkghttp "github.com/BradenHooton/emporium/pkg/http"
	pkglogger "github.com/BradenHooton/emporium/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ProductService interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, q models.ListQuery) (models.Page[*models.Product], error)
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type ProductHandler struct {
	service  ProductService
	audit    *pkglogger.AuditLogger
	ipConfig *pkghttp.IPConfig
}

func NewProductHandler(service ProductService, audit *pkglogger.AuditLogger, ipConfig *pkghttp.IPConfig) *ProductHandler {
	return &ProductHandler{service: service, audit: audit, ipConfig: ipConfig}
}

// Pointers distinguish a missing number from an explicit zero.
type CreateProductRequest struct {
	Name  string   `json:"product_name" validate:"required,min=1,max=100"`
	Price *float64 `json:"product_price" validate:"required,gte=0"`
	Stock *int     `json:"product_stock" validate:"required,gte=0"`
}

type UpdateProductRequest struct {
	Price *float64 `json:"product_price" validate:"required,gte=0"`
	Stock *int     `json:"product_stock" validate:"required,gte=0"`
}

type ProductResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"product_name"`
	Price float64 `json:"product_price"`
	Stock int     `json:"product_stock"`
}

func productModelToResponse(p *models.Product) ProductResponse {
	return ProductResponse{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router) {
	router.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
		r.Post("/", h.CreateProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r, productListFields)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	page, err := h.service.ListProducts(r.Context(), q)
	if err != nil {
		writeProductError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, newPageResponse(page, productModelToResponse))
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeProductError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, productModelToResponse(p))
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.service.CreateProduct(r.Context(), &models.Product{Name: req.Name, Price: *req.Price, Stock: *req.Stock})
	if err != nil {
		writeProductError(w, err)
		return
	}

	h.logAction(r, pkglogger.EventProductCreated, p.ID)
	pkghttp.WriteJSON(w, http.StatusCreated, productModelToResponse(p))
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.service.UpdateProduct(r.Context(), id, models.ProductUpdate{Price: *req.Price, Stock: *req.Stock})
	if err != nil {
		writeProductError(w, err)
		return
	}

	h.logAction(r, pkglogger.EventProductUpdated, id)
	pkghttp.WriteJSON(w, http.StatusOK, productModelToResponse(p))
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		writeProductError(w, err)
		return
	}

	h.logAction(r, pkglogger.EventProductDeleted, id)
	pkghttp.WriteJSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *ProductHandler) logAction(r *http.Request, eventType, productID string) {
	actorID := ""
	if claims := auth.GetUserFromContext(r); claims != nil {
		actorID = claims.UserID
	}
	h.audit.LogAccountAction(r.Context(), eventType, actorID,
		pkghttp.ExtractClientIP(r, h.ipConfig), map[string]string{"product_id": productID})
}

func writeProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Product not found")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, "Price and stock must not be negative")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
