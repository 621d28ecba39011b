package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/emporium/internal/models"
)

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, q models.ListQuery) ([]*models.Product, int64, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Update(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductService struct {
	repo   ProductRepository
	logger *slog.Logger
}

func NewProductService(repo ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError("get", id, err)
	}
	return p, nil
}

func (s *ProductService) ListProducts(ctx context.Context, q models.ListQuery) (models.Page[*models.Product], error) {
	products, total, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("failed to list products",
			slog.Int("page_number", q.PageNumber),
			slog.Int("page_size", q.PageSize),
			slog.Any("error", err))
		return models.Page[*models.Product]{}, models.ErrInternalServer
	}

	return models.Page[*models.Product]{
		Items:      products,
		PageNumber: q.PageNumber,
		PageSize:   q.PageSize,
		Total:      total,
	}, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if p.Price < 0 || p.Stock < 0 {
		return nil, models.ErrBadRequest
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.logger.Error("failed to create product", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("product created", slog.String("product_id", created.ID))
	return created, nil
}

// UpdateProduct changes price and stock. The name is fixed at creation.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	if upd.Price < 0 || upd.Stock < 0 {
		return nil, models.ErrBadRequest
	}

	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, s.mapError("update", id, err)
	}

	s.logger.Info("product updated", slog.String("product_id", id))
	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError("delete", id, err)
	}

	s.logger.Info("product deleted", slog.String("product_id", id))
	return nil
}

func (s *ProductService) mapError(op, id string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Info("product not found", slog.String("product_id", id))
		return models.ErrNotFound
	}
	s.logger.Error("failed to "+op+" product", slog.String("product_id", id), slog.Any("error", err))
	return models.ErrInternalServer
}
