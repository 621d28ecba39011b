package services

import (
	"context"
	"errors"
	"testing"

	"github.com/BradenHooton/emporium/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_CreateProduct(t *testing.T) {
	repo := &MockProductRepository{
		CreateFunc: func(ctx context.Context, p *models.Product) (*models.Product, error) {
			p.ID = "p1"
			return p, nil
		},
	}
	svc := NewProductService(repo, testLogger())

	p, err := svc.CreateProduct(context.Background(), &models.Product{Name: "Mug", Price: 4.5, Stock: 2})
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	_, err = svc.CreateProduct(context.Background(), &models.Product{Name: "Mug", Price: -1})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestProductService_UpdateProduct(t *testing.T) {
	tests := []struct {
		name    string
		upd     models.ProductUpdate
		repoErr error
		wantErr error
	}{
		{"updated", models.ProductUpdate{Price: 3, Stock: 9}, nil, nil},
		{"negative stock", models.ProductUpdate{Price: 3, Stock: -1}, nil, models.ErrBadRequest},
		{"missing", models.ProductUpdate{Price: 3}, models.ErrNotFound, models.ErrNotFound},
		{"store failure", models.ProductUpdate{Price: 3}, errors.New("boom"), models.ErrInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockProductRepository{
				UpdateFunc: func(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return &models.Product{ID: id, Name: "Mug", Price: upd.Price, Stock: upd.Stock}, nil
				},
			}
			svc := NewProductService(repo, testLogger())

			p, err := svc.UpdateProduct(context.Background(), "p1", tt.upd)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.upd.Stock, p.Stock)
			assert.Equal(t, "Mug", p.Name)
		})
	}
}

func TestProductService_ListProducts(t *testing.T) {
	repo := &MockProductRepository{
		ListFunc: func(ctx context.Context, q models.ListQuery) ([]*models.Product, int64, error) {
			return []*models.Product{{ID: "p1"}, {ID: "p2"}}, 7, nil
		},
	}
	svc := NewProductService(repo, testLogger())

	page, err := svc.ListProducts(context.Background(), models.ListQuery{PageNumber: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 4, page.TotalPages())
	assert.True(t, page.HasNext())
}

func TestProductService_DeleteAndGet_NotFound(t *testing.T) {
	repo := &MockProductRepository{
		DeleteFunc: func(ctx context.Context, id string) error { return models.ErrNotFound },
	}
	svc := NewProductService(repo, testLogger())

	assert.ErrorIs(t, svc.DeleteProduct(context.Background(), "p1"), models.ErrNotFound)

	_, err := svc.GetProduct(context.Background(), "p1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
