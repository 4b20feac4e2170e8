package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecommerce-backend/internal/domain"
	"ecommerce-backend/internal/repository"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
)

const productCacheTTL = time.Minute

// CatalogService serves public product browsing and vendor-owned product
// management. Reads go through a redis cache when a client is attached;
// singleflight collapses concurrent fills for the same product.
type CatalogService struct {
	store       repository.Store
	redisClient *redis.Client
	group       singleflight.Group
}

func NewCatalogService(store repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.Products().FindAll(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	cacheKey := fmt.Sprintf("product:%d", id)

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var p domain.Product
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}
	}

	v, err, _ := s.group.Do(cacheKey, func() (any, error) {
		p, err := s.store.Products().FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrProductNotFound
		}
		if s.redisClient != nil {
			if data, err := json.Marshal(p); err == nil {
				s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	ImageURL    string
}

// UpdateProductInput carries partial edits; nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	ImageURL    *string
}

func (s *CatalogService) CreateProduct(ctx context.Context, ident domain.Identity, in ProductInput) (*domain.Product, error) {
	if !ident.IsVendor() {
		return nil, ErrUnauthorized
	}
	product := &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		VendorID:    ident.ID,
		ImageURL:    in.ImageURL,
	}
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) VendorProducts(ctx context.Context, ident domain.Identity) ([]domain.Product, error) {
	if !ident.IsVendor() {
		return nil, ErrUnauthorized
	}
	return s.store.Products().FindByVendor(ctx, ident.ID)
}

// VendorProduct returns a product only when it is owned by the calling
// vendor; products of other vendors read as not found, not forbidden.
func (s *CatalogService) VendorProduct(ctx context.Context, ident domain.Identity, id uint64) (*domain.Product, error) {
	if !ident.IsVendor() {
		return nil, ErrUnauthorized
	}
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.VendorID != ident.ID {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, ident domain.Identity, id uint64, in UpdateProductInput) (*domain.Product, error) {
	product, err := s.VendorProduct(ctx, ident, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}

	if err := s.store.Products().Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, ident domain.Identity, id uint64) error {
	if _, err := s.VendorProduct(ctx, ident, id); err != nil {
		return err
	}
	if err := s.store.Products().Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id uint64) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, fmt.Sprintf("product:%d", id))
	}
}
