package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/01-Gira/store-app-sub000/internal/dto"
	"github.com/01-Gira/store-app-sub000/internal/model"
	"github.com/01-Gira/store-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// priceCacheTTL bounds the staleness of the cached price lookup.
const priceCacheTTL = 60 * time.Second

// ProductService manages the product catalog consumed by the POS front end:
// registration, paginated listing, detail with per-location levels, and a
// redis-cached price lookup by SKU for barcode scans.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	FindByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	PriceBySKU(ctx context.Context, sku string) (*dto.PriceLookupResponse, error)
}

type productService struct {
	products repository.ProductRepository
	levels   repository.InventoryRepository
	rdb      *redis.Client
}

func NewProductService(
	products repository.ProductRepository,
	levels repository.InventoryRepository,
	rdb *redis.Client,
) ProductService {
	return &productService{products: products, levels: levels, rdb: rdb}
}

// Create registers a new catalog entry with zero stock. SKU uniqueness is
// enforced by the database index; the handler maps the violation.
func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		SKU:               req.SKU,
		Name:              req.Name,
		UnitPrice:         req.UnitPrice,
		UnitCost:          req.UnitCost,
		LowStockThreshold: req.LowStockThreshold,
		Active:            true,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p, nil), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i], nil))
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) FindByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	levels, err := s.levels.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(p, levels), nil
}

// PriceBySKU serves barcode-scan price checks through a short-lived redis
// cache. Cache staleness is bounded by the TTL; the settlement path never
// reads this cache.
func (s *productService) PriceBySKU(ctx context.Context, sku string) (*dto.PriceLookupResponse, error) {
	key := "price:" + sku

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp dto.PriceLookupResponse
			if jerr := json.Unmarshal([]byte(cached), &resp); jerr == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.products.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	resp := &dto.PriceLookupResponse{SKU: p.SKU, Name: p.Name, UnitPrice: p.UnitPrice}

	if s.rdb != nil {
		if data, jerr := json.Marshal(resp); jerr == nil {
			if cerr := s.rdb.Set(ctx, key, data, priceCacheTTL).Err(); cerr != nil {
				log.Warn().Err(cerr).Str("sku", sku).Msg("price cache write failed")
			}
		}
	}
	return resp, nil
}

func productToResponse(p *model.Product, levels []model.InventoryLevel) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:                p.ID.String(),
		SKU:               p.SKU,
		Name:              p.Name,
		UnitPrice:         p.UnitPrice,
		UnitCost:          p.UnitCost,
		StockCount:        p.StockCount,
		LowStockThreshold: p.LowStockThreshold,
		Active:            p.Active,
	}
	for _, lvl := range levels {
		name := ""
		if lvl.Location != nil {
			name = lvl.Location.Name
		}
		resp.Levels = append(resp.Levels, dto.InventoryLevelResponse{
			LocationID: lvl.LocationID.String(),
			Location:   name,
			Quantity:   lvl.Quantity,
		})
	}
	return resp
}
