//go:build integration

package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/01-Gira/store-app-sub000/internal/config"
	"github.com/01-Gira/store-app-sub000/internal/dto"
	"github.com/01-Gira/store-app-sub000/internal/infra"
	"github.com/01-Gira/store-app-sub000/internal/model"
	"github.com/01-Gira/store-app-sub000/internal/router"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// startStack brings up Postgres and Redis containers and returns a migrated
// database plus the connected redis client.
func startStack(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("store"),
		tcpostgres.WithUsername("store"),
		tcpostgres.WithPassword("store"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	redisC, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	redisURL, err := redisC.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)

	return db, redisURL
}

func TestSettlementEndToEnd(t *testing.T) {
	db, redisURL := startStack(t)
	rdb, err := infra.NewRedis(redisURL)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                   "test",
		TaxRatePct:            11,
		PointsPerCurrency:     1,
		CurrencyPerPoint:      0.1,
		LoyaltyRounding:       config.RoundDown,
		MinRedeemablePoints:   50,
		LockWaitTimeoutMillis: 2000,
	}
	r := router.New(cfg, db, rdb)

	// seed catalog: migration already created the default location
	var loc model.Location
	require.NoError(t, db.Where("is_default = true").First(&loc).Error)

	product := model.Product{
		SKU:               "INT-001",
		Name:              "Integration Widget",
		UnitPrice:         decimal.RequireFromString("100"),
		UnitCost:          decimal.RequireFromString("60"),
		StockCount:        10,
		LowStockThreshold: 2,
		Active:            true,
	}
	require.NoError(t, db.Create(&product).Error)
	require.NoError(t, db.Create(&model.InventoryLevel{
		ProductID:  product.ID,
		LocationID: loc.ID,
		Quantity:   10,
	}).Error)

	body := map[string]any{
		"items":          []map[string]any{{"product_id": product.ID.String(), "quantity": 2}},
		"discount_type":  "percentage",
		"discount_value": "10",
		"payment_method": "cash",
		"amount_paid":    "200",
	}
	buf, _ := json.Marshal(body)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sales", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.SaleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("199.8")), "total %s", resp.Total)
	assert.True(t, resp.ChangeDue.Equal(decimal.RequireFromString("0.2")), "change %s", resp.ChangeDue)

	// stock was reserved in the same transaction
	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 8, reloaded.StockCount)

	var movements int64
	require.NoError(t, db.Model(&model.StockMovement{}).
		Where("product_id = ?", product.ID).Count(&movements).Error)
	assert.EqualValues(t, 1, movements)
}

func TestInsufficientStockRollsBackEverything(t *testing.T) {
	db, redisURL := startStack(t)
	rdb, err := infra.NewRedis(redisURL)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                   "test",
		TaxRatePct:            0,
		PointsPerCurrency:     1,
		CurrencyPerPoint:      0.1,
		LoyaltyRounding:       config.RoundDown,
		MinRedeemablePoints:   50,
		LockWaitTimeoutMillis: 2000,
	}
	r := router.New(cfg, db, rdb)

	var loc model.Location
	require.NoError(t, db.Where("is_default = true").First(&loc).Error)

	inStock := model.Product{
		SKU: "INT-OK", Name: "In stock", Active: true,
		UnitPrice: decimal.RequireFromString("10"), UnitCost: decimal.RequireFromString("5"),
		StockCount: 10,
	}
	outOfStock := model.Product{
		SKU: "INT-OOS", Name: "Out of stock", Active: true,
		UnitPrice: decimal.RequireFromString("10"), UnitCost: decimal.RequireFromString("5"),
		StockCount: 1,
	}
	require.NoError(t, db.Create(&inStock).Error)
	require.NoError(t, db.Create(&outOfStock).Error)
	require.NoError(t, db.Create(&model.InventoryLevel{ProductID: inStock.ID, LocationID: loc.ID, Quantity: 10}).Error)
	require.NoError(t, db.Create(&model.InventoryLevel{ProductID: outOfStock.ID, LocationID: loc.ID, Quantity: 1}).Error)

	body := map[string]any{
		"items": []map[string]any{
			{"product_id": inStock.ID.String(), "quantity": 2},
			{"product_id": outOfStock.ID.String(), "quantity": 5},
		},
		"payment_method": "cash",
		"amount_paid":    "500",
	}
	buf, _ := json.Marshal(body)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sales", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	// the in-stock line's reservation must have been rolled back with the rest
	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", inStock.ID).Error)
	assert.Equal(t, 10, reloaded.StockCount)

	var txns int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&txns).Error)
	assert.EqualValues(t, 0, txns)
}

// Two settlements race for the same product with only enough stock for one of
// them. Exactly one may win; the loser gets an insufficient-stock rejection or
// a lock-conflict 409, and stock must account for every committed sale.
func TestConcurrentSettlementsNeverOversell(t *testing.T) {
	db, redisURL := startStack(t)
	rdb, err := infra.NewRedis(redisURL)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                   "test",
		TaxRatePct:            0,
		PointsPerCurrency:     1,
		CurrencyPerPoint:      0.1,
		LoyaltyRounding:       config.RoundDown,
		MinRedeemablePoints:   50,
		LockWaitTimeoutMillis: 2000,
	}
	r := router.New(cfg, db, rdb)

	var loc model.Location
	require.NoError(t, db.Where("is_default = true").First(&loc).Error)

	product := model.Product{
		SKU: "INT-RACE", Name: "Contested Widget", Active: true,
		UnitPrice: decimal.RequireFromString("10"), UnitCost: decimal.RequireFromString("5"),
		StockCount: 3,
	}
	require.NoError(t, db.Create(&product).Error)
	require.NoError(t, db.Create(&model.InventoryLevel{
		ProductID:  product.ID,
		LocationID: loc.ID,
		Quantity:   3,
	}).Error)

	body := map[string]any{
		"items":          []map[string]any{{"product_id": product.ID.String(), "quantity": 2}},
		"payment_method": "cash",
		"amount_paid":    "20",
	}
	buf, _ := json.Marshal(body)

	codes := make([]int, 2)
	var wg sync.WaitGroup
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/sales", bytes.NewReader(buf))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			successes++
		case http.StatusUnprocessableEntity, http.StatusConflict:
			// the losing request
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	require.Equal(t, 1, successes, "stock only covers one settlement, codes %v", codes)

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 1, reloaded.StockCount)
	assert.GreaterOrEqual(t, reloaded.StockCount, 0)

	var txns int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&txns).Error)
	assert.EqualValues(t, 1, txns)
}
