package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"billmint/internal/billing"
)

type CacheService interface {
	// Catalog caching: the product snapshot that seeds the stock ledger
	GetCatalog(ctx context.Context, tenantID uuid.UUID) ([]billing.CatalogProduct, error)
	SetCatalog(ctx context.Context, tenantID uuid.UUID, catalog []billing.CatalogProduct, ttl time.Duration) error
	DeleteCatalog(ctx context.Context, tenantID uuid.UUID) error

	// Dashboard metrics caching
	GetDashboard(ctx context.Context, tenantID uuid.UUID) (map[string]interface{}, error)
	SetDashboard(ctx context.Context, tenantID uuid.UUID, metrics map[string]interface{}, ttl time.Duration) error
	DeleteDashboard(ctx context.Context, tenantID uuid.UUID) error

	// Cache invalidation
	InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as bare host:port
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func catalogKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("catalog:%s", tenantID)
}

func dashboardKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("dashboard:%s", tenantID)
}

func (s *redisCacheService) GetCatalog(ctx context.Context, tenantID uuid.UUID) ([]billing.CatalogProduct, error) {
	data, err := s.client.Get(ctx, catalogKey(tenantID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var catalog []billing.CatalogProduct
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (s *redisCacheService) SetCatalog(ctx context.Context, tenantID uuid.UUID, catalog []billing.CatalogProduct, ttl time.Duration) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, catalogKey(tenantID), data, ttl).Err()
}

func (s *redisCacheService) DeleteCatalog(ctx context.Context, tenantID uuid.UUID) error {
	return s.client.Del(ctx, catalogKey(tenantID)).Err()
}

func (s *redisCacheService) GetDashboard(ctx context.Context, tenantID uuid.UUID) (map[string]interface{}, error) {
	data, err := s.client.Get(ctx, dashboardKey(tenantID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var metrics map[string]interface{}
	if err := json.Unmarshal(data, &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (s *redisCacheService) SetDashboard(ctx context.Context, tenantID uuid.UUID, metrics map[string]interface{}, ttl time.Duration) error {
	data, err := json.Marshal(metrics)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, dashboardKey(tenantID), data, ttl).Err()
}

func (s *redisCacheService) DeleteDashboard(ctx context.Context, tenantID uuid.UUID) error {
	return s.client.Del(ctx, dashboardKey(tenantID)).Err()
}

func (s *redisCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	return s.client.Del(ctx, catalogKey(tenantID), dashboardKey(tenantID)).Err()
}

func (s *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *redisCacheService) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisCacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
