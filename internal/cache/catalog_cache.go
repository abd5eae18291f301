package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/salesdash/backend-go/internal/config"
	"github.com/salesdash/backend-go/internal/domain"
)

const (
	catalogKeyPrefix  = "catalog:"
	defaultCatalogTTL = 5 * time.Minute
	unlinkBatchSize   = 100
)

// CatalogKind names one cached catalog list. Every key of a kind shares the
// kind's prefix so a kind can be dropped on its own.
type CatalogKind string

const (
	KindChannels    CatalogKind = "channels"
	KindSetProducts CatalogKind = "set_products"
	KindProducts    CatalogKind = "products"
)

var catalogKinds = []CatalogKind{KindChannels, KindSetProducts, KindProducts}

func (k CatalogKind) prefix() string {
	return catalogKeyPrefix + string(k) + ":"
}

// key hashes the list parameters under the kind prefix.
func (k CatalogKind) key(parts ...string) string {
	hash := sha1.Sum([]byte(strings.Join(parts, "|")))
	return k.prefix() + hex.EncodeToString(hash[:])
}

// CatalogCache holds the read-mostly catalog lists. Statistics results are
// never cached here.
type CatalogCache interface {
	GetChannels(ctx context.Context) ([]*domain.SalesChannel, bool, error)
	SetChannels(ctx context.Context, channels []*domain.SalesChannel) error
	GetSetProducts(ctx context.Context, search string) ([]*domain.SetProduct, bool, error)
	SetSetProducts(ctx context.Context, search string, sets []*domain.SetProduct) error
	GetProducts(ctx context.Context, search domain.CatalogSearch) ([]*domain.Product, bool, error)
	SetProducts(ctx context.Context, search domain.CatalogSearch, products []*domain.Product) error
	// Invalidate drops the given kinds, or every kind when none is given.
	Invalidate(ctx context.Context, kinds ...CatalogKind) error
}

type redisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopCatalogCache struct{}

func NewCatalogCache(cfg config.CacheConfig) (CatalogCache, error) {
	if !cfg.Enabled {
		return &noopCatalogCache{}, nil
	}

	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisCatalogCache{client: client, ttl: catalogTTL(cfg)}, nil
}

func NewNoopCatalogCache() CatalogCache {
	return &noopCatalogCache{}
}

func catalogTTL(cfg config.CacheConfig) time.Duration {
	if cfg.CatalogTTLSeconds <= 0 {
		return defaultCatalogTTL
	}
	return time.Duration(cfg.CatalogTTLSeconds) * time.Second
}

// redisOptions prefers REDIS_URL and otherwise builds the address from the
// discrete host/port settings.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func channelsKey() string {
	return KindChannels.key("all")
}

func setProductsKey(search string) string {
	return KindSetProducts.key("search=" + strings.ToLower(strings.TrimSpace(search)))
}

func productsKey(search domain.CatalogSearch) string {
	return KindProducts.key(
		"search="+strings.ToLower(strings.TrimSpace(search.Search)),
		fmt.Sprintf("limit=%d", search.Limit),
		fmt.Sprintf("offset=%d", search.Offset),
	)
}

func (c *redisCatalogCache) GetChannels(ctx context.Context) ([]*domain.SalesChannel, bool, error) {
	var channels []*domain.SalesChannel
	ok, err := c.get(ctx, channelsKey(), &channels)
	return channels, ok, err
}

func (c *redisCatalogCache) SetChannels(ctx context.Context, channels []*domain.SalesChannel) error {
	return c.set(ctx, channelsKey(), channels)
}

func (c *redisCatalogCache) GetSetProducts(ctx context.Context, search string) ([]*domain.SetProduct, bool, error) {
	var sets []*domain.SetProduct
	ok, err := c.get(ctx, setProductsKey(search), &sets)
	return sets, ok, err
}

func (c *redisCatalogCache) SetSetProducts(ctx context.Context, search string, sets []*domain.SetProduct) error {
	return c.set(ctx, setProductsKey(search), sets)
}

func (c *redisCatalogCache) GetProducts(ctx context.Context, search domain.CatalogSearch) ([]*domain.Product, bool, error) {
	var products []*domain.Product
	ok, err := c.get(ctx, productsKey(search), &products)
	return products, ok, err
}

func (c *redisCatalogCache) SetProducts(ctx context.Context, search domain.CatalogSearch, products []*domain.Product) error {
	return c.set(ctx, productsKey(search), products)
}

func (c *redisCatalogCache) Invalidate(ctx context.Context, kinds ...CatalogKind) error {
	if len(kinds) == 0 {
		kinds = catalogKinds
	}

	for _, kind := range kinds {
		batch := make([]string, 0, unlinkBatchSize)
		iter := c.client.Scan(ctx, 0, kind.prefix()+"*", unlinkBatchSize).Iterator()
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == unlinkBatchSize {
				if err := c.client.Unlink(ctx, batch...).Err(); err != nil {
					return fmt.Errorf("redis unlink %s failed: %w", kind, err)
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("redis scan %s failed: %w", kind, err)
		}
		if len(batch) > 0 {
			if err := c.client.Unlink(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis unlink %s failed: %w", kind, err)
			}
		}
	}
	return nil
}

func (c *redisCatalogCache) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode catalog cache %s: %w", key, err)
	}
	return true, nil
}

func (c *redisCatalogCache) set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode catalog cache %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopCatalogCache) GetChannels(ctx context.Context) ([]*domain.SalesChannel, bool, error) {
	return nil, false, nil
}

func (n *noopCatalogCache) SetChannels(ctx context.Context, channels []*domain.SalesChannel) error {
	return nil
}

func (n *noopCatalogCache) GetSetProducts(ctx context.Context, search string) ([]*domain.SetProduct, bool, error) {
	return nil, false, nil
}

func (n *noopCatalogCache) SetSetProducts(ctx context.Context, search string, sets []*domain.SetProduct) error {
	return nil
}

func (n *noopCatalogCache) GetProducts(ctx context.Context, search domain.CatalogSearch) ([]*domain.Product, bool, error) {
	return nil, false, nil
}

func (n *noopCatalogCache) SetProducts(ctx context.Context, search domain.CatalogSearch, products []*domain.Product) error {
	return nil
}

func (n *noopCatalogCache) Invalidate(ctx context.Context, kinds ...CatalogKind) error {
	return nil
}
