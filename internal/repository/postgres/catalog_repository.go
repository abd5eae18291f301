package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/salesdash/backend-go/internal/domain"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

type channelRow struct {
	ID             int64          `db:"id"`
	ChannelCode    string         `db:"channel_code"`
	ChannelName    string         `db:"channel_name"`
	ChannelDetails pq.StringArray `db:"channel_details"`
	IsActive       bool           `db:"is_active"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (row channelRow) toDomain() *domain.SalesChannel {
	details := []string(row.ChannelDetails)
	if details == nil {
		details = []string{}
	}
	return &domain.SalesChannel{
		ID:             row.ID,
		ChannelCode:    row.ChannelCode,
		ChannelName:    row.ChannelName,
		ChannelDetails: details,
		IsActive:       row.IsActive,
		CreatedAt:      row.CreatedAt,
	}
}

const channelColumns = `id, channel_code, channel_name, COALESCE(channel_details, '{}') AS channel_details, is_active, created_at`

func (r *catalogRepository) ListChannels(ctx context.Context) ([]*domain.SalesChannel, error) {
	query := `SELECT ` + channelColumns + ` FROM sales_channels WHERE is_active = true ORDER BY channel_name`

	var rows []channelRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}

	channels := make([]*domain.SalesChannel, len(rows))
	for i, row := range rows {
		channels[i] = row.toDomain()
	}
	return channels, nil
}

func (r *catalogRepository) GetChannel(ctx context.Context, id int64) (*domain.SalesChannel, error) {
	query := `SELECT ` + channelColumns + ` FROM sales_channels WHERE id = $1 AND is_active = true`

	var row channelRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	return row.toDomain(), nil
}

func (r *catalogRepository) CreateChannel(ctx context.Context, in domain.SalesChannelInput) (*domain.SalesChannel, error) {
	query := `
		INSERT INTO sales_channels (channel_code, channel_name, channel_details, is_active, created_at)
		VALUES ($1, $2, $3, true, NOW())
		RETURNING ` + channelColumns

	var row channelRow
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &row, query, in.ChannelCode, in.ChannelName, pq.Array(in.ChannelDetails))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}
	return row.toDomain(), nil
}

func (r *catalogRepository) UpdateChannel(ctx context.Context, id int64, in domain.SalesChannelInput) (*domain.SalesChannel, error) {
	query := `
		UPDATE sales_channels
		SET channel_code = $2, channel_name = $3, channel_details = $4
		WHERE id = $1 AND is_active = true
		RETURNING ` + channelColumns

	var row channelRow
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &row, query, id, in.ChannelCode, in.ChannelName, pq.Array(in.ChannelDetails))
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update channel: %w", err)
	}
	return row.toDomain(), nil
}

func (r *catalogRepository) ListSetProducts(ctx context.Context, search string) ([]*domain.SetProduct, error) {
	var filter filterClause
	if search != "" {
		p := filter.arg("%" + search + "%")
		filter.clauses = append(filter.clauses, fmt.Sprintf("(set_id ILIKE %[1]s OR set_name ILIKE %[1]s)", p))
	}

	query := `
		SELECT id, COALESCE(set_id, '') AS set_id, COALESCE(set_name, '') AS set_name,
			COALESCE(individual_product_ids, '') AS individual_product_ids,
			COALESCE(remarks, '') AS remarks, is_active, created_at
		FROM set_products
		WHERE is_active = true` + filter.and() + `
		ORDER BY set_id`

	var sets []*domain.SetProduct
	if err := sqlx.SelectContext(ctx, r.db, &sets, query, filter.args...); err != nil {
		return nil, fmt.Errorf("failed to list set products: %w", err)
	}
	return sets, nil
}

const productColumns = `
	id, product_code, COALESCE(item_number, '') AS item_number, COALESCE(product_name, '') AS product_name,
	COALESCE(specification, '') AS specification,
	COALESCE(purchase_price, 0) AS purchase_price, COALESCE(selling_price, 0) AS selling_price,
	COALESCE(tag_price, 0) AS tag_price, COALESCE(barcode, '') AS barcode, COALESCE(barcode_info, '') AS barcode_info`

func (r *catalogRepository) ListProducts(ctx context.Context, search domain.CatalogSearch) ([]*domain.Product, error) {
	limit := search.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	offset := search.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR product_code ILIKE '%' || $1 || '%' OR product_name ILIKE '%' || $1 || '%' OR item_number ILIKE '%' || $1 || '%')
		ORDER BY product_code ASC
		LIMIT $2 OFFSET $3`

	var products []*domain.Product
	if err := sqlx.SelectContext(ctx, r.db, &products, query, search.Search, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListAllProducts loads the whole catalog for product_code lookups.
func (r *catalogRepository) ListAllProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY product_code`

	var products []*domain.Product
	if err := sqlx.SelectContext(ctx, r.db, &products, query); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

func (r *catalogRepository) ListProductCategories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT product_category
		FROM sales_plans
		WHERE is_active = true AND COALESCE(product_category, '') <> ''
		ORDER BY product_category`

	var categories []string
	if err := sqlx.SelectContext(ctx, r.db, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list product categories: %w", err)
	}
	return categories, nil
}
