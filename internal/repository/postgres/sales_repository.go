// backend-go/internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/salesdash/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *salesRepository {
	return &salesRepository{db: db}
}

type salesPlanRow struct {
	ID                  int64               `db:"id"`
	Season              sql.NullString      `db:"season"`
	PlanDate            time.Time           `db:"plan_date"`
	PlanTime            sql.NullString      `db:"plan_time"`
	ChannelID           sql.NullInt64       `db:"channel_id"`
	ChannelName         sql.NullString      `db:"channel_name"`
	ChannelDetail       sql.NullString      `db:"channel_detail"`
	ProductCategory     sql.NullString      `db:"product_category"`
	ProductName         sql.NullString      `db:"product_name"`
	ProductSummary      sql.NullString      `db:"product_summary"`
	QuantityComposition sql.NullString      `db:"quantity_composition"`
	SetItemID           sql.NullInt64       `db:"set_item_code"`
	ProductCode         sql.NullString      `db:"product_code"`
	SalePrice           decimal.NullDecimal `db:"sale_price"`
	CommissionRate      decimal.NullDecimal `db:"commission_rate"`
	TargetQuantity      sql.NullInt64       `db:"target_quantity"`
	IsActive            bool                `db:"is_active"`
	CreatedAt           time.Time           `db:"created_at"`
}

func (row salesPlanRow) toDomain() *domain.SalesPlan {
	plan := &domain.SalesPlan{
		ID:                  row.ID,
		Season:              row.Season.String,
		PlanDate:            formatDate(row.PlanDate),
		PlanTime:            row.PlanTime.String,
		ChannelName:         row.ChannelName.String,
		ChannelDetail:       row.ChannelDetail.String,
		ProductCategory:     row.ProductCategory.String,
		ProductName:         row.ProductName.String,
		ProductSummary:      row.ProductSummary.String,
		QuantityComposition: row.QuantityComposition.String,
		ProductCode:         row.ProductCode.String,
		SalePrice:           row.SalePrice.Decimal,
		CommissionRate:      row.CommissionRate.Decimal,
		TargetQuantity:      int(row.TargetQuantity.Int64),
		IsActive:            row.IsActive,
		CreatedAt:           row.CreatedAt,
	}
	if row.ChannelID.Valid {
		id := row.ChannelID.Int64
		plan.ChannelID = &id
	}
	if row.SetItemID.Valid {
		id := row.SetItemID.Int64
		plan.SetItemID = &id
	}
	return plan
}

const salesPlanSelect = `
	SELECT
		sp.id, sp.season, sp.plan_date, sp.plan_time::text AS plan_time, sp.channel_id,
		ch.channel_name, sp.channel_detail, sp.product_category, sp.product_name,
		sp.product_summary, sp.quantity_composition, sp.set_item_code, sp.product_code,
		sp.sale_price, sp.commission_rate, sp.target_quantity, sp.is_active, sp.created_at
	FROM sales_plans sp
	LEFT JOIN sales_channels ch ON ch.id = sp.channel_id
	WHERE sp.is_active = true`

func (r *salesRepository) ListSalesPlans(ctx context.Context, filter domain.SalesPlanFilter) ([]*domain.SalesPlan, error) {
	var clause filterClause
	clause.addPlanDateRange("sp.", filter)

	query := salesPlanSelect + clause.and() + " ORDER BY sp.plan_date DESC, sp.plan_time DESC, sp.id DESC"

	var rows []salesPlanRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, clause.args...); err != nil {
		return nil, fmt.Errorf("failed to list sales plans: %w", err)
	}

	plans := make([]*domain.SalesPlan, len(rows))
	for i, row := range rows {
		plans[i] = row.toDomain()
	}
	return plans, nil
}

func (r *salesRepository) GetSalesPlan(ctx context.Context, id int64) (*domain.SalesPlan, error) {
	var row salesPlanRow
	if err := sqlx.GetContext(ctx, r.db, &row, salesPlanSelect+" AND sp.id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sales plan: %w", err)
	}
	return row.toDomain(), nil
}

func planArgs(in domain.SalesPlanInput) []interface{} {
	return []interface{}{
		in.Season,
		in.PlanDate,
		nullString(in.PlanTime),
		nullInt64(in.ChannelID),
		in.ChannelDetail,
		in.ProductCategory,
		in.ProductName,
		in.ProductSummary,
		in.QuantityComposition,
		nullInt64(in.SetItemID),
		in.ProductCode,
		in.SalePrice,
		in.CommissionRate,
		in.TargetQuantity,
	}
}

func (r *salesRepository) CreateSalesPlan(ctx context.Context, in domain.SalesPlanInput) (*domain.SalesPlan, error) {
	query := `
		INSERT INTO sales_plans (
			season, plan_date, plan_time, channel_id, channel_detail, product_category,
			product_name, product_summary, quantity_composition, set_item_code, product_code,
			sale_price, commission_rate, target_quantity, is_active, created_at, updated_at
		) VALUES ($1, $2::date, $3::time, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, true, NOW(), NOW())
		RETURNING id`

	var id int64
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, query, planArgs(in)...).Scan(&id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sales plan: %w", err)
	}

	return r.GetSalesPlan(ctx, id)
}

func (r *salesRepository) UpdateSalesPlan(ctx context.Context, id int64, in domain.SalesPlanInput) (*domain.SalesPlan, error) {
	query := `
		UPDATE sales_plans SET
			season = $1, plan_date = $2::date, plan_time = $3::time, channel_id = $4,
			channel_detail = $5, product_category = $6, product_name = $7, product_summary = $8,
			quantity_composition = $9, set_item_code = $10, product_code = $11, sale_price = $12,
			commission_rate = $13, target_quantity = $14, updated_at = NOW()
		WHERE id = $15 AND is_active = true`

	args := append(planArgs(in), id)
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update sales plan: %w", err)
	}

	return r.GetSalesPlan(ctx, id)
}

// DeactivateSalesPlan soft-deletes the plan together with its performance records.
func (r *salesRepository) DeactivateSalesPlan(ctx context.Context, id int64) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE sales_plans SET is_active = false, updated_at = NOW() WHERE id = $1 AND is_active = true`, id)
		if err != nil {
			return err
		}
		if err := requireAffected(res); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE sales_performance SET is_active = false, updated_at = NOW() WHERE sales_plan_id = $1 AND is_active = true`, id)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to deactivate sales plan: %w", err)
	}
	return nil
}

type salesPerformanceRow struct {
	ID              int64     `db:"id"`
	SalesPlanID     int64     `db:"sales_plan_id"`
	Performance     int       `db:"performance"`
	AchievementRate float64   `db:"achievement_rate"`
	Temperature     float64   `db:"temperature"`
	IsActive        bool      `db:"is_active"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	domain.SizeSet
}

func (row salesPerformanceRow) toDomain() *domain.SalesPerformance {
	return &domain.SalesPerformance{
		ID:              row.ID,
		SalesPlanID:     row.SalesPlanID,
		Performance:     row.Performance,
		AchievementRate: row.AchievementRate,
		Temperature:     row.Temperature,
		Sizes:           row.SizeSet,
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

const salesPerformanceColumns = `
	perf.id, perf.sales_plan_id, COALESCE(perf.performance, 0) AS performance,
	COALESCE(perf.achievement_rate, 0) AS achievement_rate, COALESCE(perf.temperature, 0) AS temperature,
	COALESCE(perf.xs_size, 0) AS xs_size, COALESCE(perf.s_size, 0) AS s_size,
	COALESCE(perf.m_size, 0) AS m_size, COALESCE(perf.l_size, 0) AS l_size,
	COALESCE(perf.xl_size, 0) AS xl_size, COALESCE(perf.xxl_size, 0) AS xxl_size,
	COALESCE(perf.fourxl_size, 0) AS fourxl_size,
	perf.is_active, perf.created_at, COALESCE(perf.updated_at, perf.created_at) AS updated_at`

func (r *salesRepository) ListSalesPerformance(ctx context.Context, filter domain.SalesPlanFilter) ([]*domain.SalesPerformance, error) {
	var clause filterClause
	clause.addPlanDateRange("sp.", filter)

	query := `
		SELECT ` + salesPerformanceColumns + `
		FROM sales_performance perf
		JOIN sales_plans sp ON sp.id = perf.sales_plan_id AND sp.is_active = true
		WHERE perf.is_active = true` + clause.and() + `
		ORDER BY sp.plan_date DESC, perf.id DESC`

	var rows []salesPerformanceRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, clause.args...); err != nil {
		return nil, fmt.Errorf("failed to list sales performance: %w", err)
	}

	records := make([]*domain.SalesPerformance, len(rows))
	for i, row := range rows {
		records[i] = row.toDomain()
	}
	return records, nil
}

// SaveSalesPerformance keeps one active record per plan: an existing record
// is overwritten, otherwise a new one is inserted.
func (r *salesRepository) SaveSalesPerformance(ctx context.Context, in domain.SalesPerformanceInput, achievementRate float64) (*domain.SalesPerformance, error) {
	var row salesPerformanceRow
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var existingID int64
		err := tx.GetContext(ctx, &existingID,
			`SELECT id FROM sales_performance WHERE sales_plan_id = $1 AND is_active = true ORDER BY id LIMIT 1 FOR UPDATE`,
			in.SalesPlanID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		args := []interface{}{
			in.SalesPlanID, in.Performance, achievementRate, in.Temperature,
			in.Sizes.XS, in.Sizes.S, in.Sizes.M, in.Sizes.L, in.Sizes.XL, in.Sizes.XXL, in.Sizes.FourXL,
		}

		var id int64
		if existingID == 0 {
			err = tx.QueryRowxContext(ctx, `
				INSERT INTO sales_performance (
					sales_plan_id, performance, achievement_rate, temperature,
					xs_size, s_size, m_size, l_size, xl_size, xxl_size, fourxl_size,
					is_active, created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true, NOW(), NOW())
				RETURNING id`, args...).Scan(&id)
		} else {
			args = append(args, existingID)
			err = tx.QueryRowxContext(ctx, `
				UPDATE sales_performance SET
					sales_plan_id = $1, performance = $2, achievement_rate = $3, temperature = $4,
					xs_size = $5, s_size = $6, m_size = $7, l_size = $8, xl_size = $9,
					xxl_size = $10, fourxl_size = $11, updated_at = NOW()
				WHERE id = $12
				RETURNING id`, args...).Scan(&id)
		}
		if err != nil {
			return err
		}

		return tx.GetContext(ctx, &row, `SELECT `+salesPerformanceColumns+` FROM sales_performance perf WHERE perf.id = $1`, id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save sales performance: %w", err)
	}
	return row.toDomain(), nil
}

func (r *salesRepository) DeactivateSalesPerformance(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sales_performance SET is_active = false, updated_at = NOW() WHERE id = $1 AND is_active = true`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate sales performance: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
