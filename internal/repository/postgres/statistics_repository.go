package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/salesdash/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

type statisticsRepository struct {
	db *DB
}

func NewStatisticsRepository(db *DB) *statisticsRepository {
	return &statisticsRepository{db: db}
}

// performanceRow is the flat scan target of the statistics join. Every
// joined column is nullable so a plan without a set product or channel
// still produces a row.
type performanceRow struct {
	ID              int64           `db:"id"`
	Performance     sql.NullInt64   `db:"performance"`
	AchievementRate sql.NullFloat64 `db:"achievement_rate"`
	Temperature     sql.NullFloat64 `db:"temperature"`
	XS              sql.NullInt64   `db:"xs_size"`
	S               sql.NullInt64   `db:"s_size"`
	M               sql.NullInt64   `db:"m_size"`
	L               sql.NullInt64   `db:"l_size"`
	XL              sql.NullInt64   `db:"xl_size"`
	XXL             sql.NullInt64   `db:"xxl_size"`
	FourXL          sql.NullInt64   `db:"fourxl_size"`

	PlanID              sql.NullInt64       `db:"plan_id"`
	Season              sql.NullString      `db:"season"`
	PlanDate            sql.NullTime        `db:"plan_date"`
	PlanTime            sql.NullString      `db:"plan_time"`
	ChannelDetail       sql.NullString      `db:"channel_detail"`
	ProductCategory     sql.NullString      `db:"product_category"`
	ProductName         sql.NullString      `db:"product_name"`
	ProductSummary      sql.NullString      `db:"product_summary"`
	QuantityComposition sql.NullString      `db:"quantity_composition"`
	ProductCode         sql.NullString      `db:"product_code"`
	SalePrice           decimal.NullDecimal `db:"sale_price"`
	CommissionRate      decimal.NullDecimal `db:"commission_rate"`
	TargetQuantity      sql.NullInt64       `db:"target_quantity"`

	SetPK                sql.NullInt64  `db:"set_pk"`
	SetID                sql.NullString `db:"set_id"`
	SetName              sql.NullString `db:"set_name"`
	IndividualProductIDs sql.NullString `db:"individual_product_ids"`
	Remarks              sql.NullString `db:"remarks"`

	ChannelPK   sql.NullInt64  `db:"channel_pk"`
	ChannelCode sql.NullString `db:"channel_code"`
	ChannelName sql.NullString `db:"channel_name"`
}

const performanceRowsQuery = `
	SELECT
		perf.id,
		perf.performance,
		perf.achievement_rate,
		perf.temperature,
		perf.xs_size, perf.s_size, perf.m_size, perf.l_size,
		perf.xl_size, perf.xxl_size, perf.fourxl_size,
		sp.id AS plan_id,
		sp.season,
		sp.plan_date,
		sp.plan_time::text AS plan_time,
		sp.channel_detail,
		sp.product_category,
		sp.product_name,
		sp.product_summary,
		sp.quantity_composition,
		sp.product_code,
		sp.sale_price,
		sp.commission_rate,
		sp.target_quantity,
		st.id AS set_pk,
		st.set_id,
		st.set_name,
		st.individual_product_ids,
		st.remarks,
		ch.id AS channel_pk,
		ch.channel_code,
		ch.channel_name
	FROM sales_performance perf
	JOIN sales_plans sp ON sp.id = perf.sales_plan_id AND sp.is_active = true
	LEFT JOIN set_products st ON st.id = sp.set_item_code AND st.is_active = true
	LEFT JOIN sales_channels ch ON ch.id = sp.channel_id AND ch.is_active = true
	WHERE perf.is_active = true`

// GetPerformanceRows runs the single joined read behind every statistics endpoint.
func (r *statisticsRepository) GetPerformanceRows(ctx context.Context, bounds domain.DateBounds) ([]domain.PerformanceRow, error) {
	var filter filterClause
	filter.addPlanDateBounds("sp.", bounds)

	query := performanceRowsQuery + filter.and() + " ORDER BY sp.plan_date, perf.id"

	var rows []performanceRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, filter.args...); err != nil {
		return nil, fmt.Errorf("failed to get performance rows: %w", err)
	}

	log.Debug().Int("rows", len(rows)).Msg("statistics: performance rows fetched")

	results := make([]domain.PerformanceRow, len(rows))
	for i := range rows {
		results[i] = rows[i].toDomain()
	}
	return results, nil
}

func (row *performanceRow) toDomain() domain.PerformanceRow {
	out := domain.PerformanceRow{
		ID:              row.ID,
		Performance:     int(row.Performance.Int64),
		AchievementRate: row.AchievementRate.Float64,
		Temperature:     row.Temperature.Float64,
		Sizes: domain.SizeSet{
			XS:     int(row.XS.Int64),
			S:      int(row.S.Int64),
			M:      int(row.M.Int64),
			L:      int(row.L.Int64),
			XL:     int(row.XL.Int64),
			XXL:    int(row.XXL.Int64),
			FourXL: int(row.FourXL.Int64),
		},
	}

	if !row.PlanID.Valid {
		return out
	}

	plan := &domain.SalesPlanSnapshot{
		ID:                  row.PlanID.Int64,
		Season:              row.Season.String,
		PlanTime:            row.PlanTime.String,
		ChannelDetail:       row.ChannelDetail.String,
		ProductCategory:     row.ProductCategory.String,
		ProductName:         row.ProductName.String,
		ProductSummary:      row.ProductSummary.String,
		QuantityComposition: row.QuantityComposition.String,
		ProductCode:         row.ProductCode.String,
		SalePrice:           row.SalePrice.Decimal,
		CommissionRate:      row.CommissionRate.Decimal,
		TargetQuantity:      int(row.TargetQuantity.Int64),
	}
	if row.PlanDate.Valid {
		planDate := row.PlanDate.Time.UTC()
		plan.PlanDate = &planDate
	}
	if row.SetPK.Valid {
		plan.SetProduct = &domain.SetProductSnapshot{
			ID:                   row.SetPK.Int64,
			SetID:                row.SetID.String,
			SetName:              row.SetName.String,
			IndividualProductIDs: row.IndividualProductIDs.String,
			Remarks:              row.Remarks.String,
		}
	}
	if row.ChannelPK.Valid {
		plan.Channel = &domain.ChannelSnapshot{
			ID:          row.ChannelPK.Int64,
			ChannelCode: row.ChannelCode.String,
			ChannelName: row.ChannelName.String,
		}
	}
	out.Plan = plan
	return out
}
