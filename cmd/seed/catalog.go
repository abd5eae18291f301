package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/salesdash/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	channelsFile    = "sales_channels.csv"
	productsFile    = "products.csv"
	setProductsFile = "set_products.csv"
)

// csvRows reads a headed CSV file into maps keyed by lower-cased column name.
func csvRows(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readChannels(r io.Reader) ([]domain.SalesChannelInput, error) {
	rows, err := csvRows(r)
	if err != nil {
		return nil, err
	}

	channels := make([]domain.SalesChannelInput, 0, len(rows))
	for i, row := range rows {
		in := domain.SalesChannelInput{
			ChannelCode:    row["channel_code"],
			ChannelName:    row["channel_name"],
			ChannelDetails: strings.Split(row["channel_details"], "|"),
		}
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		channels = append(channels, in)
	}
	return channels, nil
}

func readProducts(r io.Reader) ([]domain.Product, error) {
	rows, err := csvRows(r)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for i, row := range rows {
		if row["product_code"] == "" {
			return nil, fmt.Errorf("line %d: product_code is required", i+2)
		}

		p := domain.Product{
			ProductCode:   row["product_code"],
			ItemNumber:    row["item_number"],
			ProductName:   row["product_name"],
			Specification: row["specification"],
			Barcode:       row["barcode"],
			BarcodeInfo:   row["barcode_info"],
		}
		for _, price := range []struct {
			col  string
			dest *decimal.Decimal
		}{
			{"purchase_price", &p.PurchasePrice},
			{"selling_price", &p.SellingPrice},
			{"tag_price", &p.TagPrice},
		} {
			value := strings.ReplaceAll(row[price.col], ",", "")
			if value == "" {
				continue
			}
			d, err := decimal.NewFromString(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s %q", i+2, price.col, row[price.col])
			}
			*price.dest = d
		}
		products = append(products, p)
	}
	return products, nil
}

func readSetProducts(r io.Reader) ([]domain.SetProduct, error) {
	rows, err := csvRows(r)
	if err != nil {
		return nil, err
	}

	sets := make([]domain.SetProduct, 0, len(rows))
	for i, row := range rows {
		if row["set_id"] == "" {
			return nil, fmt.Errorf("line %d: set_id is required", i+2)
		}
		sets = append(sets, domain.SetProduct{
			SetID:                row["set_id"],
			SetName:              row["set_name"],
			IndividualProductIDs: row["individual_product_ids"],
			Remarks:              row["remarks"],
		})
	}
	return sets, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func seedChannels(ctx context.Context, tx *sql.Tx, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	channels, err := readChannels(file)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO sales_channels (channel_code, channel_name, channel_details, is_active, created_at)
		VALUES ($1, $2, $3, true, NOW())
		ON CONFLICT (channel_code) DO UPDATE SET
			channel_name = EXCLUDED.channel_name,
			channel_details = EXCLUDED.channel_details,
			is_active = true`

	for _, ch := range channels {
		if _, err := tx.ExecContext(ctx, query, ch.ChannelCode, ch.ChannelName, ch.ChannelDetails); err != nil {
			return 0, fmt.Errorf("failed to upsert channel %s: %w", ch.ChannelCode, err)
		}
	}
	return len(channels), nil
}

func seedProducts(ctx context.Context, tx *sql.Tx, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	products, err := readProducts(file)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO products (
			product_code, item_number, product_name, specification,
			purchase_price, selling_price, tag_price, barcode, barcode_info
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (product_code) DO UPDATE SET
			item_number = EXCLUDED.item_number,
			product_name = EXCLUDED.product_name,
			specification = EXCLUDED.specification,
			purchase_price = EXCLUDED.purchase_price,
			selling_price = EXCLUDED.selling_price,
			tag_price = EXCLUDED.tag_price,
			barcode = EXCLUDED.barcode,
			barcode_info = EXCLUDED.barcode_info`

	for _, p := range products {
		_, err := tx.ExecContext(ctx, query,
			p.ProductCode,
			nullIfEmpty(p.ItemNumber),
			nullIfEmpty(p.ProductName),
			nullIfEmpty(p.Specification),
			p.PurchasePrice,
			p.SellingPrice,
			p.TagPrice,
			nullIfEmpty(p.Barcode),
			nullIfEmpty(p.BarcodeInfo),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert product %s: %w", p.ProductCode, err)
		}
	}
	return len(products), nil
}

func seedSetProducts(ctx context.Context, tx *sql.Tx, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	sets, err := readSetProducts(file)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO set_products (set_id, set_name, individual_product_ids, remarks, is_active, created_at)
		VALUES ($1, $2, $3, $4, true, NOW())
		ON CONFLICT (set_id) DO UPDATE SET
			set_name = EXCLUDED.set_name,
			individual_product_ids = EXCLUDED.individual_product_ids,
			remarks = EXCLUDED.remarks,
			is_active = true`

	for _, s := range sets {
		_, err := tx.ExecContext(ctx, query, s.SetID, nullIfEmpty(s.SetName), nullIfEmpty(s.IndividualProductIDs), nullIfEmpty(s.Remarks))
		if err != nil {
			return 0, fmt.Errorf("failed to upsert set product %s: %w", s.SetID, err)
		}
	}
	return len(sets), nil
}
