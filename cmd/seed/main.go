package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/salesdash/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

type dbKey struct{}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing catalog CSV files",
		Value:   "./data/seeds",
		EnvVars: []string{"SEED_DATA_DIR"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey{}, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey{}).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey{}).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

// seedCommand wraps one loader in a transaction.
func seedCommand(name, usage, file string, load func(ctx context.Context, tx *sql.Tx, path string) (int, error)) *cli.Command {
	return &cli.Command{
		Name:   name,
		Usage:  usage,
		Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
		Before: initDB,
		After:  closeDB,
		Action: func(c *cli.Context) error {
			return inTx(c, func(ctx context.Context, tx *sql.Tx) error {
				_, err := runLoader(ctx, tx, name, filepath.Join(c.String("data-dir"), file), load)
				return err
			})
		},
	}
}

func runLoader(ctx context.Context, tx *sql.Tx, name, path string, load func(ctx context.Context, tx *sql.Tx, path string) (int, error)) (int, error) {
	log.Info().Str("table", name).Str("file", path).Msg("Seeding")
	n, err := load(ctx, tx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to seed %s: %w", name, err)
	}
	log.Info().Str("table", name).Int("rows", n).Msg("Seeded")
	return n, nil
}

func inTx(c *cli.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(c.Context, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(c.Context, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	logger.Setup(level)

	app := &cli.App{
		Name:  "seed",
		Usage: "Load catalog fixtures (channels, products, set products) from CSV",
		Commands: []*cli.Command{
			seedCommand("channels", "Seed sales channels", channelsFile, seedChannels),
			seedCommand("products", "Seed catalog products", productsFile, seedProducts),
			seedCommand("set-products", "Seed set products", setProductsFile, seedSetProducts),
			{
				Name:   "all",
				Usage:  "Seed channels, products and set products in one transaction",
				Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					dir := c.String("data-dir")
					return inTx(c, func(ctx context.Context, tx *sql.Tx) error {
						if _, err := runLoader(ctx, tx, "channels", filepath.Join(dir, channelsFile), seedChannels); err != nil {
							return err
						}
						if _, err := runLoader(ctx, tx, "products", filepath.Join(dir, productsFile), seedProducts); err != nil {
							return err
						}
						_, err := runLoader(ctx, tx, "set-products", filepath.Join(dir, setProductsFile), seedSetProducts)
						return err
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}
