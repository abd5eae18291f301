// cmd/report/main.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/salesdash/backend-go/internal/domain"
	"github.com/salesdash/backend-go/internal/repository/postgres"
	"github.com/salesdash/backend-go/internal/service"
	"github.com/salesdash/backend-go/internal/statistics"
	"github.com/salesdash/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db-url",
			Usage:    "Database connection string",
			Required: true,
			EnvVars:  []string{"DATABASE_URL"},
		},
		&cli.StringFlag{Name: "start-date", Usage: "First calendar day (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "end-date", Usage: "Last calendar day (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "period", Usage: "yearly, monthly, daily or custom", Value: "daily"},
		&cli.IntFlag{
			Name:    "utc-offset",
			Usage:   "Business calendar offset from UTC in hours",
			Value:   statistics.DefaultUTCOffsetHours,
			EnvVars: []string{"STATS_UTC_OFFSET_HOURS"},
		},
		&cli.BoolFlag{Name: "pretty", Usage: "Indent the JSON output"},
	}
}

func parseFilter(c *cli.Context) (domain.StatisticsFilter, error) {
	filter := domain.StatisticsFilter{Period: domain.ParsePeriod(c.String("period"))}

	start, err := statistics.ParseCalendarDate(c.String("start-date"))
	if err != nil {
		return filter, err
	}
	end, err := statistics.ParseCalendarDate(c.String("end-date"))
	if err != nil {
		return filter, err
	}
	filter.StartDate, filter.EndDate = start, end
	return filter, nil
}

// report opens a short-lived pool, runs one statistics variant and prints it.
func report(run func(c *cli.Context, svc *service.StatisticsService, filter domain.StatisticsFilter) (interface{}, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		filter, err := parseFilter(c)
		if err != nil {
			return err
		}

		conn, err := sqlx.ConnectContext(c.Context, "pgx", c.String("db-url"))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer conn.Close()

		db := postgres.Wrap(conn, 1)
		svc := service.NewStatisticsService(
			postgres.NewStatisticsRepository(db),
			postgres.NewCatalogRepository(db),
			statistics.NewZone(c.Int("utc-offset")),
		)

		start := time.Now()
		result, err := run(c, svc, filter)
		if err != nil {
			return err
		}
		log.Debug().Str("report", c.Command.Name).Dur("elapsed", time.Since(start)).Msg("report generated")

		return writeJSON(c.App.Writer, result, c.Bool("pretty"))
	}
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func main() {
	_ = godotenv.Load(".env")
	logger.Setup("warn")

	app := &cli.App{
		Name:   "report",
		Usage:  "Print sales statistics as JSON",
		Writer: os.Stdout,
		Commands: []*cli.Command{
			{
				Name:  "assort",
				Usage: "Size assortment per set product",
				Flags: commonFlags(),
				Action: report(func(c *cli.Context, svc *service.StatisticsService, filter domain.StatisticsFilter) (interface{}, error) {
					return svc.Assort(c.Context, filter)
				}),
			},
			{
				Name:  "channels",
				Usage: "Sales and achievement per channel",
				Flags: commonFlags(),
				Action: report(func(c *cli.Context, svc *service.StatisticsService, filter domain.StatisticsFilter) (interface{}, error) {
					return svc.Channels(c.Context, filter)
				}),
			},
			{
				Name:  "sales",
				Usage: "Sales per catalog product and size",
				Flags: commonFlags(),
				Action: report(func(c *cli.Context, svc *service.StatisticsService, filter domain.StatisticsFilter) (interface{}, error) {
					return svc.ProductSales(c.Context, filter)
				}),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("report failed")
	}
}
