package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/trogers1052/trading-position-modeler/internal/config"
	"github.com/trogers1052/trading-position-modeler/internal/database"
	"github.com/trogers1052/trading-position-modeler/internal/logger"
	"github.com/trogers1052/trading-position-modeler/internal/models"
	"github.com/trogers1052/trading-position-modeler/internal/renderer"
	"github.com/trogers1052/trading-position-modeler/internal/report"
)

const queryTimeout = 10 * time.Second

func main() {
	log := logger.New(logger.Config{Level: "warn", Pretty: true, Output: os.Stderr})

	app := &cli.App{
		Name:  "positionctl",
		Usage: "model trading positions and print their monthly scenarios",
		Commands: []*cli.Command{
			renderCommand(),
			listCommand(),
			showCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("positionctl failed")
	}
}

func renderCommand() *cli.Command {
	d := models.DefaultPositionInputRecord()
	return &cli.Command{
		Name:  "render",
		Usage: "render scenarios for ad-hoc inputs without storing them",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Value: "Ad-hoc position"},
			&cli.Float64Flag{Name: "initial-value", Usage: "capital committed to the position", Required: true},
			&cli.Float64Flag{Name: "price-per-share", Usage: "entry price", Required: true},
			&cli.Float64Flag{Name: "positions-per-day", Value: d.AverageNumberOfPositionsPerDay},
			&cli.Float64Flag{Name: "lots", Value: d.AverageNumberOfLotsPerPosition, Usage: "lots each position is split into"},
			&cli.Float64Flag{Name: "trading-days", Value: d.AverageNumberOfTradingDaysPerWeek, Usage: "trading days per week"},
			&cli.Float64Flag{Name: "success-rate", Value: d.EstimatedSuccessRate},
			&cli.Float64Flag{Name: "target-gain", Value: d.TargetGain},
			&cli.Float64Flag{Name: "federal-tax", Value: d.FederalTaxRate},
			&cli.Float64Flag{Name: "state-tax", Value: d.StateTaxRate},
			&cli.Float64Flag{Name: "expenses", Value: d.Expenses, Usage: "monthly expenses"},
			&cli.Float64Flag{Name: "fee", Value: d.EstimatedFeePerTransaction, Usage: "fee per transaction"},
			&cli.BoolFlag{Name: "lots-table", Usage: "also print each scenario's lot ladder"},
			&cli.BoolFlag{Name: "json", Usage: "print the rendering as JSON"},
		},
		Action: func(c *cli.Context) error {
			record := models.PositionInputRecord{
				Name:                              c.String("name"),
				InitialValue:                      c.Float64("initial-value"),
				PricePerShare:                     c.Float64("price-per-share"),
				AverageNumberOfPositionsPerDay:    c.Float64("positions-per-day"),
				AverageNumberOfLotsPerPosition:    c.Float64("lots"),
				AverageNumberOfTradingDaysPerWeek: c.Float64("trading-days"),
				EstimatedSuccessRate:              c.Float64("success-rate"),
				TargetGain:                        c.Float64("target-gain"),
				FederalTaxRate:                    c.Float64("federal-tax"),
				StateTaxRate:                      c.Float64("state-tax"),
				Expenses:                          c.Float64("expenses"),
				EstimatedFeePerTransaction:        c.Float64("fee"),
				ListPosition:                      models.DefaultListPosition,
			}
			if err := models.ValidatePositionInput(record); err != nil {
				return err
			}

			rendered := renderer.RenderPosition(models.NewPositionInputFromRecord(record))
			return output(c, rendered)
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list stored positions",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "filter", Usage: "only names containing this text, ignoring case"},
		},
		Action: func(c *cli.Context) error {
			return withDB(c, func(ctx context.Context, db *database.DB) error {
				inputs, err := db.ListPositionInputs(ctx, strings.TrimSpace(c.String("filter")))
				if err != nil {
					return err
				}
				return report.Positions(c.App.Writer, inputs)
			})
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "render a stored position",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Required: true},
			&cli.BoolFlag{Name: "lots-table", Usage: "also print each scenario's lot ladder"},
			&cli.BoolFlag{Name: "json", Usage: "print the rendering as JSON"},
		},
		Action: func(c *cli.Context) error {
			return withDB(c, func(ctx context.Context, db *database.DB) error {
				p, err := db.GetPositionInputByID(ctx, c.String("id"))
				if err != nil {
					return err
				}
				return output(c, renderer.RenderPosition(p))
			})
		},
	}
}

func output(c *cli.Context, rendered *models.RenderedPosition) error {
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(rendered)
	}
	return report.Scenarios(c.App.Writer, rendered, c.Bool("lots-table"))
}

// withDB connects with the server's database settings and closes the pool afterwards
func withDB(c *cli.Context, fn func(ctx context.Context, db *database.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to %s:%s: %w", cfg.Database.Host, cfg.Database.Port, err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(c.Context, queryTimeout)
	defer cancel()
	return fn(ctx, db)
}
