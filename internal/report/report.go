// Package report prints positions and their scenarios as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/trogers1052/trading-position-modeler/internal/format"
	"github.com/trogers1052/trading-position-modeler/internal/models"
)

// Positions prints one row per stored position
func Positions(w io.Writer, inputs []*models.PositionInput) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "ID", "Name", "Initial", "Price", "Shares", "Lots", "Target", "Bot")

	for _, p := range inputs {
		bot := ""
		if p.IsBotCandidate() {
			bot = "yes"
		}
		if err := table.Append(
			strconv.Itoa(p.ListPosition()),
			p.ID(),
			p.Name(),
			format.Currency(p.InitialValue()),
			format.Currency(p.PricePerShare()),
			format.Number(p.NumberOfSharesInPosition(), 2),
			format.Number(p.AverageNumberOfLotsPerPosition(), 0),
			format.Percent(p.TargetGain()),
			bot,
		); err != nil {
			return fmt.Errorf("failed to append position row: %w", err)
		}
	}
	return table.Render()
}

// Scenarios prints the scenario table of a rendered position followed by the
// projection summary. With lots set, each scenario's lot ladder follows.
func Scenarios(w io.Writer, rendered *models.RenderedPosition, lots bool) error {
	in := rendered.Input
	name := in.Name
	if name == "" {
		name = "Unsaved position"
	}
	fmt.Fprintf(w, "%s: %s at %s per share, %s shares\n",
		name, format.Currency(in.InitialValue), format.Currency(in.PricePerShare),
		format.Number(in.NumberOfSharesInPosition, 2))
	if in.IsBotCandidate {
		fmt.Fprintln(w, in.BotCandidateMessage)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Month", "Value", "Shares", "Lot Size", "Net/Position", "Net/Day", "Daily", "Weekly", "Monthly", "Yearly", "Fees/Month")
	for i, s := range rendered.Scenarios {
		if err := table.Append(
			strconv.Itoa(i+1),
			format.Currency(s.Sizing.Value),
			format.Number(s.Sizing.NumberOfSharesInPosition, 2),
			format.Number(s.Sizing.AverageLotSize, 2),
			format.Currency(s.Profits.NetSinglePosition),
			format.Currency(s.Profits.NetAllPositions),
			format.Currency(s.Gains.GainsDaily),
			format.Currency(s.Gains.GainsWeekly),
			format.Currency(s.Gains.GainsMonthly),
			format.Currency(s.Gains.GainsYearly),
			format.Currency(s.Fees.FeesMonthly),
		); err != nil {
			return fmt.Errorf("failed to append scenario row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	sum := rendered.Summary
	fmt.Fprintf(w, "Total monthly gains %s, average %s, final value %s (%s%%)\n",
		format.Currency(sum.TotalMonthlyGains), format.Currency(sum.AverageMonthlyGains),
		format.Currency(sum.FinalPositionValue), format.Number(sum.GrowthPercent, 2))

	if !lots {
		return nil
	}
	for i, s := range rendered.Scenarios {
		fmt.Fprintf(w, "\nMonth %d lot ladder\n", i+1)
		if err := lotLadder(w, s.Lots); err != nil {
			return err
		}
	}
	return nil
}

func lotLadder(w io.Writer, lots []models.ScenarioLot) error {
	table := tablewriter.NewWriter(w)
	table.Header("Lot", "Shares", "Cost", "Sell Price", "Value", "Gross Profit")
	for i, lot := range lots {
		if err := table.Append(
			strconv.Itoa(i+1),
			format.Number(lot.ShareCount, 2),
			format.Currency(lot.InitialValue),
			format.Currency(lot.SellPrice),
			format.Currency(lot.Value),
			format.Currency(lot.GrossProfit),
		); err != nil {
			return fmt.Errorf("failed to append lot row: %w", err)
		}
	}
	return table.Render()
}
