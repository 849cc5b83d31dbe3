// Package renderer projects a position input forward into monthly scenarios.
package renderer

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/trogers1052/trading-position-modeler/internal/models"
)

const (
	// NumberOfScenariosToGenerate is the projection horizon in months
	NumberOfScenariosToGenerate = 6

	// AverageNumberOfTradingDaysPerYear is the standard market calendar
	AverageNumberOfTradingDaysPerYear = 253.0

	// AverageNumberOfTradingDaysPerMonth is the standard market calendar spread over 12 months
	AverageNumberOfTradingDaysPerMonth = AverageNumberOfTradingDaysPerYear / 12

	standardTradingDaysPerWeek = 5.0
	weeksPerMonth              = 4.0
	monthsPerYear              = 12.0
)

// Render produces the six monthly scenarios for p. Each scenario starts from the
// previous scenario's position value plus its monthly gains. p is not modified.
func Render(p *models.PositionInput) []models.Scenario {
	scenarios := make([]models.Scenario, 0, NumberOfScenariosToGenerate)

	price := p.PricePerShare()
	lots := p.AverageNumberOfLotsPerPosition()
	lotSharePriceIncrement := price * p.AverageGainPerLot()

	currentPositionValue := p.InitialValue()
	currentNumberOfSharesInPosition := p.NumberOfSharesInPosition()

	for i := 1; i <= NumberOfScenariosToGenerate; i++ {
		sizing := models.NewScenarioSizing(currentPositionValue, currentNumberOfSharesInPosition, lots)

		// every lot starts from the same slice of the position
		initialLotValue := sizing.AverageLotSize * price
		var lotLadder []models.ScenarioLot
		grossSinglePosition := 0.0
		for lotIndex := 1; float64(lotIndex) <= sizing.NumberOfLotsPerPosition; lotIndex++ {
			sellPrice := price + float64(lotIndex)*lotSharePriceIncrement
			lot := models.NewScenarioLot(initialLotValue, sizing.AverageLotSize, sellPrice)
			lotLadder = append(lotLadder, lot)
			grossSinglePosition += lot.GrossProfit
		}

		profits := calculateProfits(p, grossSinglePosition)
		gains := calculateGains(p, profits.NetAllPositions)
		fees := calculateFees(p)

		scenarios = append(scenarios, models.Scenario{
			Sizing:  sizing,
			Profits: profits,
			Gains:   gains,
			Fees:    fees,
			Lots:    lotLadder,
		})

		currentPositionValue += gains.GainsMonthly
		currentNumberOfSharesInPosition = sharesAt(currentPositionValue, price)
	}

	return scenarios
}

// RenderPosition renders p and bundles the scenarios with the input and a summary
func RenderPosition(p *models.PositionInput) *models.RenderedPosition {
	scenarios := Render(p)
	return &models.RenderedPosition{
		Input:     p.View(),
		Scenarios: scenarios,
		Summary:   Summarize(scenarios),
	}
}

// Summarize aggregates the monthly gains of a scenario sequence
func Summarize(scenarios []models.Scenario) models.ProjectionSummary {
	if len(scenarios) == 0 {
		return models.ProjectionSummary{}
	}

	monthly := make([]float64, len(scenarios))
	for i, s := range scenarios {
		monthly[i] = s.Gains.GainsMonthly
	}

	first := scenarios[0]
	last := scenarios[len(scenarios)-1]
	summary := models.ProjectionSummary{
		TotalMonthlyGains:   floats.Sum(monthly),
		AverageMonthlyGains: stat.Mean(monthly, nil),
		FinalPositionValue:  last.Sizing.Value + last.Gains.GainsMonthly,
	}
	if first.Sizing.Value != 0 {
		summary.GrowthPercent = (summary.FinalPositionValue - first.Sizing.Value) / first.Sizing.Value * 100
	}
	return summary
}

func calculateProfits(p *models.PositionInput, grossSinglePosition float64) models.ScenarioProfits {
	fee := p.EstimatedFeePerTransaction()
	adjusted := grossSinglePosition * p.EstimatedSuccessRate()

	// one entry fee plus one exit fee per lot
	net := adjusted*(1-p.EffectiveTaxRate()) - (fee + fee*p.AverageNumberOfLotsPerPosition())

	return models.ScenarioProfits{
		GrossSinglePosition:         grossSinglePosition,
		AdjustedGrossSinglePosition: adjusted,
		NetSinglePosition:           net,
		NetAllPositions:             net * p.AverageNumberOfPositionsPerDay(),
	}
}

func calculateGains(p *models.PositionInput, daily float64) models.ScenarioGains {
	daysPerWeek := p.AverageNumberOfTradingDaysPerWeek()
	monthly, yearly := scaleToCalendar(daily, daysPerWeek)
	expenses := p.Expenses()

	return models.ScenarioGains{
		GainsDaily:   daily,
		GainsWeekly:  daily * daysPerWeek,
		GainsMonthly: monthly - expenses,
		GainsYearly:  yearly - monthsPerYear*expenses,
	}
}

func calculateFees(p *models.PositionInput) models.ScenarioFees {
	singleDaily := (1 + p.AverageNumberOfLotsPerPosition()) * p.EstimatedFeePerTransaction()
	allDaily := singleDaily * p.AverageNumberOfPositionsPerDay()
	daysPerWeek := p.AverageNumberOfTradingDaysPerWeek()
	monthly, yearly := scaleToCalendar(allDaily, daysPerWeek)

	return models.ScenarioFees{
		FeesSinglePositionDaily: singleDaily,
		FeesAllPositionsDaily:   allDaily,
		FeesWeekly:              allDaily * daysPerWeek,
		FeesMonthly:             monthly,
		FeesYearly:              yearly,
	}
}

// scaleToCalendar projects a daily amount to monthly and yearly totals. A five day
// week uses the market calendar; any other width uses 4 weeks per month.
func scaleToCalendar(daily, daysPerWeek float64) (monthly, yearly float64) {
	if daysPerWeek == standardTradingDaysPerWeek {
		return daily * AverageNumberOfTradingDaysPerMonth, daily * AverageNumberOfTradingDaysPerYear
	}
	return daily * (weeksPerMonth * daysPerWeek), daily * (monthsPerYear * weeksPerMonth * daysPerWeek)
}

// sharesAt returns the share count a position value buys. Non-positive prices
// yield zero shares, matching PositionInput.
func sharesAt(value, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return value / price
}
