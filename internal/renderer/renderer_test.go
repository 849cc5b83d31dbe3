package renderer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/trading-position-modeler/internal/models"
)

func baselineInput() *models.PositionInput {
	return models.NewPositionInputFromRecord(models.PositionInputRecord{
		Name:                              "Baseline",
		InitialValue:                      10000,
		PricePerShare:                     100,
		AverageNumberOfPositionsPerDay:    1,
		AverageNumberOfLotsPerPosition:    1,
		AverageNumberOfTradingDaysPerWeek: 5,
		EstimatedSuccessRate:              1.0,
		TargetGain:                        0.10,
	})
}

func ladderInput() *models.PositionInput {
	return models.NewPositionInputFromRecord(models.PositionInputRecord{
		Name:                              "Ladder",
		InitialValue:                      25000,
		PricePerShare:                     40,
		AverageNumberOfPositionsPerDay:    3,
		AverageNumberOfLotsPerPosition:    4,
		AverageNumberOfTradingDaysPerWeek: 5,
		EstimatedSuccessRate:              0.75,
		TargetGain:                        0.08,
		FederalTaxRate:                    0.22,
		StateTaxRate:                      0.05,
		Expenses:                          1500,
		EstimatedFeePerTransaction:        1.5,
	})
}

func TestRender_ConcreteScenario(t *testing.T) {
	scenarios := Render(baselineInput())
	require.Len(t, scenarios, NumberOfScenariosToGenerate)

	s := scenarios[0]
	assert.Equal(t, 10000.0, s.Sizing.Value)
	assert.Equal(t, 100.0, s.Sizing.NumberOfSharesInPosition)
	assert.Equal(t, 1.0, s.Sizing.NumberOfLotsPerPosition)
	assert.Equal(t, 100.0, s.Sizing.AverageLotSize)

	require.Len(t, s.Lots, 1)
	lot := s.Lots[0]
	assert.InDelta(t, 10000.0, lot.InitialValue, 1e-9)
	assert.InDelta(t, 110.0, lot.SellPrice, 1e-9)
	assert.InDelta(t, 11000.0, lot.Value, 1e-9)
	assert.InDelta(t, 1000.0, lot.GrossProfit, 1e-9)

	assert.InDelta(t, 1000.0, s.Profits.GrossSinglePosition, 1e-9)
	assert.InDelta(t, 1000.0, s.Profits.AdjustedGrossSinglePosition, 1e-9)
	assert.InDelta(t, 1000.0, s.Profits.NetSinglePosition, 1e-9)
	assert.InDelta(t, 1000.0, s.Profits.NetAllPositions, 1e-9)

	assert.InDelta(t, 1000.0, s.Gains.GainsDaily, 1e-9)
	assert.InDelta(t, 5000.0, s.Gains.GainsWeekly, 1e-9)
	assert.InDelta(t, 21083.3333333, s.Gains.GainsMonthly, 1e-6)
	assert.InDelta(t, 253000.0, s.Gains.GainsYearly, 1e-6)

	assert.Equal(t, models.ScenarioFees{}, s.Fees)
}

func TestRender_AlwaysSixScenarios(t *testing.T) {
	for _, lots := range []float64{1, 2, 7, 100} {
		for _, days := range []float64{1, 3, 5, 7} {
			p := ladderInput()
			p.SetAverageNumberOfLotsPerPosition(lots)
			p.SetAverageNumberOfTradingDaysPerWeek(days)

			scenarios := Render(p)
			assert.Len(t, scenarios, 6, "lots=%v days=%v", lots, days)
			for _, s := range scenarios {
				assert.Len(t, s.Lots, int(lots))
			}
		}
	}
}

func TestRender_LotLadder(t *testing.T) {
	p := ladderInput()
	s := Render(p)[0]

	require.Len(t, s.Lots, 4)
	increment := p.PricePerShare() * p.AverageGainPerLot()
	for i, lot := range s.Lots {
		assert.Equal(t, s.Sizing.AverageLotSize, lot.ShareCount)
		assert.Equal(t, s.Lots[0].InitialValue, lot.InitialValue)
		assert.InDelta(t, p.PricePerShare()+float64(i+1)*increment, lot.SellPrice, 1e-9)
		if i > 0 {
			assert.Greater(t, lot.SellPrice, s.Lots[i-1].SellPrice)
		}
	}
}

func TestRender_GrossIsSumOfLots(t *testing.T) {
	for _, s := range Render(ladderInput()) {
		sum := 0.0
		for _, lot := range s.Lots {
			sum += lot.GrossProfit
		}
		assert.Equal(t, s.Profits.GrossSinglePosition, sum)
	}
}

func TestRender_AdjustedGross(t *testing.T) {
	p := ladderInput()
	for _, s := range Render(p) {
		assert.Equal(t, s.Profits.GrossSinglePosition*p.EstimatedSuccessRate(), s.Profits.AdjustedGrossSinglePosition)
	}
}

func TestRender_NetAndFees(t *testing.T) {
	p := ladderInput()
	s := Render(p)[0]

	wantNet := s.Profits.AdjustedGrossSinglePosition*(1-0.27) - 1.5*(1+4)
	assert.InDelta(t, wantNet, s.Profits.NetSinglePosition, 1e-9)
	assert.InDelta(t, wantNet*3, s.Profits.NetAllPositions, 1e-9)

	assert.InDelta(t, 7.5, s.Fees.FeesSinglePositionDaily, 1e-12)
	assert.InDelta(t, 22.5, s.Fees.FeesAllPositionsDaily, 1e-12)
	assert.InDelta(t, 112.5, s.Fees.FeesWeekly, 1e-12)
	assert.InDelta(t, 22.5*253/12, s.Fees.FeesMonthly, 1e-9)
	assert.InDelta(t, 22.5*253, s.Fees.FeesYearly, 1e-9)
}

func TestRender_NonStandardCalendar(t *testing.T) {
	p := ladderInput()
	p.SetAverageNumberOfTradingDaysPerWeek(7)
	s := Render(p)[0]

	daily := s.Gains.GainsDaily
	assert.InDelta(t, daily*7, s.Gains.GainsWeekly, 1e-9)
	assert.InDelta(t, daily*28-1500, s.Gains.GainsMonthly, 1e-9)
	assert.InDelta(t, daily*336-12*1500, s.Gains.GainsYearly, 1e-9)

	assert.InDelta(t, s.Fees.FeesAllPositionsDaily*28, s.Fees.FeesMonthly, 1e-9)
	assert.InDelta(t, s.Fees.FeesAllPositionsDaily*336, s.Fees.FeesYearly, 1e-9)
}

func TestRender_Compounding(t *testing.T) {
	p := ladderInput()
	scenarios := Render(p)

	for i := 1; i < len(scenarios); i++ {
		prev := scenarios[i-1]
		cur := scenarios[i]
		assert.Equal(t, prev.Sizing.Value+prev.Gains.GainsMonthly, cur.Sizing.Value)
		assert.Equal(t, cur.Sizing.Value/p.PricePerShare(), cur.Sizing.NumberOfSharesInPosition)
		assert.Greater(t, cur.Sizing.Value, prev.Sizing.Value)
	}
}

func TestRender_Idempotent(t *testing.T) {
	p := ladderInput()
	first := Render(p)
	second := Render(p)

	assert.Equal(t, first, second)

	// results do not share storage
	first[0].Lots[0].SellPrice = -1
	assert.NotEqual(t, first[0].Lots[0].SellPrice, second[0].Lots[0].SellPrice)
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	p := ladderInput()
	before := p.View()
	Render(p)
	assert.Equal(t, before, p.View())
}

func TestRender_ZeroPrice(t *testing.T) {
	p := baselineInput()
	p.SetPricePerShare(0)

	scenarios := Render(p)
	require.Len(t, scenarios, 6)

	for _, s := range scenarios {
		assert.Equal(t, 0.0, s.Sizing.NumberOfSharesInPosition)
		assert.False(t, math.IsNaN(s.Sizing.Value))
		assert.False(t, math.IsInf(s.Sizing.Value, 0))
		for _, lot := range s.Lots {
			assert.False(t, math.IsNaN(lot.GrossProfit))
		}
	}
	// no shares, no fees: the value carries forward unchanged
	assert.Equal(t, 10000.0, scenarios[5].Sizing.Value)
}

func TestRender_ExpensesCanShrinkPosition(t *testing.T) {
	p := baselineInput()
	p.SetTargetGain(0)
	p.SetExpenses(500)

	scenarios := Render(p)
	assert.InDelta(t, 10000-500*5, scenarios[5].Sizing.Value, 1e-9)
	assert.InDelta(t, (10000-500*5)/100.0, scenarios[5].Sizing.NumberOfSharesInPosition, 1e-9)
}

func TestRenderPosition(t *testing.T) {
	p := baselineInput()
	rendered := RenderPosition(p)

	assert.Equal(t, p.View(), rendered.Input)
	assert.Len(t, rendered.Scenarios, 6)

	total := 0.0
	for _, s := range rendered.Scenarios {
		total += s.Gains.GainsMonthly
	}
	last := rendered.Scenarios[5]
	assert.InDelta(t, total, rendered.Summary.TotalMonthlyGains, 1e-6)
	assert.InDelta(t, total/6, rendered.Summary.AverageMonthlyGains, 1e-6)
	assert.InDelta(t, last.Sizing.Value+last.Gains.GainsMonthly, rendered.Summary.FinalPositionValue, 1e-9)
	assert.InDelta(t, (rendered.Summary.FinalPositionValue-10000)/10000*100, rendered.Summary.GrowthPercent, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, models.ProjectionSummary{}, Summarize(nil))
}
