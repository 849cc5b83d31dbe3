package models

// ScenarioSizing describes the size of the position at the start of a scenario
type ScenarioSizing struct {
	Value                    float64 `json:"value"`
	NumberOfSharesInPosition float64 `json:"numberOfSharesInPosition"`
	NumberOfLotsPerPosition  float64 `json:"numberOfLotsPerPosition"`
	AverageLotSize           float64 `json:"averageLotSize"`
}

// NewScenarioSizing builds a sizing record. Non-positive lot counts fall back to 1.
func NewScenarioSizing(value, shares, lots float64) ScenarioSizing {
	lots = clampLots(lots)
	return ScenarioSizing{
		Value:                    value,
		NumberOfSharesInPosition: shares,
		NumberOfLotsPerPosition:  lots,
		AverageLotSize:           shares / lots,
	}
}

// ScenarioProfits holds per-position and all-positions daily profits
type ScenarioProfits struct {
	GrossSinglePosition         float64 `json:"grossSinglePosition"`
	AdjustedGrossSinglePosition float64 `json:"adjustedGrossSinglePosition"`
	NetSinglePosition           float64 `json:"netSinglePosition"`
	NetAllPositions             float64 `json:"netAllPositions"`
}

// ScenarioGains holds net gains across time windows, monthly and yearly net of expenses
type ScenarioGains struct {
	GainsDaily   float64 `json:"gainsDaily"`
	GainsWeekly  float64 `json:"gainsWeekly"`
	GainsMonthly float64 `json:"gainsMonthly"`
	GainsYearly  float64 `json:"gainsYearly"`
}

// ScenarioFees holds transaction fees across time windows
type ScenarioFees struct {
	FeesSinglePositionDaily float64 `json:"feesSinglePositionDaily"`
	FeesAllPositionsDaily   float64 `json:"feesAllPositionsDaily"`
	FeesWeekly              float64 `json:"feesWeekly"`
	FeesMonthly             float64 `json:"feesMonthly"`
	FeesYearly              float64 `json:"feesYearly"`
}

// ScenarioLot is one rung of the lot ladder a position is scaled out of
type ScenarioLot struct {
	InitialValue float64 `json:"initialValue"`
	ShareCount   float64 `json:"shareCount"`
	SellPrice    float64 `json:"sellPrice"`
	Value        float64 `json:"value"`
	GrossProfit  float64 `json:"grossProfit"`
}

// NewScenarioLot builds a lot and its resulting value and gross profit
func NewScenarioLot(initialValue, shareCount, sellPrice float64) ScenarioLot {
	value := shareCount * sellPrice
	return ScenarioLot{
		InitialValue: initialValue,
		ShareCount:   shareCount,
		SellPrice:    sellPrice,
		Value:        value,
		GrossProfit:  value - initialValue,
	}
}

// Scenario is one simulated month's projected outcome for a position
type Scenario struct {
	Sizing  ScenarioSizing  `json:"sizing"`
	Profits ScenarioProfits `json:"profits"`
	Gains   ScenarioGains   `json:"gains"`
	Fees    ScenarioFees    `json:"fees"`
	Lots    []ScenarioLot   `json:"lots"`
}

// ProjectionSummary aggregates a rendered scenario sequence
type ProjectionSummary struct {
	TotalMonthlyGains   float64 `json:"totalMonthlyGains"`
	AverageMonthlyGains float64 `json:"averageMonthlyGains"`
	FinalPositionValue  float64 `json:"finalPositionValue"`
	GrowthPercent       float64 `json:"growthPercent"`
}

// RenderedPosition is a position input together with its rendered scenarios
type RenderedPosition struct {
	Input     PositionInputView `json:"input"`
	Scenarios []Scenario        `json:"scenarios"`
	Summary   ProjectionSummary `json:"summary"`
}
