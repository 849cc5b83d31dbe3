package models

import (
	"encoding/json"
	"strconv"
)

// Position input defaults used when a new position is modeled from scratch
const (
	DefaultFederalTaxRate                    = 0.37
	DefaultStateTaxRate                      = 0.069
	DefaultInitialValue                      = 0.0
	DefaultPricePerShare                     = 0.0
	DefaultTargetGain                        = 0.10
	DefaultAverageNumberOfPositionsPerDay    = 1.0
	DefaultAverageNumberOfLotsPerPosition    = 1.0
	DefaultAverageNumberOfTradingDaysPerWeek = 5.0
	DefaultExpenses                          = 0.0
	DefaultEstimatedFeePerTransaction        = 10.0
	DefaultEstimatedSuccessRate              = 0.75
	DefaultListPosition                      = -1

	// MaxHumanTradesPerDay is the ask count above which a model is flagged as a bot candidate
	MaxHumanTradesPerDay = 15.0
)

// PositionInputRecord is the stored shape of a position input. It is what the
// repository persists and what clients send over the wire.
type PositionInputRecord struct {
	ID                                string  `json:"id"`
	Name                              string  `json:"name"`
	InitialValue                      float64 `json:"initialValue"`
	PricePerShare                     float64 `json:"pricePerShare"`
	AverageNumberOfPositionsPerDay    float64 `json:"averageNumberOfPositionsPerDay"`
	AverageNumberOfLotsPerPosition    float64 `json:"averageNumberOfLotsPerPosition"`
	AverageNumberOfTradingDaysPerWeek float64 `json:"averageNumberOfTradingDaysPerWeek"`
	EstimatedSuccessRate              float64 `json:"estimatedSuccessRate"`
	TargetGain                        float64 `json:"targetGain"`
	FederalTaxRate                    float64 `json:"federalTaxRate"`
	StateTaxRate                      float64 `json:"stateTaxRate"`
	Expenses                          float64 `json:"expenses"`
	EstimatedFeePerTransaction        float64 `json:"estimatedFeePerTransaction"`
	ListPosition                      int     `json:"listPosition"`
}

// PositionInputView is a record plus its derived fields, as returned by the API
type PositionInputView struct {
	PositionInputRecord
	NumberOfSharesInPosition    float64 `json:"numberOfSharesInPosition"`
	AverageNumberOfSharesPerLot float64 `json:"averageNumberOfSharesPerLot"`
	AverageLotSize              float64 `json:"averageLotSize"`
	TotalNumberOfAsks           float64 `json:"totalNumberOfAsks"`
	AdjustedNumbersOfAsks       float64 `json:"adjustedNumbersOfAsks"`
	AverageGainPerLot           float64 `json:"averageGainPerLot"`
	EffectiveTaxRate            float64 `json:"effectiveTaxRate"`
	IsBotCandidate              bool    `json:"isBotCandidate"`
	BotCandidateMessage         string  `json:"botCandidateMessage"`
}

// PositionInput is a position's configuration with derived fields that are kept
// consistent with the stored fields after every setter call.
type PositionInput struct {
	id           string
	name         string
	listPosition int

	initialValue                      float64
	pricePerShare                     float64
	averageNumberOfPositionsPerDay    float64
	averageNumberOfLotsPerPosition    float64
	averageNumberOfTradingDaysPerWeek float64
	estimatedSuccessRate              float64
	targetGain                        float64
	federalTaxRate                    float64
	stateTaxRate                      float64
	expenses                          float64
	estimatedFeePerTransaction        float64

	// derived
	numberOfSharesInPosition    float64
	averageNumberOfSharesPerLot float64
	averageLotSize              float64
	totalNumberOfAsks           float64
	adjustedNumbersOfAsks       float64
	averageGainPerLot           float64
	effectiveTaxRate            float64
	isBotCandidate              bool
	botCandidateMessage         string
}

// NewPositionInput creates a position input populated with the modeling defaults
func NewPositionInput() *PositionInput {
	return NewPositionInputFromRecord(DefaultPositionInputRecord())
}

// DefaultPositionInputRecord returns the record a brand new position starts from
func DefaultPositionInputRecord() PositionInputRecord {
	return PositionInputRecord{
		InitialValue:                      DefaultInitialValue,
		PricePerShare:                     DefaultPricePerShare,
		AverageNumberOfPositionsPerDay:    DefaultAverageNumberOfPositionsPerDay,
		AverageNumberOfLotsPerPosition:    DefaultAverageNumberOfLotsPerPosition,
		AverageNumberOfTradingDaysPerWeek: DefaultAverageNumberOfTradingDaysPerWeek,
		EstimatedSuccessRate:              DefaultEstimatedSuccessRate,
		TargetGain:                        DefaultTargetGain,
		FederalTaxRate:                    DefaultFederalTaxRate,
		StateTaxRate:                      DefaultStateTaxRate,
		Expenses:                          DefaultExpenses,
		EstimatedFeePerTransaction:        DefaultEstimatedFeePerTransaction,
		ListPosition:                      DefaultListPosition,
	}
}

// NewPositionInputFromRecord builds a position input from a persisted record.
// Values pass through the same clamping the setters apply.
func NewPositionInputFromRecord(r PositionInputRecord) *PositionInput {
	p := &PositionInput{
		id:                                r.ID,
		name:                              r.Name,
		listPosition:                      r.ListPosition,
		initialValue:                      r.InitialValue,
		pricePerShare:                     r.PricePerShare,
		averageNumberOfPositionsPerDay:    r.AverageNumberOfPositionsPerDay,
		averageNumberOfLotsPerPosition:    clampLots(r.AverageNumberOfLotsPerPosition),
		averageNumberOfTradingDaysPerWeek: r.AverageNumberOfTradingDaysPerWeek,
		estimatedSuccessRate:              r.EstimatedSuccessRate,
		targetGain:                        r.TargetGain,
		federalTaxRate:                    r.FederalTaxRate,
		stateTaxRate:                      r.StateTaxRate,
		expenses:                          r.Expenses,
		estimatedFeePerTransaction:        r.EstimatedFeePerTransaction,
	}
	p.recalculate()
	return p
}

// Record returns the stored fields of the position input
func (p *PositionInput) Record() PositionInputRecord {
	return PositionInputRecord{
		ID:                                p.id,
		Name:                              p.name,
		InitialValue:                      p.initialValue,
		PricePerShare:                     p.pricePerShare,
		AverageNumberOfPositionsPerDay:    p.averageNumberOfPositionsPerDay,
		AverageNumberOfLotsPerPosition:    p.averageNumberOfLotsPerPosition,
		AverageNumberOfTradingDaysPerWeek: p.averageNumberOfTradingDaysPerWeek,
		EstimatedSuccessRate:              p.estimatedSuccessRate,
		TargetGain:                        p.targetGain,
		FederalTaxRate:                    p.federalTaxRate,
		StateTaxRate:                      p.stateTaxRate,
		Expenses:                          p.expenses,
		EstimatedFeePerTransaction:        p.estimatedFeePerTransaction,
		ListPosition:                      p.listPosition,
	}
}

// View returns the stored and derived fields of the position input
func (p *PositionInput) View() PositionInputView {
	return PositionInputView{
		PositionInputRecord:         p.Record(),
		NumberOfSharesInPosition:    p.numberOfSharesInPosition,
		AverageNumberOfSharesPerLot: p.averageNumberOfSharesPerLot,
		AverageLotSize:              p.averageLotSize,
		TotalNumberOfAsks:           p.totalNumberOfAsks,
		AdjustedNumbersOfAsks:       p.adjustedNumbersOfAsks,
		AverageGainPerLot:           p.averageGainPerLot,
		EffectiveTaxRate:            p.effectiveTaxRate,
		IsBotCandidate:              p.isBotCandidate,
		BotCandidateMessage:         p.botCandidateMessage,
	}
}

// MarshalJSON encodes the position input with its derived fields
func (p *PositionInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.View())
}

// UnmarshalJSON decodes the stored fields and recomputes the derived ones.
// Derived fields present in the payload are ignored.
func (p *PositionInput) UnmarshalJSON(data []byte) error {
	r := DefaultPositionInputRecord()
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*p = *NewPositionInputFromRecord(r)
	return nil
}

// Clone returns an independent copy of the position input
func (p *PositionInput) Clone() *PositionInput {
	c := *p
	return &c
}

func (p *PositionInput) ID() string             { return p.id }
func (p *PositionInput) Name() string           { return p.name }
func (p *PositionInput) ListPosition() int      { return p.listPosition }
func (p *PositionInput) InitialValue() float64  { return p.initialValue }
func (p *PositionInput) PricePerShare() float64 { return p.pricePerShare }
func (p *PositionInput) AverageNumberOfPositionsPerDay() float64 {
	return p.averageNumberOfPositionsPerDay
}
func (p *PositionInput) AverageNumberOfLotsPerPosition() float64 {
	return p.averageNumberOfLotsPerPosition
}
func (p *PositionInput) AverageNumberOfTradingDaysPerWeek() float64 {
	return p.averageNumberOfTradingDaysPerWeek
}
func (p *PositionInput) EstimatedSuccessRate() float64       { return p.estimatedSuccessRate }
func (p *PositionInput) TargetGain() float64                 { return p.targetGain }
func (p *PositionInput) FederalTaxRate() float64             { return p.federalTaxRate }
func (p *PositionInput) StateTaxRate() float64               { return p.stateTaxRate }
func (p *PositionInput) Expenses() float64                   { return p.expenses }
func (p *PositionInput) EstimatedFeePerTransaction() float64 { return p.estimatedFeePerTransaction }

func (p *PositionInput) NumberOfSharesInPosition() float64    { return p.numberOfSharesInPosition }
func (p *PositionInput) AverageNumberOfSharesPerLot() float64 { return p.averageNumberOfSharesPerLot }
func (p *PositionInput) AverageLotSize() float64              { return p.averageLotSize }
func (p *PositionInput) TotalNumberOfAsks() float64           { return p.totalNumberOfAsks }
func (p *PositionInput) AdjustedNumbersOfAsks() float64       { return p.adjustedNumbersOfAsks }
func (p *PositionInput) AverageGainPerLot() float64           { return p.averageGainPerLot }
func (p *PositionInput) EffectiveTaxRate() float64            { return p.effectiveTaxRate }
func (p *PositionInput) IsBotCandidate() bool                 { return p.isBotCandidate }
func (p *PositionInput) BotCandidateMessage() string          { return p.botCandidateMessage }

// SetID sets the identifier assigned by the store
func (p *PositionInput) SetID(id string) { p.id = id }

// SetName sets the display name
func (p *PositionInput) SetName(name string) { p.name = name }

// SetListPosition sets the sort position used for display ordering
func (p *PositionInput) SetListPosition(pos int) { p.listPosition = pos }

// SetInitialValue sets the dollar value of the position
func (p *PositionInput) SetInitialValue(v float64) {
	p.initialValue = v
	p.recalculate()
}

// SetPricePerShare sets the share price. A non-positive price yields zero shares.
func (p *PositionInput) SetPricePerShare(v float64) {
	p.pricePerShare = v
	p.recalculate()
}

// SetAverageNumberOfPositionsPerDay sets how many positions are opened per day
func (p *PositionInput) SetAverageNumberOfPositionsPerDay(v float64) {
	p.averageNumberOfPositionsPerDay = v
	p.recalculate()
}

// SetAverageNumberOfLotsPerPosition sets the lot count. Values <= 0 become 1.
func (p *PositionInput) SetAverageNumberOfLotsPerPosition(v float64) {
	p.averageNumberOfLotsPerPosition = clampLots(v)
	p.recalculate()
}

// SetAverageNumberOfTradingDaysPerWeek sets the trading calendar width
func (p *PositionInput) SetAverageNumberOfTradingDaysPerWeek(v float64) {
	p.averageNumberOfTradingDaysPerWeek = v
	p.recalculate()
}

// SetEstimatedSuccessRate sets the share of asks expected to fill
func (p *PositionInput) SetEstimatedSuccessRate(v float64) {
	p.estimatedSuccessRate = v
	p.recalculate()
}

// SetTargetGain sets the overall target gain window
func (p *PositionInput) SetTargetGain(v float64) {
	p.targetGain = v
	p.recalculate()
}

// SetFederalTaxRate sets the federal tax rate
func (p *PositionInput) SetFederalTaxRate(v float64) {
	p.federalTaxRate = v
	p.recalculate()
}

// SetStateTaxRate sets the state tax rate
func (p *PositionInput) SetStateTaxRate(v float64) {
	p.stateTaxRate = v
	p.recalculate()
}

// SetExpenses sets the flat monthly expenses
func (p *PositionInput) SetExpenses(v float64) { p.expenses = v }

// SetEstimatedFeePerTransaction sets the fee charged per entry or exit
func (p *PositionInput) SetEstimatedFeePerTransaction(v float64) { p.estimatedFeePerTransaction = v }

// recalculate rebuilds every derived field from the stored fields, in dependency order
func (p *PositionInput) recalculate() {
	lots := p.averageNumberOfLotsPerPosition

	if p.pricePerShare > 0 {
		p.numberOfSharesInPosition = p.initialValue / p.pricePerShare
	} else {
		p.numberOfSharesInPosition = 0
	}
	p.averageNumberOfSharesPerLot = p.numberOfSharesInPosition / lots
	p.averageLotSize = p.numberOfSharesInPosition / lots

	p.totalNumberOfAsks = p.averageNumberOfPositionsPerDay * lots
	p.adjustedNumbersOfAsks = p.totalNumberOfAsks * p.estimatedSuccessRate
	p.averageGainPerLot = p.targetGain / lots
	p.effectiveTaxRate = p.federalTaxRate + p.stateTaxRate

	p.isBotCandidate, p.botCandidateMessage = botCandidateStatus(p.totalNumberOfAsks, p.averageNumberOfTradingDaysPerWeek)
}

func clampLots(v float64) float64 {
	if v > 0 {
		return v
	}
	return DefaultAverageNumberOfLotsPerPosition
}

// botCandidateStatus flags models whose trade frequency exceeds manual execution capacity
func botCandidateStatus(totalAsks, tradingDaysPerWeek float64) (bool, string) {
	var asks, days string
	if totalAsks > MaxHumanTradesPerDay {
		asks = "'Total # Asks All Positions / Day' (" + formatNumber(totalAsks) +
			" > ~max human trades / day " + formatNumber(MaxHumanTradesPerDay) + ")"
	}
	if tradingDaysPerWeek > DefaultAverageNumberOfTradingDaysPerWeek {
		days = "'Average # Trading Days / Week' (" + formatNumber(tradingDaysPerWeek) + ")"
	}

	var reason string
	switch {
	case asks != "" && days != "":
		reason = asks + " and " + days
	case asks != "":
		reason = asks
	default:
		reason = days
	}

	if reason == "" {
		return false, ""
	}
	return true, "Candidate for trading bot; see " + reason + " for this model."
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
