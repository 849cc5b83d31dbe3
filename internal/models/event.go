package models

import "time"

// Position event type constants
const (
	EventPositionCreated      = "POSITION_CREATED"
	EventPositionUpdated      = "POSITION_UPDATED"
	EventPositionDeleted      = "POSITION_DELETED"
	EventPositionsReordered   = "POSITIONS_REORDERED"
	EventPositionInputsImport = "POSITION_INPUTS_SNAPSHOT"
)

// Notification level constants
const (
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
	NotificationInfo    = "info"
)

// PositionEvent represents a Kafka event for position input changes
type PositionEvent struct {
	EventType string             `json:"event_type"`
	ID        string             `json:"id,omitempty"`
	Position  *PositionInputView `json:"position,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// NotificationEvent carries a user-facing notification
type NotificationEvent struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// PositionInputsEvent is a snapshot of position inputs published by another system
type PositionInputsEvent struct {
	EventType string                  `json:"event_type"`
	Source    string                  `json:"source"`
	Timestamp string                  `json:"timestamp"`
	Data      PositionInputsEventData `json:"data"`
}

// PositionInputsEventData contains the snapshot rows
type PositionInputsEventData struct {
	Positions []PositionInputData `json:"positions"`
}

// PositionInputData is a single snapshot row. Numeric fields are decimal strings.
type PositionInputData struct {
	ID                                string `json:"id"`
	Name                              string `json:"name"`
	InitialValue                      string `json:"initial_value"`
	PricePerShare                     string `json:"price_per_share"`
	AverageNumberOfPositionsPerDay    string `json:"average_number_of_positions_per_day"`
	AverageNumberOfLotsPerPosition    string `json:"average_number_of_lots_per_position"`
	AverageNumberOfTradingDaysPerWeek string `json:"average_number_of_trading_days_per_week"`
	EstimatedSuccessRate              string `json:"estimated_success_rate"`
	TargetGain                        string `json:"target_gain"`
	FederalTaxRate                    string `json:"federal_tax_rate"`
	StateTaxRate                      string `json:"state_tax_rate"`
	Expenses                          string `json:"expenses"`
	EstimatedFeePerTransaction        string `json:"estimated_fee_per_transaction"`
	ListPosition                      int    `json:"list_position"`
}
