package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trogers1052/trading-position-modeler/internal/models"
)

const positionInputColumns = `
	id, name, initial_value, price_per_share,
	average_number_of_positions_per_day, average_number_of_lots_per_position,
	average_number_of_trading_days_per_week, estimated_success_rate, target_gain,
	federal_tax_rate, state_tax_rate, expenses, estimated_fee_per_transaction,
	list_position
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ListPositionInputs retrieves position inputs in display order. A non-empty
// filter keeps only names containing it, ignoring case.
func (db *DB) ListPositionInputs(ctx context.Context, filter string) ([]*models.PositionInput, error) {
	query := `SELECT ` + positionInputColumns + `
		FROM position_inputs
		WHERE $1 = '' OR strpos(lower(name), lower($1)) > 0
		ORDER BY list_position ASC, name ASC
	`
	rows, err := db.conn.QueryContext(ctx, query, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query position inputs: %w", err)
	}
	defer rows.Close()

	inputs := []*models.PositionInput{}
	for rows.Next() {
		p, err := scanPositionInput(rows)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate position inputs: %w", err)
	}

	return inputs, nil
}

// GetPositionInputByID retrieves a position input by ID
func (db *DB) GetPositionInputByID(ctx context.Context, id string) (*models.PositionInput, error) {
	query := `SELECT ` + positionInputColumns + ` FROM position_inputs WHERE id = $1`
	return getPositionInput(ctx, db.conn, query, id)
}

// CreatePositionInput inserts a new position input and assigns its ID. A negative
// list position appends it after the last position.
func (db *DB) CreatePositionInput(ctx context.Context, p *models.PositionInput) error {
	query := `
		INSERT INTO position_inputs (
			id, name, initial_value, price_per_share,
			average_number_of_positions_per_day, average_number_of_lots_per_position,
			average_number_of_trading_days_per_week, estimated_success_rate, target_gain,
			federal_tax_rate, state_tax_rate, expenses, estimated_fee_per_transaction,
			list_position, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			CASE WHEN $14::bigint < 0
				THEN (SELECT COALESCE(MAX(list_position), -1) + 1 FROM position_inputs)
				ELSE $14::bigint
			END,
			$15, $15
		)
		RETURNING list_position
	`
	id := uuid.New().String()
	r := p.Record()
	now := time.Now()

	var listPosition int
	err := db.conn.QueryRowContext(ctx, query,
		id, r.Name, r.InitialValue, r.PricePerShare,
		r.AverageNumberOfPositionsPerDay, r.AverageNumberOfLotsPerPosition,
		r.AverageNumberOfTradingDaysPerWeek, r.EstimatedSuccessRate, r.TargetGain,
		r.FederalTaxRate, r.StateTaxRate, r.Expenses, r.EstimatedFeePerTransaction,
		r.ListPosition, now,
	).Scan(&listPosition)
	if err != nil {
		return fmt.Errorf("failed to create position input: %w", err)
	}

	p.SetID(id)
	p.SetListPosition(listPosition)
	return nil
}

// UpdatePositionInput replaces every stored field of an existing position input
func (db *DB) UpdatePositionInput(ctx context.Context, p *models.PositionInput) error {
	return updatePositionInput(ctx, db.conn, p)
}

// PatchPositionInputs applies one patch document to every listed position in a
// single transaction and returns the updated positions
func (db *DB) PatchPositionInputs(ctx context.Context, ids []string, patches []models.Patch) ([]*models.PositionInput, error) {
	return db.applyPatchItems(ctx, []models.MultiPatchItem{{IDs: ids, PatchDocument: patches}})
}

// ReorderPositionInputs applies a list of patch items, typically list position
// replacements, in a single transaction and returns the updated positions
func (db *DB) ReorderPositionInputs(ctx context.Context, items []models.MultiPatchItem) ([]*models.PositionInput, error) {
	return db.applyPatchItems(ctx, items)
}

func (db *DB) applyPatchItems(ctx context.Context, items []models.MultiPatchItem) ([]*models.PositionInput, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + positionInputColumns + ` FROM position_inputs WHERE id = $1 FOR UPDATE`

	var updated []*models.PositionInput
	for _, item := range items {
		for _, id := range item.IDs {
			p, err := getPositionInput(ctx, tx, query, id)
			if err != nil {
				return nil, err
			}
			if err := models.ApplyPatches(p, item.PatchDocument); err != nil {
				return nil, fmt.Errorf("failed to patch position input %s: %w", id, err)
			}
			if err := models.ValidatePatch(p.Record(), item.PatchDocument); err != nil {
				return nil, fmt.Errorf("patched position input %s is invalid: %w", id, err)
			}
			if err := updatePositionInput(ctx, tx, p); err != nil {
				return nil, err
			}
			updated = append(updated, p)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return updated, nil
}

// DeletePositionInput removes a position input by ID
func (db *DB) DeletePositionInput(ctx context.Context, id string) error {
	if !isUUID(id) {
		return fmt.Errorf("position input %w: %s", ErrNotFound, id)
	}
	query := `DELETE FROM position_inputs WHERE id = $1`
	result, err := db.conn.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete position input: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("position input %w: %s", ErrNotFound, id)
	}
	return nil
}

// DeletePositionInputs removes every listed position input and returns the ids
// that were actually deleted
func (db *DB) DeletePositionInputs(ctx context.Context, ids []string) ([]string, error) {
	deleted := []string{}
	if len(ids) == 0 {
		return deleted, nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		if !isUUID(id) {
			continue
		}
		var gone string
		err := tx.QueryRowContext(ctx, `DELETE FROM position_inputs WHERE id = $1 RETURNING id`, id).Scan(&gone)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to delete position input %s: %w", id, err)
		}
		deleted = append(deleted, gone)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return deleted, nil
}

// ReplaceAllPositionInputs replaces the full set of position inputs with a snapshot
func (db *DB) ReplaceAllPositionInputs(ctx context.Context, inputs []*models.PositionInput) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM position_inputs`); err != nil {
		return fmt.Errorf("failed to delete existing position inputs: %w", err)
	}

	query := `
		INSERT INTO position_inputs (` + positionInputColumns + `, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)
	`
	now := time.Now()
	for i, p := range inputs {
		if p.ID() == "" {
			p.SetID(uuid.New().String())
		}
		if p.ListPosition() < 0 {
			p.SetListPosition(i)
		}
		r := p.Record()
		_, err := tx.ExecContext(ctx, query,
			r.ID, r.Name, r.InitialValue, r.PricePerShare,
			r.AverageNumberOfPositionsPerDay, r.AverageNumberOfLotsPerPosition,
			r.AverageNumberOfTradingDaysPerWeek, r.EstimatedSuccessRate, r.TargetGain,
			r.FederalTaxRate, r.StateTaxRate, r.Expenses, r.EstimatedFeePerTransaction,
			r.ListPosition, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert position input %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func updatePositionInput(ctx context.Context, ex execer, p *models.PositionInput) error {
	if !isUUID(p.ID()) {
		return fmt.Errorf("position input %w: %s", ErrNotFound, p.ID())
	}
	query := `
		UPDATE position_inputs SET
			name = $2, initial_value = $3, price_per_share = $4,
			average_number_of_positions_per_day = $5, average_number_of_lots_per_position = $6,
			average_number_of_trading_days_per_week = $7, estimated_success_rate = $8, target_gain = $9,
			federal_tax_rate = $10, state_tax_rate = $11, expenses = $12,
			estimated_fee_per_transaction = $13, list_position = $14, updated_at = $15
		WHERE id = $1
	`
	r := p.Record()
	result, err := ex.ExecContext(ctx, query,
		r.ID, r.Name, r.InitialValue, r.PricePerShare,
		r.AverageNumberOfPositionsPerDay, r.AverageNumberOfLotsPerPosition,
		r.AverageNumberOfTradingDaysPerWeek, r.EstimatedSuccessRate, r.TargetGain,
		r.FederalTaxRate, r.StateTaxRate, r.Expenses, r.EstimatedFeePerTransaction,
		r.ListPosition, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update position input: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("position input %w: %s", ErrNotFound, r.ID)
	}
	return nil
}

// isUUID reports whether id can match the uuid primary key
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func getPositionInput(ctx context.Context, ex execer, query, id string) (*models.PositionInput, error) {
	if !isUUID(id) {
		return nil, fmt.Errorf("position input %w: %s", ErrNotFound, id)
	}
	p, err := scanPositionInput(ex.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("position input %w: %s", ErrNotFound, id)
	}
	return p, err
}

func scanPositionInput(row rowScanner) (*models.PositionInput, error) {
	var r models.PositionInputRecord
	err := row.Scan(
		&r.ID, &r.Name, &r.InitialValue, &r.PricePerShare,
		&r.AverageNumberOfPositionsPerDay, &r.AverageNumberOfLotsPerPosition,
		&r.AverageNumberOfTradingDaysPerWeek, &r.EstimatedSuccessRate, &r.TargetGain,
		&r.FederalTaxRate, &r.StateTaxRate, &r.Expenses, &r.EstimatedFeePerTransaction,
		&r.ListPosition,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan position input: %w", err)
	}
	return models.NewPositionInputFromRecord(r), nil
}
