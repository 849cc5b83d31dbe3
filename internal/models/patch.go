package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Patch operation constants (RFC 6902)
const (
	PatchOpAdd     = "add"
	PatchOpRemove  = "remove"
	PatchOpReplace = "replace"
	PatchOpMove    = "move"
	PatchOpCopy    = "copy"
	PatchOpTest    = "test"
)

// MaxListPosition bounds list positions to integers a JSON number carries exactly
const MaxListPosition = 1<<53 - 1

// ErrInvalidPatch is returned when a patch cannot be applied to a position input
var ErrInvalidPatch = errors.New("invalid patch")

// Patch is a single JSON-Patch operation against a position input field
type Patch struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MultiPatchItem applies one patch document to a set of positions
type MultiPatchItem struct {
	IDs           []string `json:"ids"`
	PatchDocument []Patch  `json:"patchDocument"`
}

// NewReplacePatch builds a replace operation for path
func NewReplacePatch(path string, value interface{}) Patch {
	raw, _ := json.Marshal(value)
	return Patch{Op: PatchOpReplace, Path: path, Value: raw}
}

// NewReorderItems builds the patch items that move ids to their index in the slice
func NewReorderItems(ids []string) []MultiPatchItem {
	items := make([]MultiPatchItem, 0, len(ids))
	for i, id := range ids {
		items = append(items, MultiPatchItem{
			IDs:           []string{id},
			PatchDocument: []Patch{NewReplacePatch("/listPosition", i)},
		})
	}
	return items
}

type numberField struct {
	get func(p *PositionInput) float64
	set func(p *PositionInput, v float64)
}

var numberFields = map[string]numberField{
	"/initialValue":                      {(*PositionInput).InitialValue, (*PositionInput).SetInitialValue},
	"/pricePerShare":                     {(*PositionInput).PricePerShare, (*PositionInput).SetPricePerShare},
	"/averageNumberOfPositionsPerDay":    {(*PositionInput).AverageNumberOfPositionsPerDay, (*PositionInput).SetAverageNumberOfPositionsPerDay},
	"/averageNumberOfLotsPerPosition":    {(*PositionInput).AverageNumberOfLotsPerPosition, (*PositionInput).SetAverageNumberOfLotsPerPosition},
	"/averageNumberOfTradingDaysPerWeek": {(*PositionInput).AverageNumberOfTradingDaysPerWeek, (*PositionInput).SetAverageNumberOfTradingDaysPerWeek},
	"/estimatedSuccessRate":              {(*PositionInput).EstimatedSuccessRate, (*PositionInput).SetEstimatedSuccessRate},
	"/targetGain":                        {(*PositionInput).TargetGain, (*PositionInput).SetTargetGain},
	"/federalTaxRate":                    {(*PositionInput).FederalTaxRate, (*PositionInput).SetFederalTaxRate},
	"/stateTaxRate":                      {(*PositionInput).StateTaxRate, (*PositionInput).SetStateTaxRate},
	"/expenses":                          {(*PositionInput).Expenses, (*PositionInput).SetExpenses},
	"/estimatedFeePerTransaction":        {(*PositionInput).EstimatedFeePerTransaction, (*PositionInput).SetEstimatedFeePerTransaction},
}

// ApplyPatches applies a patch document to p through its setters. The position
// is left untouched if any operation fails.
func ApplyPatches(p *PositionInput, patches []Patch) error {
	work := p.Clone()
	for _, patch := range patches {
		if err := applyPatch(work, patch); err != nil {
			return err
		}
	}
	*p = *work
	return nil
}

func applyPatch(p *PositionInput, patch Patch) error {
	switch patch.Op {
	case PatchOpAdd, PatchOpReplace:
		return setPath(p, patch.Path, patch.Value)
	case PatchOpTest:
		return testPath(p, patch.Path, patch.Value)
	case PatchOpRemove, PatchOpMove, PatchOpCopy:
		return fmt.Errorf("%w: operation %q is not supported on position inputs", ErrInvalidPatch, patch.Op)
	default:
		return fmt.Errorf("%w: unknown operation %q", ErrInvalidPatch, patch.Op)
	}
}

func setPath(p *PositionInput, path string, raw json.RawMessage) error {
	switch path {
	case "/name":
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return fmt.Errorf("%w: %s expects a string", ErrInvalidPatch, path)
		}
		p.SetName(name)
		return nil
	case "/listPosition":
		v, err := decodeNumber(path, raw)
		if err != nil {
			return err
		}
		if v != math.Trunc(v) {
			return fmt.Errorf("%w: %s expects an integer", ErrInvalidPatch, path)
		}
		if math.Abs(v) > MaxListPosition {
			return fmt.Errorf("%w: %s is out of range", ErrInvalidPatch, path)
		}
		p.SetListPosition(int(v))
		return nil
	case "/id":
		return fmt.Errorf("%w: %s is immutable", ErrInvalidPatch, path)
	}

	field, ok := numberFields[path]
	if !ok {
		return fmt.Errorf("%w: unknown path %q", ErrInvalidPatch, path)
	}
	v, err := decodeNumber(path, raw)
	if err != nil {
		return err
	}
	field.set(p, v)
	return nil
}

func testPath(p *PositionInput, path string, raw json.RawMessage) error {
	var matches bool
	switch path {
	case "/id", "/name":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("%w: %s expects a string", ErrInvalidPatch, path)
		}
		if path == "/id" {
			matches = s == p.ID()
		} else {
			matches = s == p.Name()
		}
	case "/listPosition":
		v, err := decodeNumber(path, raw)
		if err != nil {
			return err
		}
		matches = v == float64(p.ListPosition())
	default:
		field, ok := numberFields[path]
		if !ok {
			return fmt.Errorf("%w: unknown path %q", ErrInvalidPatch, path)
		}
		v, err := decodeNumber(path, raw)
		if err != nil {
			return err
		}
		matches = v == field.get(p)
	}

	if !matches {
		return fmt.Errorf("%w: test failed for %s", ErrInvalidPatch, path)
	}
	return nil
}

func decodeNumber(path string, raw json.RawMessage) (float64, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: %s expects a number", ErrInvalidPatch, path)
	}
	return v, nil
}
