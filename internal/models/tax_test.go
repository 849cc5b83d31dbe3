package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxRates(t *testing.T) {
	catalog := TaxRates()

	require.Len(t, catalog.Federal, 2)
	assert.Equal(t, "Long Term Capital Gains", catalog.Federal[0].Name)
	assert.Len(t, catalog.Federal[0].Taxes, 3)
	assert.Equal(t, "Short Term Capital Gains", catalog.Federal[1].Name)
	assert.Len(t, catalog.Federal[1].Taxes, 7)

	require.Len(t, catalog.State, 2)
	assert.Equal(t, "Montana", catalog.State[1].Name)
	assert.Len(t, catalog.State[1].Taxes, 7)
}

func TestTaxRates_DefaultsAreOffered(t *testing.T) {
	d := DefaultPositionInputRecord()
	catalog := TaxRates()

	has := func(groups []TaxGroup, v float64) bool {
		for _, g := range groups {
			for _, rate := range g.Taxes {
				if rate.Value == v {
					return true
				}
			}
		}
		return false
	}
	assert.True(t, has(catalog.Federal, d.FederalTaxRate))
	assert.True(t, has(catalog.State, d.StateTaxRate))
}

func TestTaxRates_EveryRateIsAValidRatio(t *testing.T) {
	catalog := TaxRates()
	for _, groups := range [][]TaxGroup{catalog.Federal, catalog.State} {
		for _, g := range groups {
			for _, rate := range g.Taxes {
				assert.GreaterOrEqual(t, rate.Value, 0.0, rate.Label)
				assert.Less(t, rate.Value, 1.0, rate.Label)
				assert.NotEmpty(t, rate.Label)
			}
		}
	}
}

func TestTaxRates_ReturnsIndependentCopies(t *testing.T) {
	first := TaxRates()
	first.State[1].Taxes[0].Value = 0.5

	assert.Equal(t, 0.01, TaxRates().State[1].Taxes[0].Value)
}
