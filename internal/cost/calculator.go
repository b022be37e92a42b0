// Package cost estimates Anthropic API spend for annotation runs.
package cost

import "github.com/oral-history-lab/transcript-cli/pkg/anthropic"

// Rates holds per-model token pricing (per million tokens).
type Rates map[string]ModelRate

// ModelRate holds one model's token pricing.
type ModelRate struct {
	Input         float64 `yaml:"input" mapstructure:"input"`
	Output        float64 `yaml:"output" mapstructure:"output"`
	BatchDiscount float64 `yaml:"batch_discount" mapstructure:"batch_discount"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Claude computes the dollar cost of a Claude run. Unknown models cost
// zero rather than erroring; the estimate is informational.
func (c *Calculator) Claude(model string, isBatch bool, usage anthropic.TokenUsage) float64 {
	rate, ok := c.rates[model]
	if !ok {
		return 0
	}

	batchMul := 1.0
	if isBatch {
		batchMul = rate.BatchDiscount
	}

	inCost := (float64(usage.InputTokens) / 1e6) * rate.Input * batchMul
	outCost := (float64(usage.OutputTokens) / 1e6) * rate.Output * batchMul
	return inCost + outCost
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		"claude-haiku-4-5-20251001": {
			Input: 0.80, Output: 4.00, BatchDiscount: 0.5,
		},
		"claude-sonnet-4-5-20250929": {
			Input: 3.00, Output: 15.00, BatchDiscount: 0.5,
		},
		"claude-opus-4-6": {
			Input: 15.00, Output: 75.00, BatchDiscount: 0.5,
		},
	}
}
