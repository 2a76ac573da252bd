package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionKind distinguishes fiat-to-fiat conversions from
// cryptocurrency-to-fiat conversions.
type ConversionKind string

const (
	// KindFiat marks a conversion between two government-issued currencies.
	KindFiat ConversionKind = "FIAT"
	// KindCrypto marks a conversion from a cryptocurrency into a fiat currency.
	KindCrypto ConversionKind = "CRYPTO"
)

// Conversion is a single historical conversion. Once persisted it is
// immutable; ConversionID is assigned by the repository and stays empty on
// records synthesized in memory for charting.
type Conversion struct {
	ConversionID string          `json:"conversionID"`
	SourceCode   string          `json:"sourceCode"` // e.g. "USD", "BTC"
	TargetCode   string          `json:"targetCode"`
	SourceAmount decimal.Decimal `json:"sourceAmount"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Rate         decimal.Decimal `json:"rate"` // always > 0 on persisted records
	ConvertedAt  time.Time       `json:"convertedAt"`
	Kind         ConversionKind  `json:"kind"`
}

// Inverted returns the conversion relabeled to the opposite direction: amounts
// swapped, rate replaced by its reciprocal, timestamp preserved. A record with
// a non-positive rate has no reciprocal and inverts to a zero rate.
func (c Conversion) Inverted() Conversion {
	rate := decimal.Zero
	if c.Rate.IsPositive() {
		rate = decimal.NewFromInt(1).Div(c.Rate)
	}
	return Conversion{
		ConversionID: c.ConversionID,
		SourceCode:   c.TargetCode,
		TargetCode:   c.SourceCode,
		SourceAmount: c.TargetAmount,
		TargetAmount: c.SourceAmount,
		Rate:         rate,
		ConvertedAt:  c.ConvertedAt,
		Kind:         c.Kind,
	}
}
