package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RatePoint is one (timestamp, rate) observation in a reconciled series for a
// directed currency pair. Points are request-scoped and never persisted.
type RatePoint struct {
	At   time.Time
	Rate decimal.Decimal
}
