package domain

// Currency represents a currency known to the fiat rate provider.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // e.g. "USD"
	Name         string `json:"name"`         // e.g. "United States Dollar"
}
