package dto

import "github.com/currensee/currency_converter_app/internal/core/domain"

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Name         string `json:"name"`
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of
// CurrencyResponse DTOs, preserving order.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = CurrencyResponse{CurrencyCode: curr.CurrencyCode, Name: curr.Name}
	}
	return res
}
