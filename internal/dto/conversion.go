package dto

import (
	"time"

	"github.com/currensee/currency_converter_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConvertFiatRequest defines the data needed to convert between two fiat
// currencies. Amount may be zero; the provider then reports the rate only.
type ConvertFiatRequest struct {
	SourceCode string          `json:"sourceCode" binding:"required,uppercase,alphanum"`
	TargetCode string          `json:"targetCode" binding:"required,uppercase,alphanum"`
	Amount     decimal.Decimal `json:"amount"`
}

// ConvertCryptoRequest defines the data needed to convert a cryptocurrency
// amount into a fiat currency.
type ConvertCryptoRequest struct {
	CryptoSymbol string          `json:"cryptoSymbol" binding:"required,uppercase,alphanum"`
	FiatSymbol   string          `json:"fiatSymbol" binding:"required,uppercase,alphanum"`
	Amount       decimal.Decimal `json:"amount"`
}

// ConversionResponse defines the data returned for a performed or historical
// conversion.
type ConversionResponse struct {
	ConversionID string          `json:"conversionID,omitempty"`
	SourceCode   string          `json:"sourceCode"`
	TargetCode   string          `json:"targetCode"`
	SourceAmount decimal.Decimal `json:"sourceAmount"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Rate         decimal.Decimal `json:"rate"`
	ConvertedAt  time.Time       `json:"convertedAt"`
	Kind         string          `json:"kind"`
}

// ToConversionResponse converts a domain.Conversion to ConversionResponse DTO
func ToConversionResponse(conv *domain.Conversion) ConversionResponse {
	return ConversionResponse{
		ConversionID: conv.ConversionID,
		SourceCode:   conv.SourceCode,
		TargetCode:   conv.TargetCode,
		SourceAmount: conv.SourceAmount,
		TargetAmount: conv.TargetAmount,
		Rate:         conv.Rate,
		ConvertedAt:  conv.ConvertedAt,
		Kind:         string(conv.Kind),
	}
}

// ToListConversionResponse converts a slice of domain.Conversion to a slice of
// ConversionResponse DTOs
func ToListConversionResponse(conversions []domain.Conversion) []ConversionResponse {
	res := make([]ConversionResponse, len(conversions))
	for i, conv := range conversions {
		res[i] = ToConversionResponse(&conv)
	}
	return res
}
