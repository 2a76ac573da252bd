package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/currensee/currency_converter_app/internal/apperrors"
	"github.com/currensee/currency_converter_app/internal/core/domain"
	portssvc "github.com/currensee/currency_converter_app/internal/core/ports/services"
	"github.com/currensee/currency_converter_app/internal/dto"
	"github.com/currensee/currency_converter_app/internal/handlers"
	"github.com/currensee/currency_converter_app/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ConverterService ---
type MockConverterService struct {
	mock.Mock
}

func (m *MockConverterService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockConverterService) ConvertFiat(ctx context.Context, req dto.ConvertFiatRequest) (*dto.ConversionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ConversionResponse), args.Error(1)
}

func (m *MockConverterService) ConvertCrypto(ctx context.Context, req dto.ConvertCryptoRequest) (*dto.ConversionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ConversionResponse), args.Error(1)
}

func (m *MockConverterService) ListRecentConversions(ctx context.Context) ([]domain.Conversion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Conversion), args.Error(1)
}

func (m *MockConverterService) ListConversionsByKind(ctx context.Context, kind domain.ConversionKind) ([]domain.Conversion, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Conversion), args.Error(1)
}

func (m *MockConverterService) ListAllConversions(ctx context.Context) ([]domain.Conversion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Conversion), args.Error(1)
}

func (m *MockConverterService) ListConversionsForPair(ctx context.Context, sourceCode, targetCode string) ([]domain.Conversion, error) {
	args := m.Called(ctx, sourceCode, targetCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Conversion), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.ConverterSvcFacade = (*MockConverterService)(nil)

// --- Mock ChartService ---
type MockChartService struct {
	mock.Mock
}

func (m *MockChartService) SeriesForPair(ctx context.Context, sourceCode, targetCode string) (*dto.RateSeriesResponse, error) {
	args := m.Called(ctx, sourceCode, targetCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RateSeriesResponse), args.Error(1)
}

func (m *MockChartService) DistributionByCurrency(ctx context.Context) (*dto.DistributionResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DistributionResponse), args.Error(1)
}

func (m *MockChartService) DistributionByKind(ctx context.Context) (*dto.DistributionResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DistributionResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.ChartSvcFacade = (*MockChartService)(nil)

// --- Test Suite ---
type ConversionHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockConverter *MockConverterService
	mockCharts    *MockChartService
}

func (suite *ConversionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.mockConverter = new(MockConverterService)
	suite.mockCharts = new(MockChartService)

	cfg := &config.Config{IsProduction: true, Port: "8080"}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Converter: suite.mockConverter,
		Charts:    suite.mockCharts,
	})
}

func (suite *ConversionHandlerTestSuite) serve(method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *ConversionHandlerTestSuite) TestConvertFiat_Success() {
	expected := &dto.ConversionResponse{
		SourceCode:   "USD",
		TargetCode:   "EUR",
		SourceAmount: decimal.NewFromInt(100),
		TargetAmount: decimal.NewFromInt(93),
		Rate:         decimal.NewFromFloat(0.93),
		ConvertedAt:  time.Now(),
		Kind:         string(domain.KindFiat),
	}

	suite.mockConverter.On("ConvertFiat", mock.Anything, mock.MatchedBy(func(req dto.ConvertFiatRequest) bool {
		return req.SourceCode == "USD" && req.TargetCode == "EUR" && req.Amount.Equal(decimal.NewFromInt(100))
	})).Return(expected, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/conversions/fiat", `{"sourceCode":"USD","targetCode":"EUR","amount":100}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ConversionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("USD", resp.SourceCode)
	suite.True(resp.TargetAmount.Equal(decimal.NewFromInt(93)))
	suite.mockConverter.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestConvertFiat_MalformedBody() {
	w := suite.serve(http.MethodPost, "/api/v1/conversions/fiat", `{"sourceCode":123}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockConverter.AssertNotCalled(suite.T(), "ConvertFiat", mock.Anything, mock.Anything)
}

func (suite *ConversionHandlerTestSuite) TestConvertFiat_MissingTargetCode() {
	w := suite.serve(http.MethodPost, "/api/v1/conversions/fiat", `{"sourceCode":"USD","amount":5}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockConverter.AssertNotCalled(suite.T(), "ConvertFiat", mock.Anything, mock.Anything)
}

func (suite *ConversionHandlerTestSuite) TestConvertFiat_UpstreamUnavailable() {
	suite.mockConverter.On("ConvertFiat", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrUpstreamUnavailable).Once()

	w := suite.serve(http.MethodPost, "/api/v1/conversions/fiat", `{"sourceCode":"USD","targetCode":"EUR","amount":100}`)

	suite.Equal(http.StatusBadGateway, w.Code)
}

func (suite *ConversionHandlerTestSuite) TestConvertFiat_ValidationError() {
	suite.mockConverter.On("ConvertFiat", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrValidation).Once()

	w := suite.serve(http.MethodPost, "/api/v1/conversions/fiat", `{"sourceCode":"USD","targetCode":"EUR","amount":100}`)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ConversionHandlerTestSuite) TestConvertFiat_Interrupted() {
	suite.mockConverter.On("ConvertFiat", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrInterrupted).Once()

	w := suite.serve(http.MethodPost, "/api/v1/conversions/fiat", `{"sourceCode":"USD","targetCode":"EUR","amount":100}`)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *ConversionHandlerTestSuite) TestConvertFiat_SchemaMismatch() {
	suite.mockConverter.On("ConvertFiat", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrSchemaMismatch).Once()

	w := suite.serve(http.MethodPost, "/api/v1/conversions/fiat", `{"sourceCode":"USD","targetCode":"EUR","amount":100}`)

	suite.Equal(http.StatusBadGateway, w.Code)
}

func (suite *ConversionHandlerTestSuite) TestConvertCrypto_Success() {
	expected := &dto.ConversionResponse{
		SourceCode:   "BTC",
		TargetCode:   "USD",
		SourceAmount: decimal.NewFromFloat(0.5),
		TargetAmount: decimal.NewFromInt(21500),
		Rate:         decimal.NewFromInt(43000),
		ConvertedAt:  time.Now(),
		Kind:         string(domain.KindCrypto),
	}

	suite.mockConverter.On("ConvertCrypto", mock.Anything, mock.MatchedBy(func(req dto.ConvertCryptoRequest) bool {
		return req.CryptoSymbol == "BTC" && req.FiatSymbol == "USD"
	})).Return(expected, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/conversions/crypto", `{"cryptoSymbol":"BTC","fiatSymbol":"USD","amount":0.5}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ConversionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("BTC", resp.SourceCode)
	suite.mockConverter.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestListConversions_All() {
	conversions := []domain.Conversion{{ConversionID: "a"}, {ConversionID: "b"}}

	suite.mockConverter.On("ListAllConversions", mock.Anything).Return(conversions, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/conversions", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.ConversionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 2)
	suite.mockConverter.AssertNotCalled(suite.T(), "ListConversionsByKind", mock.Anything, mock.Anything)
}

func (suite *ConversionHandlerTestSuite) TestListConversions_ByKindNormalizesCase() {
	conversions := []domain.Conversion{{ConversionID: "a", Kind: domain.KindCrypto}}

	suite.mockConverter.On("ListConversionsByKind", mock.Anything, domain.KindCrypto).Return(conversions, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/conversions?kind=crypto", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockConverter.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestListConversions_UnknownKind() {
	suite.mockConverter.On("ListConversionsByKind", mock.Anything, domain.ConversionKind("STOCK")).
		Return(nil, apperrors.ErrValidation).Once()

	w := suite.serve(http.MethodGet, "/api/v1/conversions?kind=stock", "")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ConversionHandlerTestSuite) TestListRecentConversions() {
	conversions := []domain.Conversion{{ConversionID: "a"}}

	suite.mockConverter.On("ListRecentConversions", mock.Anything).Return(conversions, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/conversions/recent", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockConverter.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestListConversionsForPair() {
	conversions := []domain.Conversion{{SourceCode: "USD", TargetCode: "EUR"}}

	suite.mockConverter.On("ListConversionsForPair", mock.Anything, "USD", "EUR").Return(conversions, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/conversions/pair/USD/EUR", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockConverter.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestListCurrencies() {
	currencies := []domain.Currency{{CurrencyCode: "EUR", Name: "Euro"}, {CurrencyCode: "USD", Name: "United States Dollar"}}

	suite.mockConverter.On("ListCurrencies", mock.Anything).Return(currencies, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/currencies", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.CurrencyResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 2)
	suite.Equal("EUR", resp[0].CurrencyCode)
}

func (suite *ConversionHandlerTestSuite) TestListCurrencies_UpstreamDown() {
	suite.mockConverter.On("ListCurrencies", mock.Anything).
		Return(nil, apperrors.ErrUpstreamUnavailable).Once()

	w := suite.serve(http.MethodGet, "/api/v1/currencies", "")

	suite.Equal(http.StatusBadGateway, w.Code)
}

func (suite *ConversionHandlerTestSuite) TestSeriesForPair() {
	series := &dto.RateSeriesResponse{
		SourceCode: "USD",
		TargetCode: "EUR",
		Labels:     []string{"09/06/2025 12:00"},
		Rates:      []float64{0.93},
	}

	suite.mockCharts.On("SeriesForPair", mock.Anything, "USD", "EUR").Return(series, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/charts/history/USD/EUR", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.RateSeriesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("USD", resp.SourceCode)
	suite.Equal([]float64{0.93}, resp.Rates)
}

func (suite *ConversionHandlerTestSuite) TestDistributionByKind() {
	distribution := &dto.DistributionResponse{Labels: []string{"Fiat", "Crypto"}, Counts: []int64{3, 1}}

	suite.mockCharts.On("DistributionByKind", mock.Anything).Return(distribution, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/charts/distribution/kinds", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DistributionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal([]int64{3, 1}, resp.Counts)
}

func (suite *ConversionHandlerTestSuite) TestHealthCheck() {
	w := suite.serve(http.MethodGet, "/health", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

// --- Run Test Suite ---
func TestConversionHandler(t *testing.T) {
	suite.Run(t, new(ConversionHandlerTestSuite))
}
