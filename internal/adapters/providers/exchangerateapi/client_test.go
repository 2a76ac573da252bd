package exchangerateapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/currensee/currency_converter_app/internal/adapters/providers/exchangerateapi"
	"github.com/currensee/currency_converter_app/internal/apperrors"
	"github.com/currensee/currency_converter_app/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *exchangerateapi.Client {
	return exchangerateapi.NewClient(config.ProviderConfig{
		APIURL: serverURL,
		APIKey: "test-key",
	}, 5*time.Second)
}

func TestGetCodes_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-key/codes", r.URL.Path)
		w.Write([]byte(`{"result":"success","supported_codes":[["USD","United States Dollar"],["EUR","Euro"]]}`))
	}))
	defer server.Close()

	currencies, err := newTestClient(server.URL).GetCodes(context.Background())

	require.NoError(t, err)
	require.Len(t, currencies, 2)
	assert.Equal(t, "USD", currencies[0].CurrencyCode)
	assert.Equal(t, "United States Dollar", currencies[0].Name)
	assert.Equal(t, "EUR", currencies[1].CurrencyCode)
}

func TestGetCodes_MissingCodesField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetCodes(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSchemaMismatch)
}

func TestGetPairRate_WithAmount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-key/pair/USD/EUR/100", r.URL.Path)
		w.Write([]byte(`{"result":"success","base_code":"USD","target_code":"EUR","conversion_rate":0.93,"conversion_result":93}`))
	}))
	defer server.Close()

	quote, err := newTestClient(server.URL).GetPairRate(context.Background(), "USD", "EUR", 100)

	require.NoError(t, err)
	assert.Equal(t, 0.93, quote.Rate)
	require.NotNil(t, quote.ConversionResult)
	assert.Equal(t, 93.0, *quote.ConversionResult)
}

func TestGetPairRate_ZeroAmountOmitsSegment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-key/pair/USD/EUR", r.URL.Path)
		w.Write([]byte(`{"result":"success","base_code":"USD","target_code":"EUR","conversion_rate":0.93}`))
	}))
	defer server.Close()

	quote, err := newTestClient(server.URL).GetPairRate(context.Background(), "USD", "EUR", 0)

	require.NoError(t, err)
	assert.Equal(t, 0.93, quote.Rate)
	assert.Nil(t, quote.ConversionResult)
}

func TestGetPairRate_MissingRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","base_code":"USD","target_code":"EUR"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetPairRate(context.Background(), "USD", "EUR", 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSchemaMismatch)
}

func TestGetPairRate_ErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetPairRate(context.Background(), "USD", "XXX", 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstreamStatus)
	assert.Contains(t, err.Error(), "unsupported-code")
}

func TestGetPairRate_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetPairRate(context.Background(), "USD", "EUR", 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstreamStatus)
}

func TestGetPairRate_ServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient(server.URL).GetPairRate(context.Background(), "USD", "EUR", 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}

func TestGetPairRate_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).GetPairRate(ctx, "USD", "EUR", 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInterrupted)
}

func TestGetPairRate_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetPairRate(context.Background(), "USD", "EUR", 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSchemaMismatch)
}

func TestGetLatestRates_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-key/latest/USD", r.URL.Path)
		w.Write([]byte(`{"result":"success","base_code":"USD","conversion_rates":{"EUR":0.93,"GBP":0.79}}`))
	}))
	defer server.Close()

	rates, err := newTestClient(server.URL).GetLatestRates(context.Background(), "USD")

	require.NoError(t, err)
	assert.Equal(t, 0.93, rates["EUR"])
	assert.Equal(t, 0.79, rates["GBP"])
}

func TestGetLatestRates_MissingTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","base_code":"USD"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetLatestRates(context.Background(), "USD")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSchemaMismatch)
}
