package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"farm-assist-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "location": {"name": "Guntur"},
  "current": {"temp_c": 28.5, "condition": {"text": "Partly cloudy"}},
  "forecast": {"forecastday": [{"day": {"daily_chance_of_rain": 64}}]}
}`

func TestForecastBuildsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast.json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "k", q.Get("key"))
		assert.Equal(t, "auto:ip", q.Get("q"))
		assert.Equal(t, "3", q.Get("days"))
		assert.Equal(t, "no", q.Get("aqi"))
		assert.Equal(t, "no", q.Get("alerts"))
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	c := NewClient(config.WeatherConfig{APIKey: "k", BaseURL: srv.URL + "/v1/"})
	data, err := c.Forecast(context.Background(), "")
	require.NoError(t, err)
	assert.JSONEq(t, samplePayload, string(data))
}

func TestForecastUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":2008,"message":"API key disabled"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(config.WeatherConfig{BaseURL: srv.URL}).Forecast(context.Background(), "Guntur")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestForecastTransportErrorHidesAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := NewClient(config.WeatherConfig{APIKey: "SECRET-KEY-123", BaseURL: base}).Forecast(context.Background(), "Hyderabad")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.NotContains(t, err.Error(), "SECRET-KEY-123")
	assert.Contains(t, err.Error(), "q=Hyderabad")
}

func TestForecastInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewClient(config.WeatherConfig{BaseURL: srv.URL}).Forecast(context.Background(), "Guntur")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestAdvice(t *testing.T) {
	cases := []struct {
		condition string
		temp      float64
		contains  string
	}{
		{"Light rain shower", 38, "drainage"},
		{"Patchy drizzle", 20, "drainage"},
		{"Sunny", 40, "very hot"},
		{"Clear", 5, "frost"},
		{"Sunny", 25, "field work"},
		{"Overcast", 22, "transplanting"},
		{"Mist", 22, "monitor crop"},
	}
	for _, tc := range cases {
		assert.Contains(t, Advice(tc.condition, tc.temp), tc.contains, tc.condition)
	}
}

func TestSummarize(t *testing.T) {
	advice, rain := Summarize(json.RawMessage(samplePayload))
	assert.Contains(t, advice, "transplanting")
	assert.Equal(t, 64, rain)

	advice, rain = Summarize(json.RawMessage(`not json`))
	assert.Contains(t, advice, "monitor crop")
	assert.Equal(t, 0, rain)
}
