package api

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Togather-Foundation/citymap/internal/config"
)

type okPinger struct{ err error }

func (p okPinger) Ping(context.Context, string) error { return p.err }

func testRoutes(fn ProxyFunc) http.Handler {
	return routes{
		logger:   zerolog.Nop(),
		events:   fn,
		pinger:   okPinger{},
		database: config.DatabaseConfig{URL: "postgres://db"},
		build:    BuildInfo{Version: "0.3.0"},
	}.handler()
}

func TestRouterEventsAdapter(t *testing.T) {
	var got lambdaevents.APIGatewayProxyRequest
	router := testRoutes(func(_ context.Context, req lambdaevents.APIGatewayProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
		got = req
		return lambdaevents.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    map[string]string{"Content-Type": "application/json", "Access-Control-Allow-Origin": "*"},
			Body:       `[{"title":"Концерт"}]`,
		}, nil
	})

	for _, path := range []string{"/api/v1/events", "/events"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path+"?category=%D0%9A%D1%83%D0%BB%D1%8C%D1%82%D1%83%D1%80%D0%B0&search=park&search=ignored", nil)
			req.Header.Set("X-Request-ID", "req-1")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, `[{"title":"Концерт"}]`, rec.Body.String())
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			require.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))

			require.Equal(t, http.MethodGet, got.HTTPMethod)
			require.Equal(t, path, got.Path)
			require.Equal(t, "Культура", got.QueryStringParameters["category"])
			require.Equal(t, "park", got.QueryStringParameters["search"])
			require.Equal(t, []string{"park", "ignored"}, got.MultiValueQueryStringParameters["search"])
			require.Equal(t, "req-1", got.RequestContext.RequestID)
		})
	}
}

func TestRouterEventsAdapterPassesMethodAndBody(t *testing.T) {
	var got lambdaevents.APIGatewayProxyRequest
	router := testRoutes(func(_ context.Context, req lambdaevents.APIGatewayProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
		got = req
		return lambdaevents.APIGatewayProxyResponse{StatusCode: http.StatusMethodNotAllowed, Body: `{"error": "Method not allowed"}`}, nil
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(`{"title":"x"}`)))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, http.MethodPost, got.HTTPMethod)
	require.Equal(t, `{"title":"x"}`, got.Body)
	require.Nil(t, got.QueryStringParameters)
}

func TestRouterEventsAdapterDecodesBase64(t *testing.T) {
	router := testRoutes(func(context.Context, lambdaevents.APIGatewayProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
		return lambdaevents.APIGatewayProxyResponse{
			StatusCode:      http.StatusOK,
			Body:            base64.StdEncoding.EncodeToString([]byte("[]")),
			IsBase64Encoded: true,
		}, nil
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	require.Equal(t, "[]", rec.Body.String())
}

func TestRouterEventsAdapterHandlerError(t *testing.T) {
	router := testRoutes(func(context.Context, lambdaevents.APIGatewayProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
		return lambdaevents.APIGatewayProxyResponse{}, errors.New("boom")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRouterRecoversPanics(t *testing.T) {
	router := testRoutes(func(context.Context, lambdaevents.APIGatewayProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
		panic("unexpected")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouterProbesAndMetrics(t *testing.T) {
	router := testRoutes(nil)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{path: "/healthz", wantStatus: http.StatusOK, wantBody: `"ok"`},
		{path: "/readyz", wantStatus: http.StatusOK, wantBody: `"ready"`},
		{path: "/version", wantStatus: http.StatusOK, wantBody: `"0.3.0"`},
		{path: "/metrics", wantStatus: http.StatusOK, wantBody: "citymap_"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.wantStatus, rec.Code)
			require.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestNewRouterWithoutDatabase(t *testing.T) {
	router := NewRouter(config.Config{}, zerolog.Nop(), BuildInfo{})

	t.Run("events answer not configured", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.JSONEq(t, `{"error": "Database connection not configured"}`, rec.Body.String())
	})

	t.Run("preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/events", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Body.String())
		require.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("not ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
