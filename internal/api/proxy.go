package api

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/Togather-Foundation/citymap/internal/api/middleware"
	"github.com/Togather-Foundation/citymap/internal/domain/events"
)

const maxProxyBody = 1 << 20

// ProxyFunc is a handler in the API Gateway proxy envelope.
type ProxyFunc func(ctx context.Context, req lambdaevents.APIGatewayProxyRequest) (lambdaevents.APIGatewayProxyResponse, error)

// ProxyHandler serves a ProxyFunc over plain HTTP. Single-value maps carry the
// first value of each query parameter and header; the multi-value maps carry
// all of them.
func ProxyHandler(fn ProxyFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := proxyRequest(w, r)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}

		resp, err := fn(r.Context(), req)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("proxy handler failed")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `{"message": "Internal server error"}`)
			return
		}

		writeProxyResponse(w, r, resp)
	})
}

func proxyRequest(w http.ResponseWriter, r *http.Request) (lambdaevents.APIGatewayProxyRequest, error) {
	req := lambdaevents.APIGatewayProxyRequest{
		HTTPMethod: r.Method,
		Path:       r.URL.Path,
		RequestContext: lambdaevents.APIGatewayProxyRequestContext{
			RequestID:  middleware.GetRequestID(r.Context()),
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
			Identity:   lambdaevents.APIGatewayRequestIdentity{SourceIP: r.RemoteAddr, UserAgent: r.UserAgent()},
		},
	}

	if query := r.URL.Query(); len(query) > 0 {
		req.QueryStringParameters = events.QueryParams(query)
		req.MultiValueQueryStringParameters = query
	}
	if len(r.Header) > 0 {
		req.Headers = firstValues(r.Header)
		req.MultiValueHeaders = r.Header
	}

	if r.Body != nil {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxProxyBody))
		if err != nil {
			return req, err
		}
		req.Body = string(body)
	}
	return req, nil
}

func firstValues(values http.Header) map[string]string {
	out := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			out[key] = vals[0]
		}
	}
	return out
}

func writeProxyResponse(w http.ResponseWriter, r *http.Request, resp lambdaevents.APIGatewayProxyResponse) {
	header := w.Header()
	for key, value := range resp.Headers {
		header.Set(key, value)
	}
	for key, values := range resp.MultiValueHeaders {
		for _, value := range values {
			header.Add(key, value)
		}
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("decode proxy response body")
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		body = decoded
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(body) > 0 && r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}
