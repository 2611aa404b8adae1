package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	lambdaevents "github.com/aws/aws-lambda-go/events"
)

const (
	msgDatabaseNotConfigured = "Database connection not configured"
	msgMethodNotAllowed      = "Method not allowed"
	msgInternalServerError   = "Internal server error"
)

type errorBody struct {
	Error string `json:"error"`
}

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
}

func preflightResponse() lambdaevents.APIGatewayProxyResponse {
	return lambdaevents.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
			"Access-Control-Allow-Headers": "Content-Type",
			"Access-Control-Max-Age":       "86400",
		},
		Body: "",
	}
}

func errorResponse(status int, message string) lambdaevents.APIGatewayProxyResponse {
	body, err := encodeJSON(errorBody{Error: message})
	if err != nil {
		body = `{"error":"` + msgInternalServerError + `"}`
	}
	return jsonResponse(status, body)
}

func jsonResponse(status int, body string) lambdaevents.APIGatewayProxyResponse {
	return lambdaevents.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    jsonHeaders(),
		Body:       body,
	}
}

// encodeJSON writes non-ASCII text verbatim and leaves <, > and & unescaped.
func encodeJSON(payload any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
