package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/Togather-Foundation/citymap/internal/config"
	"github.com/Togather-Foundation/citymap/internal/domain/events"
	"github.com/Togather-Foundation/citymap/internal/metrics"
)

// EventsHandler answers the upcoming-events listing in the API Gateway proxy
// envelope. Both the HTTP host and the function host call Handle.
type EventsHandler struct {
	Service  *events.Service
	Database config.DatabaseConfig
}

func NewEventsHandler(service *events.Service, database config.DatabaseConfig) *EventsHandler {
	return &EventsHandler{Service: service, Database: database}
}

// Handle never returns a non-nil error: every failure is mapped to a JSON
// error body so the function host does not turn it into a platform error.
func (h *EventsHandler) Handle(ctx context.Context, req lambdaevents.APIGatewayProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
	if req.HTTPMethod == http.MethodOptions {
		return preflightResponse(), nil
	}

	logger := zerolog.Ctx(ctx)
	filters := events.ParseFilters(req.QueryStringParameters)

	databaseURL, err := h.Database.DSN()
	if err != nil {
		logger.Error().Err(err).Msg("events listing unavailable")
		return h.fail(http.StatusInternalServerError, msgDatabaseNotConfigured, filters), nil
	}

	if req.HTTPMethod != http.MethodGet {
		return h.fail(http.StatusMethodNotAllowed, msgMethodNotAllowed, filters), nil
	}

	list, err := h.Service.ListUpcoming(ctx, databaseURL, filters)
	if err != nil {
		event := logger.Error().Err(err).
			Str("category", filters.Category).
			Str("search", filters.Search)
		if errors.Is(err, events.ErrUnavailable) {
			event.Msg("events database unavailable")
		} else {
			event.Msg("list upcoming events failed")
		}
		return h.fail(http.StatusInternalServerError, msgInternalServerError, filters), nil
	}

	items := events.ToListItems(list)
	body, err := encodeJSON(items)
	if err != nil {
		logger.Error().Err(err).Msg("encode events")
		return h.fail(http.StatusInternalServerError, msgInternalServerError, filters), nil
	}

	recordOutcome(http.StatusOK, filters)
	metrics.EventsServed.Add(float64(len(items)))
	logger.Debug().Int("count", len(items)).Msg("listed upcoming events")

	return jsonResponse(http.StatusOK, body), nil
}

func (h *EventsHandler) fail(status int, message string, filters events.Filters) lambdaevents.APIGatewayProxyResponse {
	recordOutcome(status, filters)
	return errorResponse(status, message)
}

func recordOutcome(status int, filters events.Filters) {
	metrics.EventsListRequests.WithLabelValues(
		strconv.Itoa(status),
		strconv.FormatBool(filters.Category != ""),
		strconv.FormatBool(filters.Search != ""),
	).Inc()
}
