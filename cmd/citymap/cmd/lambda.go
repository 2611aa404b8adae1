package cmd

import (
	"context"
	"time"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Togather-Foundation/citymap/internal/api"
	"github.com/Togather-Foundation/citymap/internal/api/handlers"
	"github.com/Togather-Foundation/citymap/internal/config"
	"github.com/Togather-Foundation/citymap/internal/domain/events"
	"github.com/Togather-Foundation/citymap/internal/metrics"
	"github.com/Togather-Foundation/citymap/internal/storage/postgres"
	"github.com/Togather-Foundation/citymap/internal/telemetry"
)

const lambdaTracerName = "github.com/Togather-Foundation/citymap/cmd/citymap"

func newLambdaCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lambda",
		Short: "Run the events handler as an AWS Lambda function",
		Long: `Run the events handler inside the AWS Lambda runtime, answering API Gateway
proxy events. Only meaningful when started by the Lambda runtime.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLambda(cmd.Context(), root)
		},
	}
}

func runLambda(ctx context.Context, root *rootOptions) error {
	cfg, err := loadConfig(ctx, root)
	if err != nil {
		return err
	}

	logger := config.NewLogger(cfg.Logging)
	metrics.Init(Version, GitCommit, BuildDate, "lambda")

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, Version)
	if err != nil {
		return err
	}

	connector := postgres.NewConnector(cfg.Database.ConnectTimeout)
	handler := handlers.NewEventsHandler(events.NewService(connector), cfg.Database)

	logger.Info().Str("version", Version).Msg("starting citymap lambda")
	lambda.StartWithOptions(
		withInvocationContext(logger, handler.Handle),
		lambda.WithContext(ctx),
		lambda.WithEnableSIGTERM(func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = shutdownTracing(flushCtx)
		}),
	)
	return nil
}

// withInvocationContext gives each invocation a logger tagged with the Lambda
// request ID and a server span, then logs the outcome.
func withInvocationContext(logger zerolog.Logger, next api.ProxyFunc) api.ProxyFunc {
	tracer := otel.Tracer(lambdaTracerName)

	return func(ctx context.Context, req lambdaevents.APIGatewayProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
		start := time.Now()

		lc := logger.With()
		if invocation, ok := lambdacontext.FromContext(ctx); ok {
			lc = lc.Str("aws_request_id", invocation.AwsRequestID)
		}
		if req.RequestContext.RequestID != "" {
			lc = lc.Str("request_id", req.RequestContext.RequestID)
		}
		reqLogger := lc.Logger()
		ctx = reqLogger.WithContext(ctx)

		ctx, span := tracer.Start(ctx, req.HTTPMethod+" "+req.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("http.method", req.HTTPMethod)),
		)
		defer span.End()

		resp, err := next(ctx, req)

		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		reqLogger.Info().
			Str("method", req.HTTPMethod).
			Str("path", req.Path).
			Int("status", resp.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("invocation")

		return resp, err
	}
}
