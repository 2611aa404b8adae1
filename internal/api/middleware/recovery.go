package middleware

import (
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/rs/zerolog"
)

// Recovery turns a handler panic into a 500 and logs the panic value.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: logger}),
		handlers.PrintRecoveryStack(false),
	)
}

type recoveryLogger struct {
	logger zerolog.Logger
}

func (l recoveryLogger) Println(args ...interface{}) {
	l.logger.Error().Str("panic", fmt.Sprint(args...)).Msg("recovered from handler panic")
}
