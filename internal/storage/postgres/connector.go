package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Togather-Foundation/citymap/internal/domain/events"
	"github.com/Togather-Foundation/citymap/internal/metrics"
)

var _ events.Opener = (*Connector)(nil)

// Connector opens one pgx connection per invocation. There is no pool: each
// Session owns its connection and must be closed by the caller.
type Connector struct {
	ConnectTimeout time.Duration
}

func NewConnector(connectTimeout time.Duration) *Connector {
	return &Connector{ConnectTimeout: connectTimeout}
}

func (c *Connector) Open(ctx context.Context, databaseURL string) (events.Session, error) {
	conn, err := c.connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Session{EventRepository: &EventRepository{conn: conn}, conn: conn}, nil
}

// Ping opens a connection, round-trips once and closes it.
func (c *Connector) Ping(ctx context.Context, databaseURL string) error {
	conn, err := c.connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close(context.WithoutCancel(ctx)) }()

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (c *Connector) connect(ctx context.Context, databaseURL string) (*pgx.Conn, error) {
	connectCtx := ctx
	if c != nil && c.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, c.ConnectTimeout)
		defer cancel()
	}

	start := time.Now()
	conn, err := pgx.Connect(connectCtx, databaseURL)
	metrics.RecordConnect(start, err)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return conn, nil
}

// Session is an EventRepository bound to a single connection.
type Session struct {
	*EventRepository
	conn *pgx.Conn
}

func (s *Session) Close(ctx context.Context) error {
	if s == nil || s.conn == nil {
		return nil
	}
	if err := s.conn.Close(ctx); err != nil {
		return fmt.Errorf("close database connection: %w", err)
	}
	return nil
}
