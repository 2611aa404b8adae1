package events

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps failures to reach the events database.
var ErrUnavailable = errors.New("events database unavailable")

// Event is one row of the externally owned events table.
type Event struct {
	ID          int64
	Title       string
	Category    string
	Date        time.Time
	Time        time.Duration // offset from midnight
	Location    string
	Price       any
	ImageURL    string
	Description string
	Lat         float64
	Lng         float64
}

// Filters narrows the upcoming-events listing. Empty fields apply no filter.
type Filters struct {
	Category string
	Search   string
}

type Repository interface {
	ListUpcoming(ctx context.Context, filters Filters) ([]Event, error)
}

// Session is a Repository bound to one database connection.
type Session interface {
	Repository
	Close(ctx context.Context) error
}

// Opener opens a Session against the database at databaseURL.
type Opener interface {
	Open(ctx context.Context, databaseURL string) (Session, error)
}
