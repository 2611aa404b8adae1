package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

type Service struct {
	opener Opener
}

func NewService(opener Opener) *Service {
	return &Service{opener: opener}
}

// ListUpcoming opens one session, runs the listing and always closes the
// session before returning.
func (s *Service) ListUpcoming(ctx context.Context, databaseURL string, filters Filters) (items []Event, err error) {
	if s == nil || s.opener == nil {
		return nil, errors.New("events service: no opener configured")
	}

	session, err := s.opener.Open(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() {
		if closeErr := session.Close(context.WithoutCancel(ctx)); closeErr != nil {
			zerolog.Ctx(ctx).Warn().Err(closeErr).Msg("close events session")
		}
	}()

	items, err = session.ListUpcoming(ctx, filters)
	if err != nil {
		return nil, err
	}
	return items, nil
}
