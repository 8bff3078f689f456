package awbw

import (
	"context"
	"errors"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
)

// Fetcher returns the raw map_info body for an AWBW map id.
type Fetcher interface {
	FetchMap(ctx context.Context, id int) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, id int) ([]byte, error)

func (f FetcherFunc) FetchMap(ctx context.Context, id int) ([]byte, error) { return f(ctx, id) }

// DecodeFromID fetches map id and decodes it. Any failure, including an
// error response from the API or a body that does not decode, is reported as
// a *NotFoundError wrapping the cause.
func DecodeFromID(ctx context.Context, f Fetcher, id int) (*awmap.Map, error) {
	body, err := f.FetchMap(ctx, id)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			if nf.ID == 0 {
				nf.ID = id
			}
			return nil, nf
		}
		return nil, &NotFoundError{ID: id, Err: err}
	}

	m, err := DecodeJSON(body)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			nf.ID = id
			return nil, nf
		}
		return nil, &NotFoundError{ID: id, Err: err}
	}
	m.AWBWID = id
	return m, nil
}
