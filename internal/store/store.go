// Package store is the boundary to the external message store. The relay
// core only appends; history retrieval lives in the parallel HTTP path.
package store

import (
	"context"
	"errors"

	"github.com/avezina/parley/internal/domain"
)

var ErrUnavailable = errors.New("message store unavailable")

type Store interface {
	Append(ctx context.Context, msg domain.Message) error
}
