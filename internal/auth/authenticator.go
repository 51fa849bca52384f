// Package auth admits inbound connections: it resolves an opaque
// credential to a user identity before any presence or room state is
// touched.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/avezina/parley/internal/domain"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrExpiredCredential = errors.New("expired credential")
)

// Verifier validates a credential token and resolves it to a user
// identity. Implementations map their own failure modes onto
// ErrInvalidCredential / ErrExpiredCredential.
type Verifier interface {
	Verify(ctx context.Context, token string) (domain.User, error)
}

// Authenticator bounds the external verification call with a timeout so
// a hung verifier fails the connection attempt instead of hanging the
// connection worker.
type Authenticator struct {
	verifier Verifier
	timeout  time.Duration
}

func NewAuthenticator(v Verifier, timeout time.Duration) *Authenticator {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Authenticator{verifier: v, timeout: timeout}
}

// Authenticate is side-effect-free beyond the verifier call. Rejection
// happens before any registration; there is no partial state to undo.
func (a *Authenticator) Authenticate(ctx context.Context, rawCredential string) (domain.User, error) {
	if rawCredential == "" {
		return domain.User{}, ErrMissingCredential
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	user, err := a.verifier.Verify(ctx, rawCredential)
	if err != nil {
		if errors.Is(err, ErrExpiredCredential) || errors.Is(err, ErrInvalidCredential) {
			return domain.User{}, err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.User{}, ErrInvalidCredential
		}
		return domain.User{}, errors.Join(ErrInvalidCredential, err)
	}
	return user, nil
}
