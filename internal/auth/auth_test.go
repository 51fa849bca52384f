package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/avezina/parley/internal/domain"
)

var testSecret = []byte("test-secret")

func TestAuthenticate_ValidToken(t *testing.T) {
	a := NewAuthenticator(NewJWTVerifier(testSecret), time.Second)
	tok, err := GenerateToken(testSecret, domain.User{ID: "u1", Username: "alice"}, time.Hour)
	require.NoError(t, err)

	user, err := a.Authenticate(context.Background(), tok)
	require.NoError(t, err)
	require.Equal(t, domain.UserID("u1"), user.ID)
	require.Equal(t, "alice", user.Username)
}

func TestAuthenticate_MissingCredential(t *testing.T) {
	a := NewAuthenticator(NewJWTVerifier(testSecret), time.Second)

	_, err := a.Authenticate(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingCredential)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	a := NewAuthenticator(NewJWTVerifier(testSecret), time.Second)
	tok, err := GenerateToken(testSecret, domain.User{ID: "u1", Username: "alice"}, -time.Minute)
	require.NoError(t, err)

	_, err = a.Authenticate(context.Background(), tok)
	require.ErrorIs(t, err, ErrExpiredCredential)
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	a := NewAuthenticator(NewJWTVerifier(testSecret), time.Second)

	_, err := a.Authenticate(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	a := NewAuthenticator(NewJWTVerifier(testSecret), time.Second)
	tok, err := GenerateToken([]byte("other-secret"), domain.User{ID: "u1", Username: "alice"}, time.Hour)
	require.NoError(t, err)

	_, err = a.Authenticate(context.Background(), tok)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerify_RejectsClaimsWithoutIdentity(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	tok, err := GenerateToken(testSecret, domain.User{ID: "", Username: "alice"}, time.Hour)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), tok)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerify_RejectsOversizedUsername(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	long := strings.Repeat("a", domain.MaxUsernameLen+1)
	tok, err := GenerateToken(testSecret, domain.User{ID: "u1", Username: long}, time.Hour)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), tok)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerify_RejectsUnexpectedSigningMethod(t *testing.T) {
	claims := &Claims{
		UserID:   "u1",
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTVerifier(testSecret).Verify(context.Background(), unsigned)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

type hangingVerifier struct{}

func (hangingVerifier) Verify(ctx context.Context, _ string) (domain.User, error) {
	<-ctx.Done()
	return domain.User{}, ctx.Err()
}

func TestAuthenticate_TimeoutFailsInsteadOfHanging(t *testing.T) {
	a := NewAuthenticator(hangingVerifier{}, 10*time.Millisecond)

	start := time.Now()
	_, err := a.Authenticate(context.Background(), "anything")
	require.ErrorIs(t, err, ErrInvalidCredential)
	require.Less(t, time.Since(start), time.Second)
}
