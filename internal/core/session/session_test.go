package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestHydrate(t *testing.T) {
	svc := NewService("test-secret")

	token := signToken(t, "test-secret", Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:   "u-1",
		Username: "maria",
		Role:     "capturista",
	})

	sess, err := svc.Hydrate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", sess.UserID)
	assert.Equal(t, "maria", sess.Username)
	assert.Equal(t, "capturista", sess.Role)
	assert.Equal(t, token, sess.Token)
	assert.True(t, sess.Active())
}

func TestHydrate_Rejections(t *testing.T) {
	svc := NewService("test-secret")

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", Claims{UserID: "u-1", Username: "maria"})
		_, err := svc.Hydrate(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token := signToken(t, "test-secret", Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
			UserID: "u-1",
		})
		_, err := svc.Hydrate(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Hydrate("not-a-token")
		assert.Error(t, err)
	})
}

func TestActor(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "anonymous", Actor(ctx))

	ctx = With(ctx, &Session{UserID: "u-1", Username: "maria"})
	assert.Equal(t, "maria", Actor(ctx))

	expired := With(context.Background(), &Session{
		UserID: "u-1", Username: "maria", ExpiresAt: time.Now().Add(-time.Minute),
	})
	assert.Equal(t, "anonymous", Actor(expired))

	assert.Equal(t, "anonymous", Actor(Clear(ctx)))
}

func TestTraceRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, TraceFrom(ctx))

	tr := NewTrace()
	require.NotEmpty(t, tr.TraceID)
	require.NotEmpty(t, tr.RequestID)

	ctx = WithTrace(ctx, tr)
	assert.Equal(t, tr, TraceFrom(ctx))
}
