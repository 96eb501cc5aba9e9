package google

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func TestNewVerifierRequiresClientID(t *testing.T) {
	_, err := NewVerifier(" ")
	assert.Error(t, err)
}

func TestVerifyMapsPayload(t *testing.T) {
	v := &idTokenVerifier{
		clientID: "client-1",
		validate: func(ctx context.Context, tok, aud string) (*idtoken.Payload, error) {
			assert.Equal(t, "raw-token", tok)
			assert.Equal(t, "client-1", aud)
			return &idtoken.Payload{
				Subject: "sub-123",
				Claims: map[string]interface{}{
					"email":          "farmer@example.com",
					"email_verified": true,
					"name":           "Ravi",
					"picture":        "https://example.com/p.png",
				},
			}, nil
		},
	}

	id, err := v.Verify(context.Background(), " raw-token ")
	require.NoError(t, err)
	assert.Equal(t, &Identity{
		Subject:       "sub-123",
		Email:         "farmer@example.com",
		EmailVerified: true,
		Name:          "Ravi",
		Picture:       "https://example.com/p.png",
	}, id)
}

func TestVerifyErrors(t *testing.T) {
	v := &idTokenVerifier{
		clientID: "client-1",
		validate: func(ctx context.Context, tok, aud string) (*idtoken.Payload, error) {
			if tok == "no-sub" {
				return &idtoken.Payload{}, nil
			}
			return nil, errors.New("audience mismatch")
		},
	}

	_, err := v.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidIDToken)

	_, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidIDToken)
	assert.ErrorContains(t, err, "audience mismatch")

	_, err = v.Verify(context.Background(), "no-sub")
	assert.ErrorIs(t, err, ErrInvalidIDToken)
}
