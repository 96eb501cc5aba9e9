// Package google 校验 Google 登录签发的 ID token。
package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

var ErrInvalidIDToken = errors.New("invalid google id token")

// Identity 是从 ID token 中提取出的用户信息。
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// Verifier 校验 ID token 并返回身份信息。
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type idTokenVerifier struct {
	clientID string
	validate validateFunc
}

// NewVerifier 创建基于 google.golang.org/api/idtoken 的校验器，audience 为 OAuth client id。
func NewVerifier(clientID string) (Verifier, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, errors.New("google client id is required")
	}
	return &idTokenVerifier{clientID: clientID, validate: idtoken.Validate}, nil
}

func (v *idTokenVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidIDToken)
	}
	payload, err := v.validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIDToken, err)
	}
	return identityFromPayload(payload)
}

func identityFromPayload(p *idtoken.Payload) (*Identity, error) {
	if p == nil || strings.TrimSpace(p.Subject) == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidIDToken)
	}
	id := &Identity{Subject: p.Subject}
	if s, ok := p.Claims["email"].(string); ok {
		id.Email = s
	}
	if b, ok := p.Claims["email_verified"].(bool); ok {
		id.EmailVerified = b
	}
	if s, ok := p.Claims["name"].(string); ok {
		id.Name = s
	}
	if s, ok := p.Claims["picture"].(string); ok {
		id.Picture = s
	}
	return id, nil
}
