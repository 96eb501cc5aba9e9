package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"farm-assist-go/internal/config"
	"farm-assist-go/internal/model"
	"farm-assist-go/internal/repository"
	"farm-assist-go/pkg/google"
	"farm-assist-go/pkg/log"
	"farm-assist-go/pkg/token"

	"gorm.io/gorm"
)

// LoginResult 是登录或刷新成功后返回的 token 和用户信息。
type LoginResult struct {
	AccessToken  string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         *model.User `json:"user"`
}

// UserService 接口定义了所有与用户相关的业务操作。
type UserService interface {
	LoginWithGoogle(ctx context.Context, idToken string) (*LoginResult, error)
	GetProfile(userID uint) (*model.User, error)
	UpdateLanguage(userID uint, language string) (*model.User, error)
	Logout(ctx context.Context, accessClaims *token.CustomClaims, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error)
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// userService 是 UserService 接口的实现。
type userService struct {
	userRepo   repository.UserRepository
	blacklist  repository.TokenBlacklistRepository
	verifier   google.Verifier
	jwtManager *token.JWTManager
	authCfg    config.AuthConfig
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(userRepo repository.UserRepository, blacklist repository.TokenBlacklistRepository, verifier google.Verifier, jwtManager *token.JWTManager, authCfg config.AuthConfig) UserService {
	return &userService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		verifier:   verifier,
		jwtManager: jwtManager,
		authCfg:    authCfg,
	}
}

// LoginWithGoogle 校验 Google ID token，按 uid 创建或更新用户并签发 token。
func (s *userService) LoginWithGoogle(ctx context.Context, idToken string) (*LoginResult, error) {
	if s.verifier == nil {
		return nil, fmt.Errorf("%w: google sign-in is not configured", ErrUnauthenticated)
	}
	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := s.userRepo.FindByUID(identity.Subject)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.User{
			UID:               identity.Subject,
			DisplayName:       identity.Name,
			Email:             identity.Email,
			PhotoURL:          identity.Picture,
			PreferredLanguage: model.LanguageEnglish,
			Role:              s.roleFor(identity.Email),
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, fmt.Errorf("%w: create user: %w", ErrStorage, err)
		}
		log.Infow("新用户通过 Google 登录", "userId", user.ID, "uid", user.UID)
	case err != nil:
		return nil, fmt.Errorf("%w: find user: %w", ErrStorage, err)
	default:
		if s.refreshProfile(user, identity) {
			if err := s.userRepo.Update(user); err != nil {
				return nil, fmt.Errorf("%w: update user: %w", ErrStorage, err)
			}
		}
	}

	return s.issueTokens(user)
}

// refreshProfile 同步身份提供方的资料，返回是否有变化。
func (s *userService) refreshProfile(user *model.User, id *google.Identity) bool {
	changed := false
	if id.Name != "" && id.Name != user.DisplayName {
		user.DisplayName = id.Name
		changed = true
	}
	if id.Email != "" && id.Email != user.Email {
		user.Email = id.Email
		changed = true
	}
	if id.Picture != "" && id.Picture != user.PhotoURL {
		user.PhotoURL = id.Picture
		changed = true
	}
	if role := s.roleFor(user.Email); role == model.UserRoleAdmin && user.Role != role {
		user.Role = role
		changed = true
	}
	return changed
}

func (s *userService) roleFor(email string) string {
	if s.authCfg.IsAdminEmail(email) {
		return model.UserRoleAdmin
	}
	return model.UserRoleUser
}

func (s *userService) issueTokens(user *model.User) (*LoginResult, error) {
	accessToken, err := s.jwtManager.GenerateToken(user.ID, user.UID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.UID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &LoginResult{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

// GetProfile 根据用户 ID 获取用户详细信息。
func (s *userService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return user, nil
}

// UpdateLanguage 设置界面语言，只接受 en、hi、te。
func (s *userService) UpdateLanguage(userID uint, language string) (*model.User, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if !model.IsSupportedLanguage(language) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLanguage, language)
	}
	if err := s.userRepo.UpdateLanguage(userID, language); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return s.GetProfile(userID)
}

// Logout 将当前 access token（以及可选的 refresh token）加入黑名单直到过期。
func (s *userService) Logout(ctx context.Context, accessClaims *token.CustomClaims, refreshToken string) error {
	if accessClaims == nil {
		return fmt.Errorf("%w: missing token", ErrUnauthenticated)
	}
	if err := s.blacklist.Add(ctx, accessClaims.ID, token.RemainingTTL(accessClaims)); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if refreshToken == "" {
		return nil
	}
	refreshClaims, err := s.jwtManager.VerifyTyped(refreshToken, token.TypeRefresh)
	if err != nil || refreshClaims.UserID != accessClaims.UserID {
		// refresh token 无效时忽略，access token 已失效
		return nil
	}
	if err := s.blacklist.Add(ctx, refreshClaims.ID, token.RemainingTTL(refreshClaims)); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// RefreshToken 校验 refresh token 并轮换出一对新 token，旧 refresh token 随即失效。
func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.jwtManager.VerifyTyped(refreshToken, token.TypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	revoked, err := s.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: refresh token revoked", ErrUnauthenticated)
	}

	user, err := s.GetProfile(claims.UserID)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
	}
	if err != nil {
		return nil, err
	}

	if err := s.blacklist.Add(ctx, claims.ID, token.RemainingTTL(claims)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return s.issueTokens(user)
}

func (s *userService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	revoked, err := s.blacklist.Contains(ctx, tokenID)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return revoked, nil
}
