package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Hangeony/DOT-DAILY/internal/config"
	"github.com/Hangeony/DOT-DAILY/internal/database"
	"github.com/Hangeony/DOT-DAILY/internal/models"
	"github.com/Hangeony/DOT-DAILY/pkg/auth"
	"github.com/Hangeony/DOT-DAILY/pkg/sns"
	"gorm.io/gorm"
)

type AuthService struct {
	db  *database.DB
	cfg *config.Config
}

func NewAuthService(db *database.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Request/Response types
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type SNSLoginRequest struct {
	AccessToken string `json:"accessToken"`
}

// SessionResult is the flat login payload the frontend expects.
type SessionResult struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Signup creates a local user and issues a first session.
func (s *AuthService) Signup(req *SignupRequest) (*SessionResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, &models.ValidationError{Field: "email", Message: "올바른 이메일을 입력해주세요."}
	}
	if len(req.Password) < 8 {
		return nil, &models.ValidationError{Field: "password", Message: "비밀번호는 8자 이상이어야 합니다."}
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, models.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = usernameFromEmail(email)
	}

	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: &hashed,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return s.issueSession(&user, models.ProviderLocal, models.AccountTypeCredentials, user.Email)
}

// Login authenticates an email/password pair.
// Failure modes are typed so the handler can keep the original response
// shapes: ErrUserNotFound becomes a top-level message, ErrInvalidCredentials
// a field-level error. 계정 존재 여부가 구분되는 동작은 원본 그대로다.
func (s *AuthService) Login(req *LoginRequest) (*SessionResult, error) {
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}

	if user.PasswordHash == nil || !auth.CheckPassword(req.Password, *user.PasswordHash) {
		return nil, models.ErrInvalidCredentials
	}

	return s.issueSession(&user, models.ProviderLocal, models.AccountTypeCredentials, user.Email)
}

// Logout removes the local-provider link only. Google/Kakao links for the
// same user survive. Deleting zero rows is not an error.
func (s *AuthService) Logout(userID uint) error {
	return s.db.
		Where("user_id = ? AND provider = ?", userID, models.ProviderLocal).
		Delete(&models.AuthAccount{}).Error
}

// Refresh rotates a refresh token. The presented token must still be the one
// persisted on the AuthAccount row; a token rotated out by a later login is
// rejected even if its signature and expiry are fine.
func (s *AuthService) Refresh(refreshToken string) (*SessionResult, error) {
	claims, err := auth.ValidateRefreshToken(refreshToken, s.cfg.JWTSecretKey)
	if err != nil {
		return nil, models.ErrInvalidRefreshToken
	}

	var account models.AuthAccount
	if err := s.db.Where("user_id = ? AND refresh_token = ?", claims.UserID, refreshToken).First(&account).Error; err != nil {
		return nil, models.ErrInvalidRefreshToken
	}

	var user models.User
	if err := s.db.First(&user, claims.UserID).Error; err != nil {
		return nil, models.ErrUserNotFound
	}

	return s.issueSession(&user, account.Provider, account.Type, account.ProviderAccountID)
}

// GoogleLogin exchanges a Google access token for a local session.
func (s *AuthService) GoogleLogin(accessToken string) (*SessionResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	googleUser, err := sns.VerifyGoogleToken(ctx, accessToken)
	if err != nil {
		return nil, errors.New("google 토큰 검증에 실패했습니다.")
	}
	if googleUser.Email == "" {
		return nil, errors.New("google 계정에 이메일이 없습니다.")
	}

	return s.socialLogin(models.ProviderGoogle, googleUser.ID, googleUser.Email, googleUser.Name)
}

// KakaoLogin exchanges a Kakao access token for a local session.
func (s *AuthService) KakaoLogin(accessToken string) (*SessionResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kakaoUser, err := sns.VerifyKakaoToken(ctx, accessToken)
	if err != nil {
		return nil, errors.New("kakao 토큰 검증에 실패했습니다.")
	}
	if kakaoUser.Email == "" {
		return nil, errors.New("kakao 계정에 이메일이 없습니다. 이메일 제공 동의가 필요합니다.")
	}

	return s.socialLogin(models.ProviderKakao, kakaoUser.ID, kakaoUser.Email, kakaoUser.Name)
}

// socialLogin finds or creates the user for a verified provider identity.
// The AuthAccount row itself is upserted by issueSession, so first and
// repeat logins share one path.
func (s *AuthService) socialLogin(provider, providerUserID, email, name string) (*SessionResult, error) {
	email = normalizeEmail(email)

	var user models.User
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		// 1. 기존 연동 계정이 있으면 그 유저로 로그인
		var account models.AuthAccount
		findErr := tx.Where("provider = ? AND provider_account_id = ?", provider, providerUserID).
			Preload("User").
			First(&account).Error
		if findErr == nil {
			user = account.User
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		// 2. 같은 이메일의 기존 유저가 있으면 계정을 연동
		userErr := tx.Where("email = ?", email).First(&user).Error
		if userErr == nil {
			return nil
		}
		if !errors.Is(userErr, gorm.ErrRecordNotFound) {
			return userErr
		}

		// 3. 신규 유저 생성 (OAuth 전용이라 password_hash 없음)
		username := strings.TrimSpace(name)
		if username == "" {
			username = usernameFromEmail(email)
		}
		user = models.User{
			Email:    email,
			Username: username,
		}
		return tx.Create(&user).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.issueSession(&user, provider, models.AccountTypeOAuth, providerUserID)
}

// issueSession mints the token pair and upserts the (user, provider)
// AuthAccount row with the new refresh token. Update-in-place when the row
// exists, insert otherwise; login twice never produces two rows.
func (s *AuthService) issueSession(user *models.User, provider, accountType, providerAccountID string) (*SessionResult, error) {
	accessToken, refreshToken, err := auth.GenerateTokenPair(
		user.ID,
		user.Username,
		user.Email,
		s.cfg.JWTSecretKey,
		s.cfg.JWTAccessTokenExpireMin,
		s.cfg.JWTRefreshTokenExpireDays,
	)
	if err != nil {
		return nil, err
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var account models.AuthAccount
		findErr := tx.Where("user_id = ? AND provider = ?", user.ID, provider).First(&account).Error
		if findErr == nil {
			return tx.Model(&account).Updates(map[string]interface{}{
				"type":                accountType,
				"provider_account_id": providerAccountID,
				"refresh_token":       refreshToken,
			}).Error
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		account = models.AuthAccount{
			UserID:            user.ID,
			Provider:          provider,
			Type:              accountType,
			ProviderAccountID: providerAccountID,
			RefreshToken:      &refreshToken,
		}
		return tx.Create(&account).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	return &SessionResult{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// normalizeEmail lowercases the domain portion of the email address.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 {
		return parts[0] + "@" + strings.ToLower(parts[1])
	}
	return email
}

// usernameFromEmail falls back to the local part when no name was given.
func usernameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
