package services

import (
	"testing"

	"github.com/Hangeony/DOT-DAILY/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	svc := NewAuthService(newTestDB(t), newTestConfig())

	session, err := svc.Signup(&SignupRequest{
		Email:    "woody@example.com",
		Password: "password123",
		Username: "woody",
	})
	require.NoError(t, err)
	assert.Equal(t, "woody", session.Username)
	assert.Equal(t, "woody@example.com", session.Email)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	loginSession, err := svc.Login(&LoginRequest{
		Email:    "woody@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, session.ID, loginSession.ID)
	assert.NotEmpty(t, loginSession.AccessToken)
}

func TestSignupValidation(t *testing.T) {
	svc := NewAuthService(newTestDB(t), newTestConfig())

	_, err := svc.Signup(&SignupRequest{Email: "not-an-email", Password: "password123"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	_, err = svc.Signup(&SignupRequest{Email: "woody@example.com", Password: "short"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newTestDB(t), newTestConfig())

	_, err := svc.Signup(&SignupRequest{Email: "woody@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Signup(&SignupRequest{Email: "woody@example.com", Password: "password456"})
	assert.ErrorIs(t, err, models.ErrEmailTaken)
}

func TestSignupUsernameFallsBackToEmailLocalPart(t *testing.T) {
	svc := NewAuthService(newTestDB(t), newTestConfig())

	session, err := svc.Signup(&SignupRequest{Email: "buzz@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "buzz", session.Username)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(newTestDB(t), newTestConfig())

	_, err := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestLoginWrongPasswordMintsNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	session, err := svc.Signup(&SignupRequest{Email: "woody@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(&LoginRequest{Email: "woody@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	// 실패한 로그인은 저장된 refresh token을 건드리지 않는다
	var account models.AuthAccount
	require.NoError(t, db.Where("user_id = ? AND provider = ?", session.ID, models.ProviderLocal).First(&account).Error)
	require.NotNil(t, account.RefreshToken)
	assert.Equal(t, session.RefreshToken, *account.RefreshToken)
}

func TestRepeatLoginUpsertsSingleAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	first, err := svc.Signup(&SignupRequest{Email: "woody@example.com", Password: "password123"})
	require.NoError(t, err)

	second, err := svc.Login(&LoginRequest{Email: "woody@example.com", Password: "password123"})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.AuthAccount{}).
		Where("user_id = ? AND provider = ?", first.ID, models.ProviderLocal).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// 재로그인은 refresh token을 회전시킨다
	var account models.AuthAccount
	require.NoError(t, db.Where("user_id = ? AND provider = ?", first.ID, models.ProviderLocal).First(&account).Error)
	require.NotNil(t, account.RefreshToken)
	assert.Equal(t, second.RefreshToken, *account.RefreshToken)
	assert.NotEqual(t, first.RefreshToken, *account.RefreshToken)
}

func TestRefreshRotation(t *testing.T) {
	svc := NewAuthService(newTestDB(t), newTestConfig())

	session, err := svc.Signup(&SignupRequest{Email: "woody@example.com", Password: "password123"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, session.ID, rotated.ID)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	// 회전되어 버려진 토큰은 서명이 유효해도 거부된다
	_, err = svc.Refresh(session.RefreshToken)
	assert.ErrorIs(t, err, models.ErrInvalidRefreshToken)

	// 새 토큰은 여전히 동작한다
	_, err = svc.Refresh(rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newTestDB(t), newTestConfig())

	_, err := svc.Refresh("not-a-jwt")
	assert.ErrorIs(t, err, models.ErrInvalidRefreshToken)
}

func TestLogoutRemovesLocalProviderOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	session, err := svc.Signup(&SignupRequest{Email: "woody@example.com", Password: "password123"})
	require.NoError(t, err)

	// 같은 이메일로 구글 로그인하면 기존 유저에 계정이 연동된다
	_, err = svc.socialLogin(models.ProviderGoogle, "google-uid-1", "woody@example.com", "Woody")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(session.ID))

	var localCount, googleCount int64
	require.NoError(t, db.Model(&models.AuthAccount{}).
		Where("user_id = ? AND provider = ?", session.ID, models.ProviderLocal).
		Count(&localCount).Error)
	require.NoError(t, db.Model(&models.AuthAccount{}).
		Where("user_id = ? AND provider = ?", session.ID, models.ProviderGoogle).
		Count(&googleCount).Error)
	assert.Equal(t, int64(0), localCount)
	assert.Equal(t, int64(1), googleCount)

	// 지울 행이 없어도 에러가 아니다
	assert.NoError(t, svc.Logout(session.ID))
}

func TestSocialLoginCreatesOAuthOnlyUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	session, err := svc.socialLogin(models.ProviderKakao, "kakao-uid-1", "jessie@example.com", "Jessie")
	require.NoError(t, err)
	assert.Equal(t, "Jessie", session.Username)

	var user models.User
	require.NoError(t, db.First(&user, session.ID).Error)
	assert.Nil(t, user.PasswordHash)

	// 같은 provider 계정으로 다시 로그인해도 유저와 계정은 하나씩이다
	again, err := svc.socialLogin(models.ProviderKakao, "kakao-uid-1", "jessie@example.com", "Jessie")
	require.NoError(t, err)
	assert.Equal(t, session.ID, again.ID)

	var userCount, accountCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.AuthAccount{}).
		Where("provider = ?", models.ProviderKakao).
		Count(&accountCount).Error)
	assert.Equal(t, int64(1), userCount)
	assert.Equal(t, int64(1), accountCount)
}

func TestSocialLoginLinksExistingEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	local, err := svc.Signup(&SignupRequest{Email: "woody@example.com", Password: "password123"})
	require.NoError(t, err)

	social, err := svc.socialLogin(models.ProviderGoogle, "google-uid-1", "woody@example.com", "Woody G")
	require.NoError(t, err)
	assert.Equal(t, local.ID, social.ID)

	var userCount, accountCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.AuthAccount{}).Where("user_id = ?", local.ID).Count(&accountCount).Error)
	assert.Equal(t, int64(1), userCount)
	assert.Equal(t, int64(2), accountCount)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "Woody@example.com", normalizeEmail("Woody@EXAMPLE.COM"))
	assert.Equal(t, "woody@example.com", normalizeEmail("  woody@example.com  "))
	assert.Equal(t, "", normalizeEmail("   "))
}
