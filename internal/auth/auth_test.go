package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/cache"
	"jp_storefront/internal/config"
	"jp_storefront/internal/models"
	"jp_storefront/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct{ to, subject, html string }

type recordingMailer struct{ sent []sentMail }

func (r *recordingMailer) SendHTML(_ context.Context, _, to, subject, html string) error {
	r.sent = append(r.sent, sentMail{to, subject, html})
	return nil
}

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis, *recordingMailer) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		JWTSecret:   "test-secret",
		BaseURL:     "https://shop.example",
		AdminEmails: []string{"owner@jp.example"},
	}
	mailer := &recordingMailer{}
	return NewService(repository.NewMemory(), cache.NewTokens(rdb), mailer, cfg), mr, mailer
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, IsArgon2Hash(hash))

	ok, err := VerifyPassword("correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong horse", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("x", "$2a$10$bcrypt")
	assert.ErrorIs(t, err, ErrMalformedHash)

	other, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salt must differ")
}

func TestJWTRoundTrip(t *testing.T) {
	u := models.User{Email: "a@b.c", Role: models.RoleAdmin}
	token, claims, err := GenerateJWT([]byte("k"), u, time.Now())
	require.NoError(t, err)

	parsed, err := ParseJWT([]byte("k"), token)
	require.NoError(t, err)
	assert.Equal(t, claims.TokenID, parsed.TokenID)
	assert.Equal(t, "a@b.c", parsed.Email)
	assert.True(t, parsed.IsAdmin())

	_, err = ParseJWT([]byte("other"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := GenerateJWT([]byte("k"), u, time.Now().Add(-2*TokenTTL))
	require.NoError(t, err)
	_, err = ParseJWT([]byte("k"), expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, SignUpInput{Email: " Priya@Example.com ", Password: "password1", Name: "Priya"})
	require.NoError(t, err)
	assert.Equal(t, "priya@example.com", u.Email)
	assert.Equal(t, models.RoleCustomer, u.Role)

	_, err = svc.SignUp(ctx, SignUpInput{Email: "priya@example.com", Password: "password2"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	token, signedIn, err := svc.SignIn(ctx, "PRIYA@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, signedIn.ID)

	claims, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.False(t, claims.IsAdmin())
}

func TestSignUpValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SignUp(context.Background(), SignUpInput{Email: "nope", Password: "short"})
	var verrs apperr.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("email"))
	assert.True(t, verrs.Has("password"))
}

func TestAdminEmailGetsAdminRole(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, SignUpInput{Email: "Owner@jp.example", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	isAdmin, err := svc.IsAdmin(ctx, u.ID.String())
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestSignInLocksAfterFailedAttempts(t *testing.T) {
	svc, mr, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, SignUpInput{Email: "priya@example.com", Password: "password1"})
	require.NoError(t, err)

	for i := 0; i < MaxLoginAttempts; i++ {
		_, _, err := svc.SignIn(ctx, "priya@example.com", "bad-password")
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	}
	_, _, err = svc.SignIn(ctx, "priya@example.com", "password1")
	assert.ErrorIs(t, err, apperr.ErrRateLimited)

	mr.FastForward(LoginWindow + time.Second)
	_, _, err = svc.SignIn(ctx, "priya@example.com", "password1")
	assert.NoError(t, err)
}

func TestSignOutRevokesToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, SignUpInput{Email: "priya@example.com", Password: "password1"})
	require.NoError(t, err)
	token, _, err := svc.SignIn(ctx, "priya@example.com", "password1")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, token))
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

var tokenRe = regexp.MustCompile(`token=([A-Za-z0-9_-]+)`)

func TestPasswordResetFlow(t *testing.T) {
	svc, _, mailer := newTestService(t)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, SignUpInput{Email: "priya@example.com", Password: "password1", Name: "Priya"})
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, "nobody@example.com"))
	assert.Empty(t, mailer.sent)

	require.NoError(t, svc.RequestPasswordReset(ctx, "priya@example.com"))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "priya@example.com", mailer.sent[0].to)
	assert.True(t, strings.Contains(mailer.sent[0].html, "https://shop.example/reset-password?token="))

	m := tokenRe.FindStringSubmatch(mailer.sent[0].html)
	require.Len(t, m, 2)

	require.NoError(t, svc.ResetPassword(ctx, m[1], "new-password"))
	_, _, err = svc.SignIn(ctx, "priya@example.com", "new-password")
	assert.NoError(t, err)

	err = svc.ResetPassword(ctx, m[1], "another-password")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized, "tokens are single use")
}

func TestUpdatePassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	u, err := svc.SignUp(ctx, SignUpInput{Email: "priya@example.com", Password: "password1"})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, u.ID.String(), "short")
	var verrs apperr.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	require.NoError(t, svc.UpdatePassword(ctx, u.ID.String(), "password2"))
	_, _, err = svc.SignIn(ctx, "priya@example.com", "password1")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, _, err = svc.SignIn(ctx, "priya@example.com", "password2")
	assert.NoError(t, err)
}
