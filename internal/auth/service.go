// Package auth is email + password authentication: argon2id hashes, HS256
// tokens revocable through a Redis blacklist, and mailed reset links.
package auth

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"html/template"
	"strings"
	"time"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/cache"
	"jp_storefront/internal/config"
	"jp_storefront/internal/models"
	"jp_storefront/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"
)

const (
	MaxLoginAttempts = 5
	LoginWindow      = 15 * time.Minute
	ResetTokenTTL    = time.Hour
)

// Mailer sends the password reset email.
type Mailer interface {
	SendHTML(ctx context.Context, fromName, to, subject, html string) error
}

type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type Service struct {
	users    repository.UserRepository
	tokens   *cache.Tokens
	mailer   Mailer
	cfg      *config.Config
	secret   []byte
	validate *validator.Validate
	now      func() time.Time
}

func NewService(users repository.UserRepository, tokens *cache.Tokens, mailer Mailer, cfg *config.Config) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		cfg:      cfg,
		secret:   []byte(cfg.JWTSecret),
		validate: validator.New(),
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) roleFor(u *models.User) string {
	if u.Role == models.RoleAdmin || s.cfg.IsAdminEmail(u.Email) {
		return models.RoleAdmin
	}
	return models.RoleCustomer
}

// SignUp creates a customer account, or an admin one when the email is
// listed in ADMIN_EMAILS.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	var errs apperr.ValidationErrors
	if in.Email == "" || s.validate.Var(in.Email, "email") != nil {
		errs.Add("email", "a valid email is required")
	}
	if len(in.Password) < MinPasswordLength {
		errs.Add("password", "password must be at least 8 characters")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:           gocql.TimeUUID(),
		Email:        in.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		CreatedAt:    s.now(),
	}
	u.Role = s.roleFor(u)

	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", u.ID.String()).Str("role", u.Role).Msg("✅ Account created")
	return u, nil
}

// SignIn checks the credentials and issues a token. Failed attempts are
// counted per email; past MaxLoginAttempts the email is locked for the
// rest of the window.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *models.User, error) {
	email = normalizeEmail(email)
	key := cache.LoginAttemptsKey(email)

	attempts, err := s.tokens.GetRateLimit(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Login rate limit unavailable")
	}
	if attempts >= MaxLoginAttempts {
		return "", nil, apperr.ErrRateLimited
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return "", nil, err
	}
	if err == nil {
		if ok, _ := VerifyPassword(password, u.PasswordHash); ok {
			_ = s.tokens.ResetRateLimit(ctx, key)
			u.Role = s.roleFor(u)
			token, _, err := GenerateJWT(s.secret, *u, s.now())
			if err != nil {
				return "", nil, err
			}
			log.Info().Str("user_id", u.ID.String()).Msg("✅ Signed in")
			return token, u, nil
		}
	}

	if _, err := s.tokens.IncrementRateLimit(ctx, key, LoginWindow); err != nil {
		log.Warn().Err(err).Msg("⚠️ Login attempt not counted")
	}
	return "", nil, apperr.Unauthorized("invalid email or password")
}

// Authenticate verifies a bearer token and rejects revoked ones.
func (s *Service) Authenticate(ctx context.Context, token string) (Claims, error) {
	claims, err := ParseJWT(s.secret, token)
	if err != nil {
		return Claims{}, apperr.Unauthorized("invalid or expired token")
	}
	if claims.TokenID != "" && s.tokens.IsTokenBlacklisted(ctx, claims.TokenID) {
		return Claims{}, apperr.Unauthorized("token revoked")
	}
	return claims, nil
}

// SignOut revokes token until it would have expired anyway.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := ParseJWT(s.secret, token)
	if err != nil {
		return apperr.Unauthorized("invalid or expired token")
	}
	if claims.TokenID == "" {
		return nil
	}
	return s.tokens.BlacklistToken(ctx, claims.TokenID, claims.ExpiresAt.Sub(s.now()))
}

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; color: #1f2937;">
<h2 style="color: #15803d;">Reset your password</h2>
<p>Hello{{if .Name}} {{.Name}}{{end}},</p>
<p>We received a request to reset the password of your account. The link is valid for one hour.</p>
<p><a href="{{.Link}}" style="background: #16a34a; color: #fff; padding: 10px 18px; border-radius: 6px; text-decoration: none;">Choose a new password</a></p>
<p style="color: #6b7280; font-size: 12px;">If you did not ask for this, you can ignore this email.</p>
</body></html>`))

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// RequestPasswordReset mails a one-hour reset link. Unknown emails succeed
// silently so the endpoint does not reveal which accounts exist.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	if err := s.tokens.StoreResetToken(ctx, token, u.ID.String(), ResetTokenTTL); err != nil {
		return apperr.Persistence("store reset token", err)
	}

	var body bytes.Buffer
	link := strings.TrimRight(s.cfg.BaseURL, "/") + "/reset-password?token=" + token
	if err := resetTemplate.Execute(&body, struct{ Name, Link string }{u.Name, link}); err != nil {
		return err
	}
	if err := s.mailer.SendHTML(ctx, "", u.Email, "Reset your password", body.String()); err != nil {
		log.Error().Err(err).Str("user_id", u.ID.String()).Msg("❌ Reset email not sent")
		return nil
	}
	log.Info().Str("user_id", u.ID.String()).Msg("📧 Reset email sent")
	return nil
}

// ResetPassword spends a reset token. Each token works once.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return apperr.Invalid("password", "password must be at least 8 characters")
	}
	userID, err := s.tokens.ConsumeResetToken(ctx, token)
	if errors.Is(err, cache.ErrTokenNotFound) {
		return apperr.Unauthorized("reset token invalid or expired")
	}
	if err != nil {
		return apperr.Persistence("consume reset token", err)
	}
	return s.setPassword(ctx, userID, newPassword)
}

// UpdatePassword sets a new password for a signed-in user.
func (s *Service) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return apperr.Invalid("password", "password must be at least 8 characters")
	}
	return s.setPassword(ctx, userID, newPassword)
}

func (s *Service) setPassword(ctx context.Context, userID, password string) error {
	id, err := gocql.ParseUUID(userID)
	if err != nil {
		return apperr.ErrNotFound
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	log.Info().Str("user_id", userID).Msg("✅ Password updated")
	return nil
}

func (s *Service) User(ctx context.Context, userID string) (*models.User, error) {
	id, err := gocql.ParseUUID(userID)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = s.roleFor(u)
	return u, nil
}

func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	u, err := s.User(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.IsAdmin(), nil
}
