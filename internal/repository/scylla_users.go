package repository

import (
	"context"
	"time"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/models"

	"github.com/gocql/gocql"
)

const userColumns = `user_id, email, password_hash, name, phone, role, created_at`

func (s *Scylla) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == (gocql.UUID{}) {
		u.ID = gocql.TimeUUID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	applied, err := s.cas(ctx, `INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`, u.Email, u.ID)
	if err != nil {
		return apperr.Persistence("reserve email", err)
	}
	if !applied {
		return apperr.ErrConflict
	}

	err = s.query(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Phone, u.Role, u.CreatedAt).Exec()
	if err != nil {
		// release the email so the sign-up can be retried
		_ = s.query(ctx, `DELETE FROM users_by_email WHERE email = ?`, u.Email).Exec()
		return apperr.Persistence("insert user", err)
	}
	return nil
}

func (s *Scylla) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var id gocql.UUID
	if err := s.query(ctx, `SELECT user_id FROM users_by_email WHERE email = ?`, email).Scan(&id); err != nil {
		return nil, scanErr("get user by email", err)
	}
	return s.GetUserByID(ctx, id)
}

func (s *Scylla) GetUserByID(ctx context.Context, id gocql.UUID) (*models.User, error) {
	var u models.User
	err := s.query(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = ?`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, scanErr("get user", err)
	}
	return &u, nil
}

func (s *Scylla) UpdatePassword(ctx context.Context, id gocql.UUID, hash string) error {
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return err
	}
	return apperr.Persistence("update password",
		s.query(ctx, `UPDATE users SET password_hash = ? WHERE user_id = ?`, hash, id).Exec())
}
