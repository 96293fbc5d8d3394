package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mihirt/rollcall/internal/model"
	"github.com/mihirt/rollcall/internal/utils"
)

// OperatorRepo provides data access to the operators table.
type OperatorRepo struct{ DB *sql.DB }

// NewOperatorRepo returns a new OperatorRepo bound to the given database.
func NewOperatorRepo(db *sql.DB) *OperatorRepo { return &OperatorRepo{DB: db} }

// Create inserts an operator and returns its id.  The email is
// lower-cased and the password hashed with bcrypt before storage.
func (r *OperatorRepo) Create(ctx context.Context, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO operators (email, password_hash) VALUES (?,?)",
		email, hash)
	if err != nil {
		// 1062 = MySQL duplicate entry
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ByEmail returns the operator with the given email.  sql.ErrNoRows is
// passed through when no such operator exists.
func (r *OperatorRepo) ByEmail(ctx context.Context, email string) (*model.Operator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var o model.Operator
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, password_hash, is_active, created_at FROM operators WHERE email=? LIMIT 1",
		email).Scan(&o.ID, &o.Email, &o.PasswordHash, &o.IsActive, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ByID returns the operator with the given id.  sql.ErrNoRows is passed
// through when no such operator exists.
func (r *OperatorRepo) ByID(ctx context.Context, id uint64) (*model.Operator, error) {
	var o model.Operator
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, password_hash, is_active, created_at FROM operators WHERE id=? LIMIT 1",
		id).Scan(&o.ID, &o.Email, &o.PasswordHash, &o.IsActive, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
