package repository

import (
	"context"
	"database/sql"
	"strings"
)

// UserFilters defines list filters.
type UserFilters struct {
	Role   string
	Search string
}

// UserRepo handles users.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Upsert(ctx context.Context, u User) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO users(id, role, full_name, email, phone, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 role=excluded.role,
	 full_name=excluded.full_name,
	 email=excluded.email,
	 phone=excluded.phone,
	 updated_at=CURRENT_TIMESTAMP;
	`, u.ID, u.Role, u.FullName, u.Email, u.Phone)
	return err
}

func (r *UserRepo) List(ctx context.Context, f UserFilters) ([]User, error) {
	var where []string
	var args []interface{}

	if f.Role != "" {
		where = append(where, "role = ?")
		args = append(args, f.Role)
	}
	if f.Search != "" {
		where = append(where, "(full_name LIKE ? OR email LIKE ?)")
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}

	query := "SELECT id, role, full_name, email, phone, created_at, updated_at FROM users"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY full_name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) Get(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, role, full_name, email, phone, created_at, updated_at FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func scanUser(row scanner) (User, error) {
	var u User
	var phone sql.NullString
	if err := row.Scan(&u.ID, &u.Role, &u.FullName, &u.Email, &phone, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	return u, nil
}

// scanner handles both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}
