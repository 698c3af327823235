package repositories

import (
	"database/sql"

	"hercule/internal/platform/database"
	"hercule/internal/platform/models"
)

type UserRepository struct {
	db database.DBTX
}

func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (id, email, role, hashed_password, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, user.ID, user.Email, user.Role, user.HashedPassword, user.IsActive,
		user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT id, email, role, hashed_password, is_active, created_at, updated_at FROM users WHERE email = ?`
	return scanUser(r.db.QueryRow(query, email))
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	query := `SELECT id, email, role, hashed_password, is_active, created_at, updated_at FROM users WHERE id = ?`
	return scanUser(r.db.QueryRow(query, id))
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Role, &u.HashedPassword, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
