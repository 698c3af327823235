package models

type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Role           string `json:"role"` // admin, user
	HashedPassword string `json:"-"`
	IsActive       bool   `json:"is_active"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
