package models

import "time"

// Member is a registered user. The ID is the stable external identity
// supplied by the identity provider; rows are created lazily on the first
// authenticated interaction and are immutable afterwards.
type Member struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Image     string    `json:"image" db:"image"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
