package models

import "time"

// User represents an engineer or operator in the database.
type User struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     *string   `db:"email"`
	Role      *string   `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
