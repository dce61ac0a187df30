package model

import "time"

// Account roles stored in users.role.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// User mirrors the `users` table.  Role is either ADMIN or CUSTOMER.
// These structs are used internally by the repository layer; handlers
// define their own response types with JSON tags.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username (unique)
	Email        string    // users.email (unique)
	PasswordHash string    // users.password_hash
	Role         string    // users.role (ADMIN | CUSTOMER)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
