package model

import "time"

// Role is the authorization level of a customer account.  The column is
// NOT NULL and always written explicitly, so a stored row carries one of
// the two values below.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a stored role string to a Role.  Anything that is not
// exactly "admin" is a plain customer.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleCustomer
}

// Customer represents a row in the `customers` table.  Email is stored
// trimmed and lower-cased; PasswordHash is a bcrypt hash and the plaintext
// is never stored.
type Customer struct {
	ID           uint64    // customers.customer_id
	FirstName    string    // customers.first_name
	LastName     string    // customers.last_name
	Email        string    // customers.email
	PasswordHash string    // customers.password_hash
	Role         Role      // customers.role
	CreatedAt    time.Time // customers.created_at
}

// IsAdmin reports whether the customer holds the admin role.
func (c Customer) IsAdmin() bool { return c.Role == RoleAdmin }
