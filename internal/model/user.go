package model

import "time"

// Role names are a closed set.  The authentication layer stamps one of
// these into the JWT "role" claim and every authorization decision in the
// system is made against them.  There is deliberately no policy engine
// beyond the three fixed roles.
const (
	RoleCustomer = "customer"
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// ValidRole reports whether the given string is one of the three known
// role names.
func ValidRole(r string) bool {
	return r == RoleCustomer || r == RoleEmployee || r == RoleAdmin
}

// Principal identifies an authenticated caller: an opaque user id plus one
// of the three fixed roles.  It is produced by the authentication layer
// and handed down to services; nothing in the core ever mutates it.
type Principal struct {
	ID   string // user document id
	Role string // one of RoleCustomer, RoleEmployee, RoleAdmin
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// User represents an account document in the `users` collection.  The
// password is stored only as a bcrypt hash.  The json tags double as the
// document field names in the store.
//
// Fields:
//  ID             – document id (UUID string).
//  Email          – unique email address, lower-cased.
//  FullName       – display name used in notification payloads.
//  Phone          – contact phone number.
//  Role           – role name (customer, employee, admin).
//  HashedPassword – bcrypt hash of the password.
//  IsActive       – whether the account is active.
//  CreatedAt      – timestamp of creation (UTC).
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	Phone          string    `json:"phone"`
	Role           string    `json:"role"`
	HashedPassword string    `json:"hashed_password"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// Principal returns the authorization view of the user.
func (u User) Principal() Principal { return Principal{ID: u.ID, Role: u.Role} }

// RefreshToken models an entry in the `refresh_tokens` collection.  Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation.  The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//  ID        – document id.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (nil if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	TokenHash string     `json:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
