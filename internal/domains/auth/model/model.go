package model

import "time"

const (
	TableName  = "token_requests"
	EntityName = "token_request"

	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldTokenHash = "token_hash"
	FieldExpiresAt = "expires_at"
	FieldUsedAt    = "used_at"
)

// TokenRequest is a single use password reset token. Only the sha256 of the token is stored.
type TokenRequest struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}
