package model

import "time"

// Operator is a staff account allowed to manage events, import rosters
// and perform check-ins.  Authentication state (refresh tokens) is kept
// in a separate table and never embedded here.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – login email, stored lower-cased, unique.
//  PasswordHash – bcrypt hash of the password.
//  IsActive     – soft-disable flag for revoking access.
//  CreatedAt    – timestamp when the record was created.
type Operator struct {
	ID           uint64    // operators.id
	Email        string    // operators.email
	PasswordHash string    // operators.password_hash
	IsActive     bool      // operators.is_active
	CreatedAt    time.Time // operators.created_at
}
