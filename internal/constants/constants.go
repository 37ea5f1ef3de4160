package constants

import "time"

// Context keys set by the authentication middleware
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
)

// Account rules
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 6
	// bcrypt ignores input beyond 72 bytes; x/crypto rejects it outright.
	MaxPasswordLength = 72
)

// TokenValidity is the lifetime of an issued session token.
const TokenValidity = 24 * time.Hour

// MaxAIGeneratedTasks caps how many suggestions a single generate call may return.
const MaxAIGeneratedTasks = 20

// Store drivers accepted by STORE_DRIVER
const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMySQL    = "mysql"
	StoreDriverSQLite   = "sqlite"
)
