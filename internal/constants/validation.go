package constants

// Field Length Limits
const (
	MinPasswordLength = 6
	MaxPasswordLength = 100
	MinNameLength     = 3
	MaxNameLength     = 50
	MinPhoneLength    = 10
	MaxPhoneLength    = 15
	MaxEmailLength    = 255
)

// Token Settings
const (
	AccessTokenExpirySeconds  = 15 * 60          // 15 minutes
	RefreshTokenExpirySeconds = 7 * 24 * 60 * 60 // 7 days
	ResetTokenExpirySeconds   = 15 * 60          // 15 minutes
	ResetTokenBytes           = 32               // 256 bits of entropy
)
