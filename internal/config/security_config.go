package config

import "time"

const defaultMaxBodyBytes = 64 << 10

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetMaxBodyBytes() int64 {
	n := GetEnvInt("MAX_BODY_BYTES", defaultMaxBodyBytes)
	if n <= 0 {
		return defaultMaxBodyBytes
	}
	return int64(n)
}

func (Security) GetReadTimeout() time.Duration {
	return GetEnvDuration("READ_TIMEOUT", 10*time.Second)
}

func (Security) GetWriteTimeout() time.Duration {
	return GetEnvDuration("WRITE_TIMEOUT", 10*time.Second)
}

// GetLogoutVerifyOwner enables the username check on logout. Off by default so
// logout revokes by token value alone.
func (Security) GetLogoutVerifyOwner() bool {
	return GetEnvBool("LOGOUT_VERIFY_OWNER", false)
}
