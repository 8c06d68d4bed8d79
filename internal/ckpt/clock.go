package ckpt

import (
	"os"
	"os/user"
	"time"
)

// Clock abstracts time retrieval so checkpoint timestamps are deterministic
// in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Identity abstracts the invoking user's identity so tests are deterministic.
type Identity interface {
	Username() string
}

// OSIdentity resolves the identity from the operating system, falling back
// to the USER environment variable.
type OSIdentity struct{}

func (OSIdentity) Username() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}
