package membership

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current logical time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// IDGenerator produces globally unique membership identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random (v4) UUID strings.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }
