package domain

import (
	"errors"
	"strings"
)

// anonymousText is the text form of the unauthenticated caller.
const anonymousText = "2vxsx-fae"

// Principal is an opaque caller identity. Principals are compared with ==.
type Principal struct {
	text string
}

// AnonymousPrincipal is the identity of a caller that presented no token.
var AnonymousPrincipal = Principal{text: anonymousText}

var errEmptyPrincipal = errors.New("principal must not be empty")

// ParsePrincipal converts the text form of an identity into a Principal.
func ParsePrincipal(s string) (Principal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Principal{}, errEmptyPrincipal
	}
	return Principal{text: s}, nil
}

// MustParsePrincipal is like ParsePrincipal but panics on error.
func MustParsePrincipal(s string) Principal {
	p, err := ParsePrincipal(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the text form of the principal.
func (p Principal) String() string {
	return p.text
}

// IsZero reports whether p was never set.
func (p Principal) IsZero() bool {
	return p.text == ""
}

// IsAnonymous reports whether p is the unauthenticated caller.
func (p Principal) IsAnonymous() bool {
	return p == AnonymousPrincipal
}

// MarshalText implements encoding.TextMarshaler.
func (p Principal) MarshalText() ([]byte, error) {
	return []byte(p.text), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Principal) UnmarshalText(b []byte) error {
	parsed, err := ParsePrincipal(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
