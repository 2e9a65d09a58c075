package domain

import (
	"slices"
	"time"
)

// MembershipStatus represents the state of a merchant membership.
type MembershipStatus string

const (
	MembershipStatusActive   MembershipStatus = "Active"
	MembershipStatusInactive MembershipStatus = "Inactive"
)

// Membership represents a merchant loyalty membership.
type Membership struct {
	Creator          Principal        `json:"creator"`
	ID               string           `json:"id"`
	MerchantName     string           `json:"merchant_name"`
	RegistrationDate time.Time        `json:"registration_date"`
	ExpirationDate   string           `json:"expiration_date"`
	Members          []Principal      `json:"members"`
	Benefits         []string         `json:"benefits"`
	Status           MembershipStatus `json:"status"`
}

// MembershipPayload holds the caller-supplied fields of a new membership.
type MembershipPayload struct {
	MerchantName   string   `json:"merchant_name"`
	ExpirationDate string   `json:"expiration_date"`
	Benefits       []string `json:"benefits"`
}

// Validate returns ErrValidation if a required field is missing.
func (p MembershipPayload) Validate() error {
	if p.MerchantName == "" || p.ExpirationDate == "" {
		return ErrValidation
	}
	return nil
}

// IsActive returns true unless the membership has been deactivated.
func (m *Membership) IsActive() bool {
	return m.Status != MembershipStatusInactive
}

// IsOwnedBy reports whether p created the membership.
func (m *Membership) IsOwnedBy(p Principal) bool {
	return m.Creator == p
}

// Clone returns a deep copy so callers never share slices with the store.
func (m *Membership) Clone() *Membership {
	if m == nil {
		return nil
	}
	c := *m
	c.Members = slices.Clone(m.Members)
	c.Benefits = slices.Clone(m.Benefits)
	return &c
}
