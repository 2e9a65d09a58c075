// Package repository persists memberships in an ordered key-value collection.
//
// Every backend keys records by membership ID and enumerates values in
// first-insertion order. Overwriting a key keeps its original position.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/tendant/simple-membership/pkg/domain"
)

// MembershipStore is the ordered key-value collection behind the registry.
type MembershipStore interface {
	// Get returns the membership stored under id or domain.ErrMembershipNotFound.
	Get(ctx context.Context, id string) (*domain.Membership, error)
	// Put inserts the membership, or overwrites the record with the same ID.
	Put(ctx context.Context, m *domain.Membership) error
	// Values returns every stored membership in insertion order.
	Values(ctx context.Context) ([]*domain.Membership, error)
	// Close releases resources held by the store.
	Close() error
}

// checkRecord rejects records holding a zero principal, which would not
// decode again once written.
func checkRecord(m *domain.Membership) error {
	if m.Creator.IsZero() || slices.ContainsFunc(m.Members, domain.Principal.IsZero) {
		return fmt.Errorf("membership %s has an empty principal: %w", m.ID, domain.ErrValidation)
	}
	return nil
}

func encodeMembership(m *domain.Membership) ([]byte, error) {
	if err := checkRecord(m); err != nil {
		return nil, err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode membership %s: %w", m.ID, err)
	}
	return data, nil
}

func decodeMembership(data []byte) (*domain.Membership, error) {
	var m domain.Membership
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode membership: %w", err)
	}
	return &m, nil
}
