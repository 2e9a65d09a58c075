// Package membership implements the merchant membership registry.
//
// The registry owns an ordered key-value store of memberships. Reads that
// expose a single record and every mutation are restricted to the caller
// that created the record.
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/tendant/simple-membership/pkg/domain"
	"github.com/tendant/simple-membership/pkg/events"
	"github.com/tendant/simple-membership/pkg/repository"
)

const (
	// InitialLoadSize is the number of memberships returned by InitialMemberships.
	InitialLoadSize = 4

	// ExpiredReminder is returned by MembershipExpiryReminder for lapsed memberships.
	ExpiredReminder = "Membership is expired. Please renew it."

	// expiryTimeLayout renders the current time for expiry comparison.
	expiryTimeLayout = "2006-01-02T15:04:05.000Z"
)

// Options holds the optional collaborators of a Registry.
type Options struct {
	Publisher events.Publisher
	Clock     Clock
	IDs       IDGenerator
	Logger    *slog.Logger
}

// Registry manages membership records.
type Registry struct {
	// mu serializes mutations; each one is a fetch, check and overwrite.
	mu        sync.RWMutex
	store     repository.MembershipStore
	publisher events.Publisher
	clock     Clock
	ids       IDGenerator
	logger    *slog.Logger
}

// NewRegistry creates a registry over store.
func NewRegistry(store repository.MembershipStore, opts Options) *Registry {
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.IDs == nil {
		opts.IDs = UUIDGenerator{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Registry{
		store:     store,
		publisher: opts.Publisher,
		clock:     opts.Clock,
		ids:       opts.IDs,
		logger:    opts.Logger,
	}
}

// InitialMemberships returns the first InitialLoadSize memberships in store order.
func (r *Registry) InitialMemberships(ctx context.Context) ([]*domain.Membership, error) {
	return r.LoadMoreMemberships(ctx, 0, InitialLoadSize)
}

// LoadMoreMemberships returns the memberships in [offset, offset+limit).
// Out-of-range windows yield an empty slice.
func (r *Registry) LoadMoreMemberships(ctx context.Context, offset, limit int) ([]*domain.Membership, error) {
	values, err := r.values(ctx)
	if err != nil {
		return nil, err
	}

	if offset < 0 || limit <= 0 || offset >= len(values) {
		return []*domain.Membership{}, nil
	}
	end := offset + limit
	if end > len(values) || end < offset {
		end = len(values)
	}
	return values[offset:end], nil
}

// GetMembership returns the membership with id if caller created it.
func (r *Registry) GetMembership(ctx context.Context, caller domain.Principal, id string) (*domain.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, err := r.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsOwnedBy(caller) {
		return nil, unauthorizedError("access this Membership")
	}
	return m, nil
}

// MembershipsByStatus returns every membership whose status equals status.
func (r *Registry) MembershipsByStatus(ctx context.Context, status domain.MembershipStatus) ([]*domain.Membership, error) {
	return r.filter(ctx, func(m *domain.Membership) bool {
		return m.Status == status
	})
}

// MembershipsByCreator returns every membership created by creator.
func (r *Registry) MembershipsByCreator(ctx context.Context, creator domain.Principal) ([]*domain.Membership, error) {
	return r.filter(ctx, func(m *domain.Membership) bool {
		return m.IsOwnedBy(creator)
	})
}

// CreateMembership validates payload and stores a new active membership
// owned by caller.
func (r *Registry) CreateMembership(ctx context.Context, caller domain.Principal, payload domain.MembershipPayload) (*domain.Membership, error) {
	if caller.IsZero() {
		return nil, domain.ErrValidation
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	m := &domain.Membership{
		Creator:          caller,
		ID:               r.ids.NewID(),
		MerchantName:     payload.MerchantName,
		RegistrationDate: r.clock.Now(),
		ExpirationDate:   payload.ExpirationDate,
		Members:          []domain.Principal{caller},
		Benefits:         slices.Clone(payload.Benefits),
		Status:           domain.MembershipStatusActive,
	}
	if m.Benefits == nil {
		m.Benefits = []string{}
	}

	r.mu.Lock()
	err := r.insert(ctx, m)
	r.mu.Unlock()
	if err != nil {
		r.logger.Error("failed to store membership", "error", err, "membership_id", m.ID)
		return nil, creationError(err)
	}

	r.logger.Info("membership created", "membership_id", m.ID, "caller", caller.String())
	r.publish(ctx, events.MembershipCreated, caller, m)
	return m.Clone(), nil
}

// AddMember appends member to the membership's member list.
// Duplicates are kept; the zero principal is rejected with ErrValidation.
func (r *Registry) AddMember(ctx context.Context, caller domain.Principal, id string, member domain.Principal) (*domain.Membership, error) {
	if member.IsZero() {
		return nil, domain.ErrValidation
	}
	return r.update(ctx, caller, id, "add a member", events.MembershipMemberAdded, func(m *domain.Membership) {
		m.Members = append(m.Members, member)
	})
}

// ExtendMembership replaces the expiration date verbatim.
func (r *Registry) ExtendMembership(ctx context.Context, caller domain.Principal, id, newExpirationDate string) (*domain.Membership, error) {
	return r.update(ctx, caller, id, "extend the membership", events.MembershipExtended, func(m *domain.Membership) {
		m.ExpirationDate = newExpirationDate
	})
}

// DeactivateMembership marks the membership inactive. Deactivating an
// inactive membership succeeds.
func (r *Registry) DeactivateMembership(ctx context.Context, caller domain.Principal, id string) (*domain.Membership, error) {
	return r.update(ctx, caller, id, "deactivate the membership", events.MembershipDeactivated, func(m *domain.Membership) {
		m.Status = domain.MembershipStatusInactive
	})
}

// UpdateMembershipBenefits replaces the benefit list wholesale.
func (r *Registry) UpdateMembershipBenefits(ctx context.Context, caller domain.Principal, id string, benefits []string) (*domain.Membership, error) {
	return r.update(ctx, caller, id, "update benefits", events.MembershipBenefitsUpdated, func(m *domain.Membership) {
		m.Benefits = slices.Clone(benefits)
		if m.Benefits == nil {
			m.Benefits = []string{}
		}
	})
}

// MembershipExpiryReminder returns ExpiredReminder when the membership has
// lapsed and is still active, and ErrNotExpiredOrInactive otherwise.
//
// Expiration dates are compared as strings against the current UTC time in
// ISO-8601 form, so they must be stored in a sortable ISO-8601 layout.
func (r *Registry) MembershipExpiryReminder(ctx context.Context, id string) (string, error) {
	now := ExpiryTime(r.clock.Now())

	r.mu.RLock()
	m, err := r.fetch(ctx, id)
	r.mu.RUnlock()
	if err != nil {
		return "", err
	}

	if m.ExpirationDate < now && m.IsActive() {
		return ExpiredReminder, nil
	}
	return "", domain.ErrNotExpiredOrInactive
}

// update runs a fetch, ownership check, mutate and overwrite under the
// write lock, then publishes the change.
func (r *Registry) update(
	ctx context.Context,
	caller domain.Principal,
	id, action string,
	eventType events.EventType,
	mutate func(m *domain.Membership),
) (*domain.Membership, error) {
	m, err := func() (*domain.Membership, error) {
		r.mu.Lock()
		defer r.mu.Unlock()

		m, err := r.fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		if !m.IsOwnedBy(caller) {
			return nil, unauthorizedError(action)
		}

		mutate(m)
		if err := r.store.Put(ctx, m); err != nil {
			r.logger.Error("failed to store membership", "error", err, "membership_id", id)
			return nil, fmt.Errorf("store membership %s: %w", id, err)
		}
		return m, nil
	}()
	if err != nil {
		return nil, err
	}

	r.logger.Info("membership updated", "membership_id", id, "caller", caller.String(), "event", string(eventType))
	r.publish(ctx, eventType, caller, m)
	return m.Clone(), nil
}

// insert stores a new record. An id already present is never overwritten.
func (r *Registry) insert(ctx context.Context, m *domain.Membership) error {
	_, err := r.store.Get(ctx, m.ID)
	switch {
	case err == nil:
		return fmt.Errorf("membership id %s already in use", m.ID)
	case !errors.Is(err, domain.ErrMembershipNotFound):
		return err
	}
	return r.store.Put(ctx, m)
}

func (r *Registry) fetch(ctx context.Context, id string) (*domain.Membership, error) {
	m, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrMembershipNotFound) {
			return nil, notFoundError(id)
		}
		return nil, fmt.Errorf("get membership %s: %w", id, err)
	}
	return m, nil
}

func (r *Registry) values(ctx context.Context) ([]*domain.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values, err := r.store.Values(ctx)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return values, nil
}

func (r *Registry) filter(ctx context.Context, keep func(m *domain.Membership) bool) ([]*domain.Membership, error) {
	values, err := r.values(ctx)
	if err != nil {
		return nil, err
	}

	matches := []*domain.Membership{}
	for _, m := range values {
		if keep(m) {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// publish never fails the operation; delivery errors are only logged.
func (r *Registry) publish(ctx context.Context, eventType events.EventType, caller domain.Principal, m *domain.Membership) {
	event := events.MembershipEvent{
		Type:         eventType,
		MembershipID: m.ID,
		Caller:       caller,
		OccurredAt:   r.clock.Now(),
		Membership:   m.Clone(),
	}
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.logger.Warn("failed to publish membership event", "error", err, "membership_id", m.ID, "event", string(eventType))
	}
}

// ExpiryTime renders t the way MembershipExpiryReminder renders the current time.
func ExpiryTime(t time.Time) string {
	return t.UTC().Format(expiryTimeLayout)
}
