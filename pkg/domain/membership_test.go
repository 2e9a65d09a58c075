package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestMembershipPayload_Validate(t *testing.T) {
	tests := []struct {
		name    string
		payload MembershipPayload
		wantErr bool
	}{
		{
			name:    "complete",
			payload: MembershipPayload{MerchantName: "Acme", ExpirationDate: "2099-01-01"},
			wantErr: false,
		},
		{
			name:    "benefits are optional",
			payload: MembershipPayload{MerchantName: "Acme", ExpirationDate: "2099-01-01", Benefits: nil},
			wantErr: false,
		},
		{
			name:    "missing merchant name",
			payload: MembershipPayload{ExpirationDate: "2099-01-01"},
			wantErr: true,
		},
		{
			name:    "missing expiration date",
			payload: MembershipPayload{MerchantName: "Acme"},
			wantErr: true,
		},
		{
			name:    "empty payload",
			payload: MembershipPayload{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestMembership_IsActive(t *testing.T) {
	tests := []struct {
		name   string
		status MembershipStatus
		want   bool
	}{
		{name: "active", status: MembershipStatusActive, want: true},
		{name: "inactive", status: MembershipStatusInactive, want: false},
		{name: "other status", status: "Expired", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Membership{Status: tt.status}
			if got := m.IsActive(); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMembership_IsOwnedBy(t *testing.T) {
	alice := MustParsePrincipal("alice")
	bob := MustParsePrincipal("bob")
	m := &Membership{Creator: alice}

	if !m.IsOwnedBy(MustParsePrincipal("alice")) {
		t.Error("IsOwnedBy should match an equal principal")
	}
	if m.IsOwnedBy(bob) {
		t.Error("IsOwnedBy should not match a different principal")
	}
}

func TestMembership_Clone(t *testing.T) {
	alice := MustParsePrincipal("alice")
	orig := &Membership{
		Creator:  alice,
		ID:       "m-1",
		Members:  []Principal{alice},
		Benefits: []string{"10% off"},
		Status:   MembershipStatusActive,
	}

	c := orig.Clone()
	c.Members = append(c.Members, MustParsePrincipal("bob"))
	c.Benefits[0] = "changed"

	if len(orig.Members) != 1 {
		t.Errorf("Members of original changed: %v", orig.Members)
	}
	if orig.Benefits[0] != "10% off" {
		t.Errorf("Benefits of original changed: %v", orig.Benefits)
	}

	var nilMembership *Membership
	if nilMembership.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestMembership_JSON(t *testing.T) {
	alice := MustParsePrincipal("alice")
	m := Membership{
		Creator:          alice,
		ID:               "m-1",
		MerchantName:     "Acme",
		RegistrationDate: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		ExpirationDate:   "2099-01-01",
		Members:          []Principal{alice},
		Benefits:         []string{"10% off"},
		Status:           MembershipStatusActive,
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"creator", "id", "merchant_name", "registration_date", "expiration_date", "members", "benefits", "status"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("JSON is missing key %q", key)
		}
	}
	if raw["creator"] != "alice" {
		t.Errorf("creator = %v, want %q", raw["creator"], "alice")
	}
}
