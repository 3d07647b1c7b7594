package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinimumOfferAmount(t *testing.T) {
	assert.Equal(t, 9_000_000.0, MinimumOfferAmount(10_000_000))
	assert.Equal(t, 4_500_000.0, MinimumOfferAmount(5_000_000))
	assert.Equal(t, 0.0, MinimumOfferAmount(0))
}

func TestOfferCanTransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    OfferStatus
		to      OfferStatus
		allowed bool
	}{
		{"pending to active", OfferStatusPendingVerification, OfferStatusActive, true},
		{"pending to rejected", OfferStatusPendingVerification, OfferStatusRejected, true},
		{"pending to withdrawn", OfferStatusPendingVerification, OfferStatusWithdrawn, true},
		{"pending cannot be accepted", OfferStatusPendingVerification, OfferStatusAccepted, false},
		{"pending cannot take deposit", OfferStatusPendingVerification, OfferStatusDepositPaid, false},

		{"active to accepted", OfferStatusActive, OfferStatusAccepted, true},
		{"active to rejected", OfferStatusActive, OfferStatusRejected, true},
		{"active to expired", OfferStatusActive, OfferStatusExpired, true},
		{"active to withdrawn", OfferStatusActive, OfferStatusWithdrawn, true},
		{"active cannot take deposit", OfferStatusActive, OfferStatusDepositPaid, false},

		{"accepted to deposit paid", OfferStatusAccepted, OfferStatusDepositPaid, true},
		{"accepted to withdrawn", OfferStatusAccepted, OfferStatusWithdrawn, true},
		{"accepted cannot be rejected", OfferStatusAccepted, OfferStatusRejected, false},

		{"rejected is terminal", OfferStatusRejected, OfferStatusActive, false},
		{"withdrawn is terminal", OfferStatusWithdrawn, OfferStatusActive, false},
		{"expired is terminal", OfferStatusExpired, OfferStatusAccepted, false},
		{"deposit paid is terminal", OfferStatusDepositPaid, OfferStatusWithdrawn, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offer := Offer{Status: tc.from}
			assert.Equal(t, tc.allowed, offer.CanTransitionTo(tc.to))
		})
	}
}

func TestOfferHasPassport(t *testing.T) {
	assert.False(t, (&Offer{}).HasPassport())
	assert.True(t, (&Offer{PassportKey: "private/passports/of-abc123/scan.jpg"}).HasPassport())
}
