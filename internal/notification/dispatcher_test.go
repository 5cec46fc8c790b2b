package notification

import (
	"testing"

	"github.com/stretchr/testify/require"

	"realty-auctions/internal/auctionerrors"
)

func TestValidAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{name: "plain", address: "bidder@example.com", want: true},
		{name: "subdomain", address: "bidder@mail.example.co.uk", want: true},
		{name: "plus_tag", address: "bidder+auctions@example.com", want: true},
		{name: "dotted_local", address: "first.last@example.com", want: true},
		{name: "empty", address: "", want: false},
		{name: "missing_at", address: "bidder.example.com", want: false},
		{name: "missing_domain", address: "bidder@", want: false},
		{name: "missing_tld", address: "bidder@example", want: false},
		{name: "spaces", address: "bid der@example.com", want: false},
		{name: "double_at", address: "bidder@@example.com", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, ValidAddress(tc.address))
		})
	}
}

// An invalid recipient must fail before the dispatcher touches the network,
// so pointing at an unreachable host is safe here.
func TestSMTPDispatcher_Send_InvalidAddress(t *testing.T) {
	t.Parallel()

	d := NewSMTPDispatcher("smtp.invalid", 587, "", "", "auctions@localhost")
	err := d.Send(Event{
		Type:          EventOutbid,
		Recipient:     "not-an-address",
		PropertyTitle: "14 Harbor View Drive",
	})
	require.ErrorIs(t, err, auctionerrors.ErrInvalidAddress)
	require.Contains(t, err.Error(), "not-an-address")
}

func TestLogDispatcher_Send(t *testing.T) {
	t.Parallel()

	var d LogDispatcher
	require.NoError(t, d.Send(Event{
		Type:          EventAuctionWon,
		Recipient:     "winner@example.com",
		PropertyTitle: "14 Harbor View Drive",
	}))

	err := d.Send(Event{Type: EventAuctionWon, Recipient: "bogus"})
	require.ErrorIs(t, err, auctionerrors.ErrInvalidAddress)
}
