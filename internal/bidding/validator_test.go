package bidding

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"realty-auctions/internal/auctionerrors"
	model "realty-auctions/internal/models"
)

func newActiveAuction(id string, startingPrice, increment int64, endTime time.Time) model.Auction {
	return model.Auction{
		AuctionID:     id,
		PropertyTitle: "14 Harbor View Drive",
		SellerID:      "seller1",
		SellerEmail:   "seller@example.com",
		StartingPrice: decimal.NewFromInt(startingPrice),
		BidIncrement:  decimal.NewFromInt(increment),
		EndTime:       endTime,
		Status:        model.AuctionActive,
		CreatedAt:     time.Now().UTC(),
	}
}

func TestValidateBid(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	endTime := now.Add(24 * time.Hour)

	highest := &model.Bid{
		BidID:       "bid1",
		AuctionID:   "auction1",
		BidderID:    "bidder1",
		BidderEmail: "bidder1@example.com",
		Amount:      decimal.NewFromInt(500000),
		Status:      model.BidActive,
		CreatedAt:   now.Add(-time.Hour),
	}

	tests := []struct {
		name          string
		auction       model.Auction
		highest       *model.Bid
		bidderID      string
		amount        int64
		now           time.Time
		expectedError error
	}{
		{
			name:          "first_bid_at_starting_price",
			auction:       newActiveAuction("auction1", 500000, 5000, endTime),
			highest:       nil,
			bidderID:      "bidder1",
			amount:        500000,
			now:           now,
			expectedError: nil,
		},
		{
			name:          "first_bid_above_starting_price",
			auction:       newActiveAuction("auction1", 500000, 5000, endTime),
			highest:       nil,
			bidderID:      "bidder1",
			amount:        520000,
			now:           now,
			expectedError: nil,
		},
		{
			name:          "first_bid_below_starting_price",
			auction:       newActiveAuction("auction1", 500000, 5000, endTime),
			highest:       nil,
			bidderID:      "bidder1",
			amount:        499999,
			now:           now,
			expectedError: auctionerrors.ErrBidTooLow,
		},
		{
			name:          "valid_outbid_at_increment",
			auction:       newActiveAuction("auction1", 500000, 5000, endTime),
			highest:       highest,
			bidderID:      "bidder2",
			amount:        505000,
			now:           now,
			expectedError: nil,
		},
		{
			name:          "bid_equal_to_highest",
			auction:       newActiveAuction("auction1", 500000, 5000, endTime),
			highest:       highest,
			bidderID:      "bidder2",
			amount:        500000,
			now:           now,
			expectedError: auctionerrors.ErrBidTooLow,
		},
		{
			name:          "bid_below_highest",
			auction:       newActiveAuction("auction1", 500000, 5000, endTime),
			highest:       highest,
			bidderID:      "bidder2",
			amount:        490000,
			now:           now,
			expectedError: auctionerrors.ErrBidTooLow,
		},
		{
			name:          "bid_above_highest_but_below_increment",
			auction:       newActiveAuction("auction1", 500000, 5000, endTime),
			highest:       highest,
			bidderID:      "bidder2",
			amount:        501000,
			now:           now,
			expectedError: auctionerrors.ErrBelowIncrement,
		},
		{
			name:          "leading_bidder_cannot_raise_own_bid",
			auction:       newActiveAuction("auction1", 500000, 5000, endTime),
			highest:       highest,
			bidderID:      "bidder1",
			amount:        510000,
			now:           now,
			expectedError: auctionerrors.ErrAlreadyHighest,
		},
		{
			name:          "bid_after_end_time",
			auction:       newActiveAuction("expired-prop-123", 500000, 5000, endTime),
			highest:       nil,
			bidderID:      "bidder1",
			amount:        600000,
			now:           endTime.Add(time.Minute),
			expectedError: auctionerrors.ErrAuctionEnded,
		},
		{
			name:          "bid_exactly_at_end_time",
			auction:       newActiveAuction("auction1", 500000, 5000, endTime),
			highest:       nil,
			bidderID:      "bidder1",
			amount:        600000,
			now:           endTime,
			expectedError: auctionerrors.ErrAuctionEnded,
		},
		{
			name: "bid_on_cancelled_auction",
			auction: func() model.Auction {
				a := newActiveAuction("auction1", 500000, 5000, endTime)
				a.Status = model.AuctionCancelled
				return a
			}(),
			highest:       nil,
			bidderID:      "bidder1",
			amount:        600000,
			now:           now,
			expectedError: auctionerrors.ErrAuctionNotActive,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateBid(tc.auction, tc.highest, tc.bidderID, decimal.NewFromInt(tc.amount), tc.now)
			if tc.expectedError == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.expectedError)
			}
		})
	}
}

// The rejection reason carries the exact user-facing message, including the
// comma-grouped increment amount.
func TestValidateBid_BelowIncrementReason(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	auction := newActiveAuction("auction1", 500000, 5000, now.Add(time.Hour))
	highest := &model.Bid{
		BidID:    "bid1",
		BidderID: "bidder1",
		Amount:   decimal.NewFromInt(500000),
	}

	err := ValidateBid(auction, highest, "bidder2", decimal.NewFromInt(501000), now)
	require.ErrorIs(t, err, auctionerrors.ErrBelowIncrement)
	require.ErrorContains(t, err, "Bid must be at least $5,000 higher than current bid")
}
