package bidding

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"realty-auctions/internal/auctionerrors"
	model "realty-auctions/internal/models"
	"realty-auctions/utils"
)

// ValidateBid decides accept (nil) or reject (wrapped sentinel) for a
// proposed bid. It is a pure decision over the supplied state: the caller
// fetches the current highest bid (nil when there are none) and supplies
// the wall-clock time. The deadline comparison uses the passed now, which
// must be taken fresh for each submission.
func ValidateBid(auction model.Auction, highest *model.Bid, bidderID string, amount decimal.Decimal, now time.Time) error {
	if !now.Before(auction.EndTime) {
		return fmt.Errorf("auction %s: %w", auction.AuctionID, auctionerrors.ErrAuctionEnded)
	}
	if auction.Status != model.AuctionActive {
		return fmt.Errorf("auction %s is %s: %w", auction.AuctionID, auction.Status, auctionerrors.ErrAuctionNotActive)
	}

	if highest == nil {
		if amount.LessThan(auction.StartingPrice) {
			return fmt.Errorf("%w: Bid must be at least the starting price of %s",
				auctionerrors.ErrBidTooLow, utils.FormatUSD(auction.StartingPrice))
		}
		return nil
	}

	if amount.LessThanOrEqual(highest.Amount) {
		return fmt.Errorf("%w: Bid must be higher than the current bid of %s",
			auctionerrors.ErrBidTooLow, utils.FormatUSD(highest.Amount))
	}
	if amount.LessThan(highest.Amount.Add(auction.BidIncrement)) {
		return fmt.Errorf("%w: Bid must be at least %s higher than current bid",
			auctionerrors.ErrBelowIncrement, utils.FormatUSD(auction.BidIncrement))
	}
	if bidderID == highest.BidderID {
		return fmt.Errorf("%w: bidder %s already leads auction %s",
			auctionerrors.ErrAlreadyHighest, bidderID, auction.AuctionID)
	}
	return nil
}
