package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"realty-auctions/internal/auctionerrors"
	"realty-auctions/internal/cache"
	model "realty-auctions/internal/models"
	"realty-auctions/internal/notification"
	"realty-auctions/internal/repository"
	"realty-auctions/utils"
)

// Outcome is the definitive result of resolving an auction
type Outcome struct {
	Auction         model.Auction        `json:"auction"`
	WinningBid      *model.Bid           `json:"winning_bid,omitempty"`
	Notifications   []notification.Event `json:"-"`
	AlreadyResolved bool                 `json:"already_resolved"`
}

// AuctionResolver closes auctions: it determines sold/no-sale, finalizes the
// winning bid, and fans out notifications to every interested party. The
// decision step builds the event list; dispatch happens afterwards so a
// delivery failure can never affect the state transition.
type AuctionResolver struct {
	repo       repository.AuctionDB
	dispatcher notification.Dispatcher
	cache      cache.Cache // nil disables invalidation
}

// NewAuctionResolver creates a new AuctionResolver instance
func NewAuctionResolver(repo repository.AuctionDB, dispatcher notification.Dispatcher, c cache.Cache) *AuctionResolver {
	return &AuctionResolver{
		repo:       repo,
		dispatcher: dispatcher,
		cache:      c,
	}
}

// Resolve ends an auction. Resolving an already-terminal auction is a no-op:
// the existing outcome is returned and no notifications are sent.
func (r *AuctionResolver) Resolve(ctx context.Context, auctionID string) (Outcome, error) {
	if auctionID == "" {
		return Outcome{}, fmt.Errorf("resolver: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}

	outcome, err := r.resolveOnce(ctx, auctionID)
	if errors.Is(err, auctionerrors.ErrConflict) {
		// a bid landed between our highest-bid read and the close; the
		// outcome must be re-decided on the fresh state
		outcome, err = r.resolveOnce(ctx, auctionID)
	}
	return outcome, err
}

// resolveOnce runs one decide+close attempt against current state
func (r *AuctionResolver) resolveOnce(ctx context.Context, auctionID string) (Outcome, error) {
	auction, err := r.repo.GetAuction(auctionID)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolver: failed to load auction %s: %w", auctionID, err)
	}
	if auction.Status.IsTerminal() {
		return r.terminalOutcome(auction), nil
	}

	highest, err := r.repo.GetCurrentHighest(auctionID)
	noBids := errors.Is(err, auctionerrors.ErrNoBids)
	if err != nil && !noBids {
		return Outcome{}, fmt.Errorf("resolver: failed to read final highest bid for auction %s: %w", auctionID, err)
	}

	expected := ""
	if !noBids {
		expected = highest.BidID
	}
	now := time.Now().UTC()

	if noBids || (auction.ReservePrice != nil && highest.Amount.LessThan(*auction.ReservePrice)) {
		closed, err := r.repo.CloseAuction(auctionID, model.AuctionEndedNoSale, "", expected, now)
		if errors.Is(err, auctionerrors.ErrAuctionNotActive) {
			// lost the race with a concurrent resolution
			return r.terminalOutcome(closed), nil
		}
		if err != nil {
			return Outcome{}, fmt.Errorf("resolver: failed to close auction %s: %w", auctionID, err)
		}

		message := "Auction ended below the reserve price"
		if noBids {
			message = "Auction ended with no bids"
		}
		events := []notification.Event{{
			Type:          notification.EventAuctionNoSale,
			Recipient:     closed.SellerEmail,
			PropertyTitle: closed.PropertyTitle,
			Message:       message,
		}}
		r.dispatch(events)
		r.invalidate(ctx, auctionID)
		return Outcome{Auction: closed, Notifications: events}, nil
	}

	closed, err := r.repo.CloseAuction(auctionID, model.AuctionEndedSold, highest.BidID, expected, now)
	if errors.Is(err, auctionerrors.ErrAuctionNotActive) {
		return r.terminalOutcome(closed), nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("resolver: failed to close auction %s: %w", auctionID, err)
	}
	highest.Status = model.BidWinning

	events := r.soldEvents(closed, highest)
	r.dispatch(events)
	r.invalidate(ctx, auctionID)
	return Outcome{Auction: closed, WinningBid: &highest, Notifications: events}, nil
}

// Cancel withdraws an ACTIVE auction without a sale. Cancelling an already
// cancelled auction is a no-op; any other terminal state is an error.
func (r *AuctionResolver) Cancel(ctx context.Context, auctionID string) (model.Auction, error) {
	if auctionID == "" {
		return model.Auction{}, fmt.Errorf("resolver: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}

	closed, err := r.cancelOnce(ctx, auctionID)
	if errors.Is(err, auctionerrors.ErrConflict) {
		closed, err = r.cancelOnce(ctx, auctionID)
	}
	return closed, err
}

func (r *AuctionResolver) cancelOnce(ctx context.Context, auctionID string) (model.Auction, error) {
	expected := ""
	if highest, err := r.repo.GetCurrentHighest(auctionID); err == nil {
		expected = highest.BidID
	} else if !errors.Is(err, auctionerrors.ErrNoBids) {
		return model.Auction{}, fmt.Errorf("resolver: failed to read highest bid for auction %s: %w", auctionID, err)
	}

	now := time.Now().UTC()
	closed, err := r.repo.CloseAuction(auctionID, model.AuctionCancelled, "", expected, now)
	if errors.Is(err, auctionerrors.ErrAuctionNotActive) && closed.Status == model.AuctionCancelled {
		return closed, nil
	}
	if err != nil {
		if errors.Is(err, auctionerrors.ErrConflict) {
			return model.Auction{}, err
		}
		return model.Auction{}, fmt.Errorf("resolver: failed to cancel auction %s: %w", auctionID, err)
	}

	r.invalidate(ctx, auctionID)
	return closed, nil
}

// soldEvents builds the fan-out for a sale: winner, every losing bidder, seller
func (r *AuctionResolver) soldEvents(auction model.Auction, winning model.Bid) []notification.Event {
	events := []notification.Event{{
		Type:          notification.EventAuctionWon,
		Recipient:     winning.BidderEmail,
		PropertyTitle: auction.PropertyTitle,
		Amount:        winning.Amount,
	}}

	history, err := r.repo.GetBidHistory(auction.AuctionID)
	if err != nil {
		utils.Warn("resolver: failed to load bid history for loser notifications", map[string]any{
			"auction_id": auction.AuctionID,
			"error":      err.Error(),
		})
	}
	seen := map[string]bool{winning.BidderID: true}
	for _, bid := range history {
		if seen[bid.BidderID] {
			continue
		}
		seen[bid.BidderID] = true
		events = append(events, notification.Event{
			Type:          notification.EventAuctionLost,
			Recipient:     bid.BidderEmail,
			PropertyTitle: auction.PropertyTitle,
			Amount:        winning.Amount,
		})
	}

	events = append(events, notification.Event{
		Type:            notification.EventAuctionSold,
		Recipient:       auction.SellerEmail,
		PropertyTitle:   auction.PropertyTitle,
		Amount:          winning.Amount,
		CounterpartName: winning.BidderID,
	})
	return events
}

// dispatch sends each event independently; one failure never blocks the rest
func (r *AuctionResolver) dispatch(events []notification.Event) {
	for _, ev := range events {
		if err := r.dispatcher.Send(ev); err != nil {
			utils.Error("resolver: failed to send notification", map[string]any{
				"type":      string(ev.Type),
				"recipient": ev.Recipient,
				"error":     err.Error(),
			})
		}
	}
}

// terminalOutcome reports an already-resolved auction without side effects
func (r *AuctionResolver) terminalOutcome(auction model.Auction) Outcome {
	outcome := Outcome{Auction: auction, AlreadyResolved: true}
	if auction.Status == model.AuctionEndedSold {
		if winning, err := r.repo.GetCurrentHighest(auction.AuctionID); err == nil {
			outcome.WinningBid = &winning
		}
	}
	return outcome
}

func (r *AuctionResolver) invalidate(ctx context.Context, auctionID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, cache.BidHistoryKey(auctionID), cache.HighestBidKey(auctionID)); err != nil {
		utils.Warn("resolver: failed to invalidate auction cache", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
	}
}
