package bidding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"realty-auctions/internal/auctionerrors"
	"realty-auctions/internal/cache"
	model "realty-auctions/internal/models"
	"realty-auctions/internal/notification"
	"realty-auctions/internal/repository"
	"realty-auctions/utils"
)

// cached query results stay fresh enough at this horizon; writes invalidate
const cacheTTL = 30 * time.Second

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	repo       repository.AuctionDB
	dispatcher notification.Dispatcher
	cache      cache.Cache // nil disables caching
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, dispatcher notification.Dispatcher, c cache.Cache) *BiddingService {
	return &BiddingService{
		repo:       repo,
		dispatcher: dispatcher,
		cache:      c,
	}
}

// CreateAuction validates and stores a new auction listing
func (s *BiddingService) CreateAuction(ctx context.Context, auction model.Auction) (model.Auction, error) {
	if auction.PropertyTitle == "" || auction.SellerID == "" || auction.SellerEmail == "" {
		return model.Auction{}, fmt.Errorf("service: %w - missing property title or seller", auctionerrors.ErrInvalidAuction)
	}
	if !auction.StartingPrice.IsPositive() || !auction.BidIncrement.IsPositive() {
		return model.Auction{}, fmt.Errorf("service: %w - starting price and bid increment must be positive", auctionerrors.ErrInvalidAuction)
	}
	if auction.ReservePrice != nil && auction.ReservePrice.LessThan(auction.StartingPrice) {
		return model.Auction{}, fmt.Errorf("service: %w - reserve price below starting price", auctionerrors.ErrInvalidAuction)
	}
	now := time.Now().UTC()
	if !auction.EndTime.After(now) {
		return model.Auction{}, fmt.Errorf("service: %w - end time must be in the future", auctionerrors.ErrInvalidAuction)
	}

	auction.AuctionID = utils.GenerateID()
	auction.Status = model.AuctionActive
	auction.CreatedAt = now
	auction.EndedAt = nil

	if err := s.repo.CreateAuction(auction); err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to create auction: %w", err)
	}
	return auction, nil
}

// GetAuction returns a single auction
func (s *BiddingService) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	if auctionID == "" {
		return model.Auction{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}
	auction, err := s.repo.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// ListAuctions returns all auctions
func (s *BiddingService) ListAuctions(ctx context.Context) ([]model.Auction, error) {
	auctions, err := s.repo.ListAuctions()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return auctions, nil
}

// PlaceBid validates and records a bid, notifying the outbid party.
// A concurrent-append conflict is retried once against fresh state.
func (s *BiddingService) PlaceBid(ctx context.Context, auctionID, bidderID, bidderEmail string, amount decimal.Decimal) (model.Bid, error) {
	if auctionID == "" || bidderID == "" || bidderEmail == "" {
		return model.Bid{}, fmt.Errorf("service: %w - missing auctionID, bidderID or bidderEmail", auctionerrors.ErrInvalidBid)
	}
	if !amount.IsPositive() {
		return model.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}

	bid, demoted, auction, err := s.tryPlaceBid(auctionID, bidderID, bidderEmail, amount)
	if errors.Is(err, auctionerrors.ErrConflict) {
		bid, demoted, auction, err = s.tryPlaceBid(auctionID, bidderID, bidderEmail, amount)
	}
	if err != nil {
		return model.Bid{}, err
	}

	s.invalidate(ctx, auctionID)

	if demoted != nil {
		s.notifyOutbid(auction, *demoted, bid)
	}
	return bid, nil
}

// tryPlaceBid runs one validate+append attempt against current state
func (s *BiddingService) tryPlaceBid(auctionID, bidderID, bidderEmail string, amount decimal.Decimal) (model.Bid, *model.Bid, model.Auction, error) {
	auction, err := s.repo.GetAuction(auctionID)
	if err != nil {
		return model.Bid{}, nil, model.Auction{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}

	var highest *model.Bid
	expectedHighestID := ""
	current, err := s.repo.GetCurrentHighest(auctionID)
	if err == nil {
		highest = &current
		expectedHighestID = current.BidID
	} else if !errors.Is(err, auctionerrors.ErrNoBids) {
		return model.Bid{}, nil, model.Auction{}, fmt.Errorf("service: failed to check current highest bid: %w", err)
	}

	now := time.Now().UTC()
	if err := ValidateBid(auction, highest, bidderID, amount, now); err != nil {
		return model.Bid{}, nil, model.Auction{}, fmt.Errorf("service: %w", err)
	}

	bid := model.Bid{
		BidID:       utils.GenerateID(),
		AuctionID:   auctionID,
		BidderID:    bidderID,
		BidderEmail: bidderEmail,
		Amount:      amount,
		CreatedAt:   now,
	}

	// the deadline is re-checked against a fresh clock inside the append
	stored, demoted, err := s.repo.AppendBid(bid, expectedHighestID, time.Now().UTC())
	if err != nil {
		return model.Bid{}, nil, model.Auction{}, fmt.Errorf("service: failed to record bid for auction %s by bidder %s: %w", auctionID, bidderID, err)
	}
	return stored, demoted, auction, nil
}

// notifyOutbid emails the superseded bidder. Delivery failure is logged and
// never affects the result of the bid that triggered it.
func (s *BiddingService) notifyOutbid(auction model.Auction, demoted model.Bid, newHighest model.Bid) {
	ev := notification.Event{
		Type:          notification.EventOutbid,
		Recipient:     demoted.BidderEmail,
		PropertyTitle: auction.PropertyTitle,
		Amount:        newHighest.Amount,
	}
	if err := s.dispatcher.Send(ev); err != nil {
		utils.Error("service: failed to send outbid notification", map[string]any{
			"auction_id": demoted.AuctionID,
			"bidder_id":  demoted.BidderID,
			"error":      err.Error(),
		})
	}
}

// GetBidHistory returns all bids for an auction, newest first
func (s *BiddingService) GetBidHistory(ctx context.Context, auctionID string) ([]model.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}

	key := cache.BidHistoryKey(auctionID)
	if s.cache != nil {
		var cached []model.Bid
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	bids, err := s.repo.GetBidHistory(auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bid history for auction %s: %w", auctionID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, bids, cacheTTL); err != nil {
			utils.Warn("service: failed to cache bid history", map[string]any{"auction_id": auctionID, "error": err.Error()})
		}
	}
	return bids, nil
}

// GetCurrentHighest returns the leading bid for an auction
func (s *BiddingService) GetCurrentHighest(ctx context.Context, auctionID string) (model.Bid, error) {
	if auctionID == "" {
		return model.Bid{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}

	key := cache.HighestBidKey(auctionID)
	if s.cache != nil {
		var cached model.Bid
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	bid, err := s.repo.GetCurrentHighest(auctionID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to get current highest bid for auction %s: %w", auctionID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, bid, cacheTTL); err != nil {
			utils.Warn("service: failed to cache highest bid", map[string]any{"auction_id": auctionID, "error": err.Error()})
		}
	}
	return bid, nil
}

// GetAuctionsByBidder returns all auctions a bidder has placed bids on
func (s *BiddingService) GetAuctionsByBidder(ctx context.Context, bidderID string) ([]model.Auction, error) {
	if bidderID == "" {
		return nil, fmt.Errorf("service: %w - empty bidder ID", auctionerrors.ErrInvalidBid)
	}

	auctions, err := s.repo.GetAuctionsByBidder(bidderID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get auctions for bidder %s: %w", bidderID, err)
	}
	return auctions, nil
}

func (s *BiddingService) invalidate(ctx context.Context, auctionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.BidHistoryKey(auctionID), cache.HighestBidKey(auctionID)); err != nil {
		utils.Warn("service: failed to invalidate auction cache", map[string]any{"auction_id": auctionID, "error": err.Error()})
	}
}
