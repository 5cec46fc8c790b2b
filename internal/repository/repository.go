package repository

import (
	"fmt"
	"sync"
	"time"

	"realty-auctions/internal/auctionerrors"
	model "realty-auctions/internal/models"
)

// AuctionDB defines the storage interface for the auction system.
//
// AppendBid is a compare-and-append: the caller passes the bid ID it
// observed as current highest (empty string for "no bids yet"), and the
// store rejects with ErrConflict if another bid has landed since. This
// serializes highest-bid updates per auction.
type AuctionDB interface {
	CreateAuction(auction model.Auction) error
	GetAuction(auctionID string) (model.Auction, error)
	ListAuctions() ([]model.Auction, error)
	GetAuctionsByBidder(bidderID string) ([]model.Auction, error)

	// AppendBid records an accepted bid and demotes the previous highest
	// bid (if any) to OUTBID. It returns the stored bid and the demoted
	// bid so the caller can notify the superseded bidder.
	AppendBid(bid model.Bid, expectedHighestBidID string, now time.Time) (model.Bid, *model.Bid, error)
	GetCurrentHighest(auctionID string) (model.Bid, error)
	GetBidHistory(auctionID string) ([]model.Bid, error)

	// CloseAuction transitions an ACTIVE auction to the given terminal
	// status. An already-terminal auction is returned unchanged together
	// with ErrAuctionNotActive so resolution stays idempotent. When
	// winningBidID is non-empty that bid is finalized as WINNING.
	// expectedHighestBidID is the bid the caller observed as current
	// highest (empty for none); if another bid has landed since, the
	// close is rejected with ErrConflict so the caller can re-decide the
	// outcome on fresh state.
	CloseAuction(auctionID string, status model.AuctionStatus, winningBidID, expectedHighestBidID string, endedAt time.Time) (model.Auction, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu             sync.RWMutex
	auctions       map[string]model.Auction // key: auctionID
	bids           map[string][]model.Bid   // key: auctionID -> bids in append order
	bidderAuctions map[string][]string      // key: bidderID -> auctionIDs bid on
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions:       make(map[string]model.Auction),
		bids:           make(map[string][]model.Bid),
		bidderAuctions: make(map[string][]string),
	}
}

// CreateAuction stores a new auction listing
func (r *MemoryRepo) CreateAuction(auction model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if auction.AuctionID == "" {
		return fmt.Errorf("create auction: missing auction ID: %w", auctionerrors.ErrInvalidAuction)
	}
	r.auctions[auction.AuctionID] = auction
	return nil
}

// GetAuction returns a single auction by ID
func (r *MemoryRepo) GetAuction(auctionID string) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return auction, nil
}

// ListAuctions returns all auctions
func (r *MemoryRepo) ListAuctions() ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auctions := make([]model.Auction, 0, len(r.auctions))
	for _, a := range r.auctions {
		auctions = append(auctions, a)
	}
	return auctions, nil
}

// GetAuctionsByBidder returns all auctions a bidder has placed bids on
func (r *MemoryRepo) GetAuctionsByBidder(bidderID string) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auctionIDs, ok := r.bidderAuctions[bidderID]
	if !ok || len(auctionIDs) == 0 {
		return nil, fmt.Errorf("get auctions for bidder %s: %w", bidderID, auctionerrors.ErrBidderNoBids)
	}

	auctions := make([]model.Auction, 0, len(auctionIDs))
	for _, id := range auctionIDs {
		if a, exists := r.auctions[id]; exists {
			auctions = append(auctions, a)
		}
	}
	return auctions, nil
}

// AppendBid records an accepted bid under the repo lock, re-checking the
// auction deadline and the expected highest bid against current state.
func (r *MemoryRepo) AppendBid(bid model.Bid, expectedHighestBidID string, now time.Time) (model.Bid, *model.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	auction, ok := r.auctions[bid.AuctionID]
	if !ok {
		return model.Bid{}, nil, fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	if auction.Status != model.AuctionActive {
		return model.Bid{}, nil, fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionNotActive)
	}
	// the deadline is authoritative: re-checked here, not only at validation
	if !now.Before(auction.EndTime) {
		return model.Bid{}, nil, fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionEnded)
	}

	bids := r.bids[bid.AuctionID]
	currentHighestID := ""
	if len(bids) > 0 {
		currentHighestID = bids[len(bids)-1].BidID
	}
	if currentHighestID != expectedHighestBidID {
		return model.Bid{}, nil, fmt.Errorf("append bid for auction %s: highest bid changed: %w", bid.AuctionID, auctionerrors.ErrConflict)
	}

	var demoted *model.Bid
	if len(bids) > 0 {
		bids[len(bids)-1].Status = model.BidOutbid
		d := bids[len(bids)-1]
		demoted = &d
	}

	bid.Status = model.BidActive
	r.bids[bid.AuctionID] = append(bids, bid)

	for _, id := range r.bidderAuctions[bid.BidderID] {
		if id == bid.AuctionID {
			return bid, demoted, nil
		}
	}
	r.bidderAuctions[bid.BidderID] = append(r.bidderAuctions[bid.BidderID], bid.AuctionID)

	return bid, demoted, nil
}

// GetCurrentHighest returns the leading bid for an auction
func (r *MemoryRepo) GetCurrentHighest(auctionID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[auctionID]
	if !ok || len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get current highest for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}
	// appends are monotonically increasing, the last bid leads
	return bids[len(bids)-1], nil
}

// GetBidHistory returns a snapshot of all bids for an auction, newest first
func (r *MemoryRepo) GetBidHistory(auctionID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[auctionID]
	if !ok || len(bids) == 0 {
		return nil, fmt.Errorf("get bid history for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}

	history := make([]model.Bid, 0, len(bids))
	for i := len(bids) - 1; i >= 0; i-- {
		history = append(history, bids[i])
	}
	return history, nil
}

// CloseAuction transitions an auction to a terminal status, re-checking the
// expected highest bid under the same lock that serializes appends.
func (r *MemoryRepo) CloseAuction(auctionID string, status model.AuctionStatus, winningBidID, expectedHighestBidID string, endedAt time.Time) (model.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("close auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if auction.Status.IsTerminal() {
		return auction, fmt.Errorf("close auction %s: %w", auctionID, auctionerrors.ErrAuctionNotActive)
	}
	if !status.IsTerminal() {
		return model.Auction{}, fmt.Errorf("close auction %s: %s is not a terminal status: %w", auctionID, status, auctionerrors.ErrInvalidAuction)
	}

	currentHighestID := ""
	if bids := r.bids[auctionID]; len(bids) > 0 {
		currentHighestID = bids[len(bids)-1].BidID
	}
	if currentHighestID != expectedHighestBidID {
		return model.Auction{}, fmt.Errorf("close auction %s: highest bid changed: %w", auctionID, auctionerrors.ErrConflict)
	}

	auction.Status = status
	auction.EndedAt = &endedAt
	r.auctions[auctionID] = auction

	if winningBidID != "" {
		bids := r.bids[auctionID]
		for i := range bids {
			if bids[i].BidID == winningBidID {
				bids[i].Status = model.BidWinning
				break
			}
		}
	}

	return auction, nil
}
