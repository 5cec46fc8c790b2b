package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus tracks where an auction is in its lifecycle. Transitions
// only move forward: ACTIVE to exactly one terminal state.
type AuctionStatus string

const (
	AuctionActive      AuctionStatus = "ACTIVE"
	AuctionEndedSold   AuctionStatus = "ENDED_SOLD"
	AuctionEndedNoSale AuctionStatus = "ENDED_NO_SALE"
	AuctionCancelled   AuctionStatus = "CANCELLED"
)

// IsTerminal reports whether the status allows no further transitions.
func (s AuctionStatus) IsTerminal() bool {
	return s == AuctionEndedSold || s == AuctionEndedNoSale || s == AuctionCancelled
}

// BidStatus tracks the standing of a recorded bid. Bids rejected by
// validation are never persisted, so there is no stored REJECTED state.
type BidStatus string

const (
	BidActive  BidStatus = "ACTIVE"  // current highest while the auction runs
	BidOutbid  BidStatus = "OUTBID"  // superseded by a higher bid
	BidWinning BidStatus = "WINNING" // final winner, set at auction close
)

// Auction represents a property listing under auction
type Auction struct {
	AuctionID     string           `json:"auction_id"`
	PropertyTitle string           `json:"property_title"`
	SellerID      string           `json:"seller_id"`
	SellerEmail   string           `json:"seller_email"`
	StartingPrice decimal.Decimal  `json:"starting_price"`
	ReservePrice  *decimal.Decimal `json:"reserve_price,omitempty"`
	BidIncrement  decimal.Decimal  `json:"bid_increment"`
	EndTime       time.Time        `json:"end_time"`
	Status        AuctionStatus    `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	EndedAt       *time.Time       `json:"ended_at,omitempty"`
}

// Bid represents a bidder's accepted bid on an auction
type Bid struct {
	BidID       string          `json:"bid_id"`
	AuctionID   string          `json:"auction_id"`
	BidderID    string          `json:"bidder_id"`
	BidderEmail string          `json:"bidder_email"`
	Amount      decimal.Decimal `json:"amount"`
	Status      BidStatus       `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}
