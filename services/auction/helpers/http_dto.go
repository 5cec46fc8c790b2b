package helpers

import (
	"time"

	"github.com/shopspring/decimal"

	model "realty-auctions/internal/models"
)

// Request/Response DTOs
type PlaceBidRequest struct {
	AuctionID   string          `json:"auction_id" binding:"required"`
	BidderID    string          `json:"bidder_id" binding:"required"`
	BidderEmail string          `json:"bidder_email" binding:"required,email"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

type CreateAuctionRequest struct {
	PropertyTitle string           `json:"property_title" binding:"required"`
	SellerID      string           `json:"seller_id" binding:"required"`
	SellerEmail   string           `json:"seller_email" binding:"required,email"`
	StartingPrice decimal.Decimal  `json:"starting_price" binding:"required"`
	ReservePrice  *decimal.Decimal `json:"reserve_price,omitempty"`
	BidIncrement  decimal.Decimal  `json:"bid_increment" binding:"required"`
	EndTime       time.Time        `json:"end_time" binding:"required"`
}

type BidResponse struct {
	BidID     string `json:"bid_id"`
	AuctionID string `json:"auction_id"`
	BidderID  string `json:"bidder_id"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type AuctionResponse struct {
	AuctionID     string  `json:"auction_id"`
	PropertyTitle string  `json:"property_title"`
	SellerID      string  `json:"seller_id"`
	StartingPrice string  `json:"starting_price"`
	ReservePrice  *string `json:"reserve_price,omitempty"`
	BidIncrement  string  `json:"bid_increment"`
	EndTime       string  `json:"end_time"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	EndedAt       *string `json:"ended_at,omitempty"`
}

type ResolutionResponse struct {
	Auction         AuctionResponse `json:"auction"`
	WinningBid      *BidResponse    `json:"winning_bid,omitempty"`
	AlreadyResolved bool            `json:"already_resolved"`
}

// NewBidResponse maps a bid model to its response shape
func NewBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		AuctionID: bid.AuctionID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount.String(),
		Status:    string(bid.Status),
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewAuctionResponse maps an auction model to its response shape
func NewAuctionResponse(auction model.Auction) AuctionResponse {
	resp := AuctionResponse{
		AuctionID:     auction.AuctionID,
		PropertyTitle: auction.PropertyTitle,
		SellerID:      auction.SellerID,
		StartingPrice: auction.StartingPrice.String(),
		BidIncrement:  auction.BidIncrement.String(),
		EndTime:       auction.EndTime.UTC().Format(time.RFC3339),
		Status:        string(auction.Status),
		CreatedAt:     auction.CreatedAt.UTC().Format(time.RFC3339),
	}
	if auction.ReservePrice != nil {
		reserve := auction.ReservePrice.String()
		resp.ReservePrice = &reserve
	}
	if auction.EndedAt != nil {
		ended := auction.EndedAt.UTC().Format(time.RFC3339)
		resp.EndedAt = &ended
	}
	return resp
}
