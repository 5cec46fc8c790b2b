package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrNoBids          = errors.New("no bids found for auction")
	ErrBidderNoBids    = errors.New("bidder has not placed any bids")
	ErrConflict        = errors.New("concurrent bid conflict")
)

// business logic errors
var (
	ErrInvalidBid       = errors.New("invalid bid")
	ErrInvalidAuction   = errors.New("invalid auction")
	ErrBidTooLow        = errors.New("bid amount too low")
	ErrBelowIncrement   = errors.New("bid below minimum increment")
	ErrAuctionEnded     = errors.New("auction has ended")
	ErrAuctionNotActive = errors.New("auction is not active")
	ErrAlreadyHighest   = errors.New("bidder already holds the highest bid")
)

// notification errors
var (
	ErrInvalidAddress = errors.New("invalid recipient address")
	ErrTransport      = errors.New("email transport failure")
)
