package notification

import (
	"github.com/shopspring/decimal"
)

// EventType enumerates the auction notifications the service can emit
type EventType string

const (
	EventOutbid        EventType = "OUTBID"
	EventAuctionWon    EventType = "AUCTION_WON"
	EventAuctionLost   EventType = "AUCTION_LOST"
	EventAuctionSold   EventType = "AUCTION_SOLD"
	EventAuctionNoSale EventType = "AUCTION_NO_SALE"
	EventEndingSoon    EventType = "ENDING_SOON"
	EventExtended      EventType = "EXTENDED"
)

// Event is a transient dispatch request produced by a bid or auction state
// change. Events are consumed immediately by a Dispatcher and never stored.
type Event struct {
	Type            EventType       `json:"type"`
	Recipient       string          `json:"recipient"`
	PropertyTitle   string          `json:"property_title"`
	Amount          decimal.Decimal `json:"amount"`
	CounterpartName string          `json:"counterpart_name,omitempty"`
	Message         string          `json:"message,omitempty"`
}
