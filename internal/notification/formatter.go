package notification

import (
	"fmt"

	"realty-auctions/utils"
)

// Format maps an event to an email subject and plain-text body. It is a
// pure function; unknown event types fall back to a generic update template.
func Format(ev Event) (subject, body string) {
	switch ev.Type {
	case EventOutbid:
		subject = fmt.Sprintf("You've been outbid on %s", ev.PropertyTitle)
		body = fmt.Sprintf(
			"A new bid of %s has been placed on %s, topping yours. Place a higher bid to stay in the running.",
			utils.FormatUSD(ev.Amount), ev.PropertyTitle)
	case EventAuctionWon:
		subject = fmt.Sprintf("Congratulations! You won the auction for %s", ev.PropertyTitle)
		body = fmt.Sprintf(
			"Your bid of %s won the auction for %s. The seller will be in touch to complete the sale.",
			utils.FormatUSD(ev.Amount), ev.PropertyTitle)
	case EventAuctionLost:
		subject = fmt.Sprintf("The auction for %s has ended", ev.PropertyTitle)
		body = fmt.Sprintf(
			"The auction for %s has closed. The winning bid was %s. Thank you for participating.",
			ev.PropertyTitle, utils.FormatUSD(ev.Amount))
	case EventAuctionSold:
		subject = fmt.Sprintf("Your property %s has sold", ev.PropertyTitle)
		body = fmt.Sprintf(
			"%s sold at auction for %s to %s.",
			ev.PropertyTitle, utils.FormatUSD(ev.Amount), ev.CounterpartName)
	case EventAuctionNoSale:
		subject = fmt.Sprintf("The auction for %s has ended", ev.PropertyTitle)
		if ev.Message != "" {
			body = fmt.Sprintf("%s: %s", ev.PropertyTitle, ev.Message)
		} else {
			body = fmt.Sprintf("The auction for %s ended without a sale.", ev.PropertyTitle)
		}
	case EventEndingSoon:
		subject = fmt.Sprintf("Auction ending soon: %s", ev.PropertyTitle)
		body = fmt.Sprintf(
			"The auction for %s is ending soon. The current highest bid is %s.",
			ev.PropertyTitle, utils.FormatUSD(ev.Amount))
	case EventExtended:
		subject = fmt.Sprintf("Auction extended: %s", ev.PropertyTitle)
		body = fmt.Sprintf("The auction for %s has been extended. %s", ev.PropertyTitle, ev.Message)
	default:
		subject = fmt.Sprintf("Auction update: %s", ev.PropertyTitle)
		body = fmt.Sprintf("There is an update on the auction for %s.", ev.PropertyTitle)
	}
	return subject, body
}
