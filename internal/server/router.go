package server

import (
	"github.com/gin-gonic/gin"

	"realty-auctions/internal/bidding"
	"realty-auctions/internal/resolver"
	handler "realty-auctions/services/auction/handler"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(biddingService *bidding.BiddingService, auctionResolver *resolver.AuctionResolver) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(biddingService, auctionResolver)

	bids := router.Group("/bids")
	{
		bids.POST("", auctionHandler.PlaceBidHandler)
	}

	auctions := router.Group("/auctions")
	{
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/bids", auctionHandler.GetBidHistoryHandler)
		auctions.GET("/:auction_id/highest", auctionHandler.GetCurrentHighestHandler)
		auctions.POST("/:auction_id/end", auctionHandler.EndAuctionHandler)
		auctions.POST("/:auction_id/cancel", auctionHandler.CancelAuctionHandler)
	}

	bidders := router.Group("/bidders")
	{
		bidders.GET("/:bidder_id/auctions", auctionHandler.GetAuctionsByBidderHandler)
	}

	return router
}
