package main

import (
	"fmt"
	"os"

	"realty-auctions/internal/bidding"
	"realty-auctions/internal/cache"
	"realty-auctions/internal/config"
	"realty-auctions/internal/notification"
	"realty-auctions/internal/repository"
	"realty-auctions/internal/resolver"
	"realty-auctions/internal/server"
	"realty-auctions/utils"
)

func main() {
	cfg := config.Load()

	repo := buildRepo(cfg)
	dispatcher := buildDispatcher(cfg)
	queryCache := buildCache(cfg)

	biddingSvc := bidding.NewBiddingService(repo, dispatcher, queryCache)
	auctionResolver := resolver.NewAuctionResolver(repo, dispatcher, queryCache)

	router := server.SetupRouter(biddingSvc, auctionResolver)

	fmt.Printf("Starting auction server on %s...\n", cfg.HTTPPort)
	if err := router.Run(cfg.HTTPPort); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// buildRepo selects Postgres when a DSN is configured, in-memory otherwise
func buildRepo(cfg config.Config) repository.AuctionDB {
	if cfg.DBDSN == "" {
		utils.Info("using in-memory auction store", nil)
		return repository.NewMemoryRepo()
	}
	repo, err := repository.NewPostgresRepo(cfg.DBDSN)
	if err != nil {
		utils.Fatal("failed to connect to postgres", map[string]any{"error": err.Error()})
	}
	utils.Info("using postgres auction store", nil)
	return repo
}

// buildDispatcher uses SMTP when configured, log-only otherwise
func buildDispatcher(cfg config.Config) notification.Dispatcher {
	if cfg.SMTPHost == "" {
		utils.Info("SMTP not configured, notifications will be logged only", nil)
		return notification.LogDispatcher{}
	}
	return notification.NewSMTPDispatcher(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
}

// buildCache enables the Redis query cache when an address is configured
func buildCache(cfg config.Config) cache.Cache {
	if cfg.RedisAddr == "" {
		return nil
	}
	utils.Info("redis query cache enabled", map[string]any{"addr": cfg.RedisAddr})
	return cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
}
