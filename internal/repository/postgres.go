package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"realty-auctions/internal/auctionerrors"
	model "realty-auctions/internal/models"
)

type auctionRow struct {
	AuctionID     string           `gorm:"primaryKey;column:auction_id"`
	PropertyTitle string           `gorm:"column:property_title"`
	SellerID      string           `gorm:"column:seller_id;index"`
	SellerEmail   string           `gorm:"column:seller_email"`
	StartingPrice decimal.Decimal  `gorm:"column:starting_price;type:numeric"`
	ReservePrice  *decimal.Decimal `gorm:"column:reserve_price;type:numeric"`
	BidIncrement  decimal.Decimal  `gorm:"column:bid_increment;type:numeric"`
	EndTime       time.Time        `gorm:"column:end_time"`
	Status        string           `gorm:"column:status;index"`
	CreatedAt     time.Time        `gorm:"column:created_at"`
	EndedAt       *time.Time       `gorm:"column:ended_at"`
}

func (auctionRow) TableName() string { return "auction" }

type bidRow struct {
	Seq         int64           `gorm:"primaryKey;autoIncrement;column:seq"`
	BidID       string          `gorm:"column:bid_id;uniqueIndex"`
	AuctionID   string          `gorm:"column:auction_id;index"`
	BidderID    string          `gorm:"column:bidder_id;index"`
	BidderEmail string          `gorm:"column:bidder_email"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric"`
	Status      string          `gorm:"column:status"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
}

func (bidRow) TableName() string { return "bid" }

// PostgresRepo is a gorm-backed implementation of AuctionDB. Highest-bid
// updates take a FOR UPDATE lock on the auction row, so the check-and-append
// sequence is serialized per auction by the database.
type PostgresRepo struct {
	db *gorm.DB
}

// NewPostgresRepo opens a Postgres connection and migrates the auction tables
func NewPostgresRepo(dsn string) (*PostgresRepo, error) {
	gcfg := &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: false,
		PrepareStmt:            true,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	}
	db, err := gorm.Open(postgres.Open(dsn), gcfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(60 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(&auctionRow{}, &bidRow{}); err != nil {
		return nil, fmt.Errorf("migrate auction tables: %w", err)
	}
	return &PostgresRepo{db: db}, nil
}

// CreateAuction stores a new auction listing
func (r *PostgresRepo) CreateAuction(auction model.Auction) error {
	if auction.AuctionID == "" {
		return fmt.Errorf("create auction: missing auction ID: %w", auctionerrors.ErrInvalidAuction)
	}
	if err := r.db.Create(auctionToRow(auction)).Error; err != nil {
		return fmt.Errorf("create auction %s: %w", auction.AuctionID, err)
	}
	return nil
}

// GetAuction returns a single auction by ID
func (r *PostgresRepo) GetAuction(auctionID string) (model.Auction, error) {
	var row auctionRow
	err := r.db.Where("auction_id = ?", auctionID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, err)
	}
	return rowToAuction(row), nil
}

// ListAuctions returns all auctions
func (r *PostgresRepo) ListAuctions() ([]model.Auction, error) {
	var rows []auctionRow
	if err := r.db.Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	auctions := make([]model.Auction, 0, len(rows))
	for _, row := range rows {
		auctions = append(auctions, rowToAuction(row))
	}
	return auctions, nil
}

// GetAuctionsByBidder returns all auctions a bidder has placed bids on
func (r *PostgresRepo) GetAuctionsByBidder(bidderID string) ([]model.Auction, error) {
	var rows []auctionRow
	err := r.db.
		Where("auction_id IN (?)", r.db.Model(&bidRow{}).Distinct("auction_id").Where("bidder_id = ?", bidderID)).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get auctions for bidder %s: %w", bidderID, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("get auctions for bidder %s: %w", bidderID, auctionerrors.ErrBidderNoBids)
	}
	auctions := make([]model.Auction, 0, len(rows))
	for _, row := range rows {
		auctions = append(auctions, rowToAuction(row))
	}
	return auctions, nil
}

// AppendBid records an accepted bid inside a transaction holding the
// auction row lock, re-checking the deadline and the expected highest bid.
func (r *PostgresRepo) AppendBid(bid model.Bid, expectedHighestBidID string, now time.Time) (model.Bid, *model.Bid, error) {
	var demoted *model.Bid

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var auction auctionRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("auction_id = ?", bid.AuctionID).
			First(&auction).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionNotFound)
		}
		if err != nil {
			return fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, err)
		}
		if model.AuctionStatus(auction.Status) != model.AuctionActive {
			return fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionNotActive)
		}
		if !now.Before(auction.EndTime) {
			return fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionEnded)
		}

		var highest bidRow
		currentHighestID := ""
		err = tx.Where("auction_id = ?", bid.AuctionID).Order("seq DESC").First(&highest).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, err)
		}
		if err == nil {
			currentHighestID = highest.BidID
		}
		if currentHighestID != expectedHighestBidID {
			return fmt.Errorf("append bid for auction %s: highest bid changed: %w", bid.AuctionID, auctionerrors.ErrConflict)
		}

		if currentHighestID != "" {
			if err := tx.Model(&bidRow{}).Where("bid_id = ?", highest.BidID).Update("status", string(model.BidOutbid)).Error; err != nil {
				return fmt.Errorf("demote bid %s: %w", highest.BidID, err)
			}
			highest.Status = string(model.BidOutbid)
			d := rowToBid(highest)
			demoted = &d
		}

		bid.Status = model.BidActive
		if err := tx.Create(bidToRow(bid)).Error; err != nil {
			return fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, err)
		}
		return nil
	})
	if err != nil {
		return model.Bid{}, nil, err
	}
	return bid, demoted, nil
}

// GetCurrentHighest returns the leading bid for an auction
func (r *PostgresRepo) GetCurrentHighest(auctionID string) (model.Bid, error) {
	var row bidRow
	err := r.db.Where("auction_id = ?", auctionID).Order("seq DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Bid{}, fmt.Errorf("get current highest for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("get current highest for auction %s: %w", auctionID, err)
	}
	return rowToBid(row), nil
}

// GetBidHistory returns a snapshot of all bids for an auction, newest first
func (r *PostgresRepo) GetBidHistory(auctionID string) ([]model.Bid, error) {
	var rows []bidRow
	if err := r.db.Where("auction_id = ?", auctionID).Order("seq DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get bid history for auction %s: %w", auctionID, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("get bid history for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}
	bids := make([]model.Bid, 0, len(rows))
	for _, row := range rows {
		bids = append(bids, rowToBid(row))
	}
	return bids, nil
}

// CloseAuction transitions an auction to a terminal status. The expected
// highest bid is re-checked under the auction row lock, the same lock
// AppendBid takes, so a bid landing after the caller's read forces a
// conflict instead of a stale winner.
func (r *PostgresRepo) CloseAuction(auctionID string, status model.AuctionStatus, winningBidID, expectedHighestBidID string, endedAt time.Time) (model.Auction, error) {
	if !status.IsTerminal() {
		return model.Auction{}, fmt.Errorf("close auction %s: %s is not a terminal status: %w", auctionID, status, auctionerrors.ErrInvalidAuction)
	}

	var closed model.Auction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var auction auctionRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("auction_id = ?", auctionID).
			First(&auction).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("close auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
		}
		if err != nil {
			return fmt.Errorf("close auction %s: %w", auctionID, err)
		}
		if model.AuctionStatus(auction.Status).IsTerminal() {
			closed = rowToAuction(auction)
			return fmt.Errorf("close auction %s: %w", auctionID, auctionerrors.ErrAuctionNotActive)
		}

		var highest bidRow
		currentHighestID := ""
		err = tx.Where("auction_id = ?", auctionID).Order("seq DESC").First(&highest).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("close auction %s: %w", auctionID, err)
		}
		if err == nil {
			currentHighestID = highest.BidID
		}
		if currentHighestID != expectedHighestBidID {
			return fmt.Errorf("close auction %s: highest bid changed: %w", auctionID, auctionerrors.ErrConflict)
		}

		auction.Status = string(status)
		auction.EndedAt = &endedAt
		if err := tx.Save(&auction).Error; err != nil {
			return fmt.Errorf("close auction %s: %w", auctionID, err)
		}
		if winningBidID != "" {
			if err := tx.Model(&bidRow{}).Where("bid_id = ?", winningBidID).Update("status", string(model.BidWinning)).Error; err != nil {
				return fmt.Errorf("finalize winning bid %s: %w", winningBidID, err)
			}
		}
		closed = rowToAuction(auction)
		return nil
	})
	if err != nil {
		return closed, err
	}
	return closed, nil
}

func auctionToRow(a model.Auction) *auctionRow {
	return &auctionRow{
		AuctionID:     a.AuctionID,
		PropertyTitle: a.PropertyTitle,
		SellerID:      a.SellerID,
		SellerEmail:   a.SellerEmail,
		StartingPrice: a.StartingPrice,
		ReservePrice:  a.ReservePrice,
		BidIncrement:  a.BidIncrement,
		EndTime:       a.EndTime,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
		EndedAt:       a.EndedAt,
	}
}

func rowToAuction(row auctionRow) model.Auction {
	return model.Auction{
		AuctionID:     row.AuctionID,
		PropertyTitle: row.PropertyTitle,
		SellerID:      row.SellerID,
		SellerEmail:   row.SellerEmail,
		StartingPrice: row.StartingPrice,
		ReservePrice:  row.ReservePrice,
		BidIncrement:  row.BidIncrement,
		EndTime:       row.EndTime,
		Status:        model.AuctionStatus(row.Status),
		CreatedAt:     row.CreatedAt,
		EndedAt:       row.EndedAt,
	}
}

func bidToRow(b model.Bid) *bidRow {
	return &bidRow{
		BidID:       b.BidID,
		AuctionID:   b.AuctionID,
		BidderID:    b.BidderID,
		BidderEmail: b.BidderEmail,
		Amount:      b.Amount,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
	}
}

func rowToBid(row bidRow) model.Bid {
	return model.Bid{
		BidID:       row.BidID,
		AuctionID:   row.AuctionID,
		BidderID:    row.BidderID,
		BidderEmail: row.BidderEmail,
		Amount:      row.Amount,
		Status:      model.BidStatus(row.Status),
		CreatedAt:   row.CreatedAt,
	}
}
