package marketstore

import (
	"context"
	"errors"
	"time"

	"github.com/bussin-exchange/market-middleware/pkg/market"
)

// ErrCoinNotFound is returned when a coin lookup finds no matching record.
var ErrCoinNotFound = errors.New("coin not found")

// ErrDuplicateSymbol is returned when a coin insert collides with an
// existing symbol.
var ErrDuplicateSymbol = errors.New("coin symbol already taken")

// Store defines the interface for coin, portfolio, trade and price history
// persistence.
type Store interface {
	CreateCoin(ctx context.Context, c *market.Coin) error
	GetCoin(ctx context.Context, opts ...QueryOption) (*market.Coin, error)
	ListCoins(ctx context.Context, listedOnly bool) ([]*market.Coin, error)
	UpdateIcon(ctx context.Context, coinID int64, iconKey string) error
	SetListed(ctx context.Context, coinID int64, listed bool) error

	// SettleTrade applies a trade and the engine-computed coin state in a
	// single transaction: trade row, portfolio upsert, balance adjustment,
	// coin update and price history snapshot all commit or none do.
	SettleTrade(ctx context.Context, st *market.Settlement) error

	GetPortfolio(ctx context.Context, userID, coinID int64) (*market.PortfolioEntry, error)
	ListPortfolio(ctx context.Context, userID int64) ([]*market.PortfolioEntry, error)

	ListTradesByCoin(ctx context.Context, coinID int64, limit int) ([]*market.Trade, error)
	ListTradesByUser(ctx context.Context, userID int64, limit int) ([]*market.Trade, error)

	PriceHistoryRange(ctx context.Context, coinID int64, from, to time.Time) ([]*market.PricePoint, error)
}

// QueryOptions defines options for querying coins
type QueryOptions struct {
	ID     *int64
	Symbol *string
}

// QueryOption is a functional option for querying coins
type QueryOption func(*QueryOptions)

// WithID sets the coin id filter
func WithID(id int64) QueryOption {
	return func(opts *QueryOptions) {
		opts.ID = &id
	}
}

// WithSymbol sets the coin symbol filter
func WithSymbol(symbol string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Symbol = &symbol
	}
}
