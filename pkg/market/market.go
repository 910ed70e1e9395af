// Package market holds the domain model for coins and trades.
package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeType distinguishes buys from sells against the liquidity pool.
type TradeType string

const (
	TradeBuy  TradeType = "BUY"
	TradeSell TradeType = "SELL"
)

// Coin is a simulated tradable asset. PoolCoinAmount and
// PoolBaseCurrencyAmount are the two-sided liquidity reserves the pricing
// engine derives the price from; this layer only persists them. A coin
// outlives its creator: CreatorID becomes nil when the creator is deleted.
type Coin struct {
	ID                     int64
	Name                   string
	Symbol                 string
	Icon                   string
	CreatorID              *int64
	InitialSupply          decimal.Decimal
	CirculatingSupply      decimal.Decimal
	CurrentPrice           decimal.Decimal
	MarketCap              decimal.Decimal
	Volume24h              decimal.Decimal
	Change24h              decimal.Decimal
	PoolCoinAmount         decimal.Decimal
	PoolBaseCurrencyAmount decimal.Decimal
	IsListed               bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Trade is an immutable record of a single executed buy or sell.
type Trade struct {
	ID                      int64
	UserID                  int64
	CoinID                  int64
	Type                    TradeType
	Quantity                decimal.Decimal
	PricePerCoin            decimal.Decimal
	TotalBaseCurrencyAmount decimal.Decimal
	Timestamp               time.Time
}

// PortfolioEntry is the quantity of one coin held by one user.
type PortfolioEntry struct {
	UserID    int64
	CoinID    int64
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}

// PricePoint is a single price snapshot in a coin's history.
type PricePoint struct {
	ID        int64
	CoinID    int64
	Price     decimal.Decimal
	Timestamp time.Time
}

// Settlement carries the post-trade coin state computed by the pricing
// engine. The store applies it atomically together with the trade record;
// it never computes prices itself.
type Settlement struct {
	Trade                  *Trade
	PoolCoinAmount         decimal.Decimal
	PoolBaseCurrencyAmount decimal.Decimal
	CirculatingSupply      decimal.Decimal
	CurrentPrice           decimal.Decimal
	MarketCap              decimal.Decimal
	Volume24h              decimal.Decimal
	Change24h              decimal.Decimal
}
