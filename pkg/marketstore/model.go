package marketstore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/bussin-exchange/market-middleware/pkg/market"
)

// CoinDao is a data access object that maps directly to the 'coins' table
// in PostgreSQL. Supplies and pool reserves are numeric(30,8), prices
// numeric(20,8), market cap and 24h volume numeric(30,2) and 24h change
// numeric(10,4). These widths are the precision contract of the engine.
type CoinDao struct {
	bun.BaseModel          `bun:"table:coins,alias:c"`
	ID                     int64           `bun:"id,pk,autoincrement"`
	Name                   string          `bun:"name,notnull,type:varchar(255)"`
	Symbol                 string          `bun:"symbol,unique,notnull,type:varchar(10)"`
	Icon                   *string         `bun:"icon"`
	CreatorID              *int64          `bun:"creator_id"`
	InitialSupply          decimal.Decimal `bun:"initial_supply,notnull,type:numeric(30,8)"`
	CirculatingSupply      decimal.Decimal `bun:"circulating_supply,notnull,type:numeric(30,8)"`
	CurrentPrice           decimal.Decimal `bun:"current_price,notnull,type:numeric(20,8)"`
	MarketCap              decimal.Decimal `bun:"market_cap,notnull,type:numeric(30,2)"`
	Volume24h              decimal.Decimal `bun:"volume_24h,type:numeric(30,2),default:'0.00'"`
	Change24h              decimal.Decimal `bun:"change_24h,type:numeric(10,4),default:'0.0000'"`
	PoolCoinAmount         decimal.Decimal `bun:"pool_coin_amount,notnull,type:numeric(30,8),default:'0.00000000'"`
	PoolBaseCurrencyAmount decimal.Decimal `bun:"pool_base_currency_amount,notnull,type:numeric(30,8),default:'0.00000000'"`
	IsListed               bool            `bun:"is_listed,notnull,default:true"`
	CreatedAt              time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt              time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// PortfolioDao maps to 'user_portfolios'. The composite (user_id, coin_id)
// primary key makes at-most-one-row-per-pair a storage invariant.
type PortfolioDao struct {
	bun.BaseModel `bun:"table:user_portfolios,alias:up"`
	UserID        int64           `bun:"user_id,pk"`
	CoinID        int64           `bun:"coin_id,pk"`
	Quantity      decimal.Decimal `bun:"quantity,notnull,type:numeric(30,8)"`
	UpdatedAt     time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// TradeDao maps to 'transactions'. Rows are immutable and cascade with
// both the user and the coin.
type TradeDao struct {
	bun.BaseModel           `bun:"table:transactions,alias:t"`
	ID                      int64            `bun:"id,pk,autoincrement"`
	UserID                  int64            `bun:"user_id,notnull"`
	CoinID                  int64            `bun:"coin_id,notnull"`
	Type                    market.TradeType `bun:"type,notnull,type:transaction_type"`
	Quantity                decimal.Decimal  `bun:"quantity,notnull,type:numeric(30,8)"`
	PricePerCoin            decimal.Decimal  `bun:"price_per_coin,notnull,type:numeric(20,8)"`
	TotalBaseCurrencyAmount decimal.Decimal  `bun:"total_base_currency_amount,notnull,type:numeric(30,8)"`
	Timestamp               time.Time        `bun:"timestamp,nullzero,notnull,default:current_timestamp"`
}

// PriceHistoryDao maps to 'price_history'. Cascades with the coin.
type PriceHistoryDao struct {
	bun.BaseModel `bun:"table:price_history,alias:ph"`
	ID            int64           `bun:"id,pk,autoincrement"`
	CoinID        int64           `bun:"coin_id,notnull"`
	Price         decimal.Decimal `bun:"price,notnull,type:numeric(20,8)"`
	Timestamp     time.Time       `bun:"timestamp,nullzero,notnull,default:current_timestamp"`
}

func toCoinDao(c *market.Coin) *CoinDao {
	dao := &CoinDao{
		ID:                     c.ID,
		Name:                   c.Name,
		Symbol:                 c.Symbol,
		CreatorID:              c.CreatorID,
		InitialSupply:          c.InitialSupply,
		CirculatingSupply:      c.CirculatingSupply,
		CurrentPrice:           c.CurrentPrice,
		MarketCap:              c.MarketCap,
		Volume24h:              c.Volume24h,
		Change24h:              c.Change24h,
		PoolCoinAmount:         c.PoolCoinAmount,
		PoolBaseCurrencyAmount: c.PoolBaseCurrencyAmount,
		IsListed:               c.IsListed,
	}
	if c.Icon != "" {
		dao.Icon = &c.Icon
	}
	return dao
}

func toCoin(dao *CoinDao) *market.Coin {
	c := &market.Coin{
		ID:                     dao.ID,
		Name:                   dao.Name,
		Symbol:                 dao.Symbol,
		CreatorID:              dao.CreatorID,
		InitialSupply:          dao.InitialSupply,
		CirculatingSupply:      dao.CirculatingSupply,
		CurrentPrice:           dao.CurrentPrice,
		MarketCap:              dao.MarketCap,
		Volume24h:              dao.Volume24h,
		Change24h:              dao.Change24h,
		PoolCoinAmount:         dao.PoolCoinAmount,
		PoolBaseCurrencyAmount: dao.PoolBaseCurrencyAmount,
		IsListed:               dao.IsListed,
		CreatedAt:              dao.CreatedAt,
		UpdatedAt:              dao.UpdatedAt,
	}
	if dao.Icon != nil {
		c.Icon = *dao.Icon
	}
	return c
}

func toTrade(dao *TradeDao) *market.Trade {
	return &market.Trade{
		ID:                      dao.ID,
		UserID:                  dao.UserID,
		CoinID:                  dao.CoinID,
		Type:                    dao.Type,
		Quantity:                dao.Quantity,
		PricePerCoin:            dao.PricePerCoin,
		TotalBaseCurrencyAmount: dao.TotalBaseCurrencyAmount,
		Timestamp:               dao.Timestamp,
	}
}

func toPortfolioEntry(dao *PortfolioDao) *market.PortfolioEntry {
	return &market.PortfolioEntry{
		UserID:    dao.UserID,
		CoinID:    dao.CoinID,
		Quantity:  dao.Quantity,
		UpdatedAt: dao.UpdatedAt,
	}
}

func toPricePoint(dao *PriceHistoryDao) *market.PricePoint {
	return &market.PricePoint{
		ID:        dao.ID,
		CoinID:    dao.CoinID,
		Price:     dao.Price,
		Timestamp: dao.Timestamp,
	}
}
