package marketstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/bussin-exchange/market-middleware/internal/metrics"
	"github.com/bussin-exchange/market-middleware/pkg/market"
	"github.com/bussin-exchange/market-middleware/pkg/pgutil"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the market store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateCoin(ctx context.Context, c *market.Coin) error {
	dao := toCoinDao(c)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, created_at, updated_at").
		Exec(ctx)
	if err != nil {
		if pgutil.UniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateSymbol, c.Symbol)
		}
		return fmt.Errorf("failed to create coin: %w", err)
	}

	c.ID = dao.ID
	c.CreatedAt = dao.CreatedAt
	c.UpdatedAt = dao.UpdatedAt
	return nil
}

func (s *pgStore) GetCoin(ctx context.Context, opts ...QueryOption) (*market.Coin, error) {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	dao := new(CoinDao)
	query := s.db.NewSelect().Model(dao)

	if options.ID != nil {
		query = query.Where("id = ?", *options.ID)
	}
	if options.Symbol != nil {
		query = query.Where("symbol = ?", *options.Symbol)
	}

	err := query.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCoinNotFound
		}
		return nil, fmt.Errorf("failed to get coin: %w", err)
	}

	return toCoin(dao), nil
}

func (s *pgStore) ListCoins(ctx context.Context, listedOnly bool) ([]*market.Coin, error) {
	var daos []CoinDao
	query := s.db.NewSelect().Model(&daos).Order("market_cap DESC")
	if listedOnly {
		query = query.Where("is_listed = TRUE")
	}

	err := query.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list coins: %w", err)
	}

	coins := make([]*market.Coin, len(daos))
	for i := range daos {
		coins[i] = toCoin(&daos[i])
	}
	return coins, nil
}

func (s *pgStore) UpdateIcon(ctx context.Context, coinID int64, iconKey string) error {
	_, err := s.db.NewUpdate().
		Model((*CoinDao)(nil)).
		Set("icon = ?", iconKey).
		Set("updated_at = NOW()").
		Where("id = ?", coinID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update coin icon: %w", err)
	}
	return nil
}

func (s *pgStore) SetListed(ctx context.Context, coinID int64, listed bool) error {
	_, err := s.db.NewUpdate().
		Model((*CoinDao)(nil)).
		Set("is_listed = ?", listed).
		Set("updated_at = NOW()").
		Where("id = ?", coinID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update coin listing: %w", err)
	}
	return nil
}

// SettleTrade runs the whole settlement in one transaction. The portfolio
// upsert relies on the (user_id, coin_id) primary key: concurrent trades
// for the same pair serialize on the row instead of racing a
// check-then-insert.
func (s *pgStore) SettleTrade(ctx context.Context, st *market.Settlement) error {
	trade := st.Trade
	if trade == nil {
		return fmt.Errorf("settlement has no trade")
	}

	quantityDelta := trade.Quantity
	if trade.Type == market.TradeSell {
		quantityDelta = trade.Quantity.Neg()
	}

	start := time.Now()
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		tradeDao := &TradeDao{
			UserID:                  trade.UserID,
			CoinID:                  trade.CoinID,
			Type:                    trade.Type,
			Quantity:                trade.Quantity,
			PricePerCoin:            trade.PricePerCoin,
			TotalBaseCurrencyAmount: trade.TotalBaseCurrencyAmount,
		}
		if _, err := tx.NewInsert().
			Model(tradeDao).
			Returning("id, timestamp").
			Exec(ctx); err != nil {
			// A coin deleted between quote and settlement shows up here as a
			// broken FK rather than a missing-row read.
			if pgutil.ForeignKeyViolation(err) {
				return ErrCoinNotFound
			}
			return fmt.Errorf("failed to insert trade: %w", err)
		}
		trade.ID = tradeDao.ID
		trade.Timestamp = tradeDao.Timestamp

		entry := &PortfolioDao{
			UserID:   trade.UserID,
			CoinID:   trade.CoinID,
			Quantity: quantityDelta,
		}
		if _, err := tx.NewInsert().
			Model(entry).
			On("CONFLICT (user_id, coin_id) DO UPDATE").
			Set("quantity = up.quantity + EXCLUDED.quantity").
			Set("updated_at = NOW()").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to upsert portfolio: %w", err)
		}

		balanceExpr := "base_currency_balance - ?::DECIMAL"
		if trade.Type == market.TradeSell {
			balanceExpr = "base_currency_balance + ?::DECIMAL"
		}
		if _, err := tx.NewUpdate().
			TableExpr("users").
			Set("base_currency_balance = "+balanceExpr, trade.TotalBaseCurrencyAmount.String()).
			Set("updated_at = NOW()").
			Where("id = ?", trade.UserID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to adjust user balance: %w", err)
		}

		if _, err := tx.NewUpdate().
			Model((*CoinDao)(nil)).
			Set("pool_coin_amount = ?", st.PoolCoinAmount).
			Set("pool_base_currency_amount = ?", st.PoolBaseCurrencyAmount).
			Set("circulating_supply = ?", st.CirculatingSupply).
			Set("current_price = ?", st.CurrentPrice).
			Set("market_cap = ?", st.MarketCap).
			Set("volume_24h = ?", st.Volume24h).
			Set("change_24h = ?", st.Change24h).
			Set("updated_at = NOW()").
			Where("id = ?", trade.CoinID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to update coin state: %w", err)
		}

		snapshot := &PriceHistoryDao{
			CoinID: trade.CoinID,
			Price:  st.CurrentPrice,
		}
		if _, err := tx.NewInsert().
			Model(snapshot).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to record price snapshot: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	metrics.TradesSettled.WithLabelValues(string(trade.Type)).Inc()
	metrics.TradeSettlementDuration.Observe(time.Since(start).Seconds())
	return nil
}

func (s *pgStore) GetPortfolio(ctx context.Context, userID, coinID int64) (*market.PortfolioEntry, error) {
	dao := new(PortfolioDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("user_id = ?", userID).
		Where("coin_id = ?", coinID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio entry: %w", err)
	}
	return toPortfolioEntry(dao), nil
}

func (s *pgStore) ListPortfolio(ctx context.Context, userID int64) ([]*market.PortfolioEntry, error) {
	var daos []PortfolioDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("user_id = ?", userID).
		Order("coin_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio: %w", err)
	}
	entries := make([]*market.PortfolioEntry, len(daos))
	for i := range daos {
		entries[i] = toPortfolioEntry(&daos[i])
	}
	return entries, nil
}

func (s *pgStore) ListTradesByCoin(ctx context.Context, coinID int64, limit int) ([]*market.Trade, error) {
	var daos []TradeDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("coin_id = ?", coinID).
		Order("timestamp DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades by coin: %w", err)
	}
	return tradesFromDaos(daos), nil
}

func (s *pgStore) ListTradesByUser(ctx context.Context, userID int64, limit int) ([]*market.Trade, error) {
	var daos []TradeDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades by user: %w", err)
	}
	return tradesFromDaos(daos), nil
}

func tradesFromDaos(daos []TradeDao) []*market.Trade {
	trades := make([]*market.Trade, len(daos))
	for i := range daos {
		trades[i] = toTrade(&daos[i])
	}
	return trades
}

func (s *pgStore) PriceHistoryRange(ctx context.Context, coinID int64, from, to time.Time) ([]*market.PricePoint, error) {
	var daos []PriceHistoryDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("coin_id = ?", coinID).
		Where("timestamp >= ?", from).
		Where("timestamp < ?", to).
		Order("timestamp ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	points := make([]*market.PricePoint, len(daos))
	for i := range daos {
		points[i] = toPricePoint(&daos[i])
	}
	return points, nil
}
