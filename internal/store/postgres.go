// Package store persists trades, tokens, and aggregation windows to
// Postgres via pgx/v5, grounded on the teacher's internal/db/postgres.go
// connect/ping/InitSchema/transaction idiom. Writes are batched through a
// bounded channel (spec §4.12) so a slow database never blocks the
// decision path; back-pressure is handled by the caller per spec's
// ChannelOverflow taxonomy entry.
package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rawblock/trade-brain/pkg/models"
)

// ErrNoStore is returned by callers standing in for a real Store when
// Postgres is unavailable (spec §4.6: callers must keep the previous
// cached snapshot rather than treat this as fatal).
var ErrNoStore = errors.New("store: no backing database configured")

//go:embed schema.sql
var schemaSQL string

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("store: init schema: %w", err)
	}
	return nil
}

// SaveToken upserts a token row. Must be called before SaveTrade for any
// trade referencing the same mint (spec §6.3 writer invariant).
func (s *Store) SaveToken(ctx context.Context, t models.Token) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tokens (mint, creator, launch_slot, launch_time, symbol, decimals)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (mint) DO NOTHING`,
		t.Mint[:], t.Creator[:], t.LaunchSlot, time.Unix(t.LaunchTime, 0).UTC(), t.Symbol, t.Decimals)
	if err != nil {
		return fmt.Errorf("store: save token: %w", err)
	}
	return nil
}

// SaveTradeBatch writes the given tokens and then the given trades in a
// single transaction. Only the tokens passed in are inserted: a trade whose
// mint has no tokens row (neither already stored nor in tokens) violates
// the trades.mint foreign key and rolls back the whole batch.
func (s *Store) SaveTradeBatch(ctx context.Context, tokens []models.Token, trades []models.Trade) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range tokens {
		if _, err := tx.Exec(ctx, `
			INSERT INTO tokens (mint, creator, launch_slot, launch_time, symbol, decimals)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (mint) DO NOTHING`,
			t.Mint[:], t.Creator[:], t.LaunchSlot, time.Unix(t.LaunchTime, 0).UTC(), t.Symbol, t.Decimals); err != nil {
			return fmt.Errorf("store: insert token in batch: %w", err)
		}
	}

	for _, tr := range trades {
		if _, err := tx.Exec(ctx, `
			INSERT INTO trades (sig, slot, block_time, mint, side, trader, amount_tokens, amount_sol, price, is_amm)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (sig) DO NOTHING`,
			tr.Signature[:], tr.Slot, time.Unix(tr.BlockTime, 0).UTC(), tr.Mint[:], uint8(tr.Side), tr.Trader[:],
			tr.AmountToken, tr.AmountSol, tr.Price, tr.IsAMM); err != nil {
			return fmt.Errorf("store: insert trade in batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store: commit batch: %w", err)
	}
	return nil
}

// UpsertWindow idempotently upserts one aggregation window on its natural
// key (mint, horizon_sec, start_time).
func (s *Store) UpsertWindow(ctx context.Context, w models.Window) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO windows (mint, horizon_sec, start_time, end_time, num_buys, num_sells,
			unique_buyers, volume_tokens, volume_sol, high, low, open, close, vwap,
			top1_share, top3_share, top5_share, price_volatility)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (mint, horizon_sec, start_time) DO UPDATE SET
			end_time = EXCLUDED.end_time,
			num_buys = EXCLUDED.num_buys,
			num_sells = EXCLUDED.num_sells,
			unique_buyers = EXCLUDED.unique_buyers,
			volume_tokens = EXCLUDED.volume_tokens,
			volume_sol = EXCLUDED.volume_sol,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			vwap = EXCLUDED.vwap,
			top1_share = EXCLUDED.top1_share,
			top3_share = EXCLUDED.top3_share,
			top5_share = EXCLUDED.top5_share,
			price_volatility = EXCLUDED.price_volatility`,
		w.Mint[:], int(w.Horizon), w.StartTime, w.EndTime, w.NumBuys, w.NumSells,
		w.UniqueBuyers, w.VolumeTokens, w.VolumeSol, w.High, w.Low, w.Open, w.Close, w.VWAP,
		w.Top1Share, w.Top3Share, w.Top5Share, w.PriceVolatility)
	if err != nil {
		return fmt.Errorf("store: upsert window: %w", err)
	}
	return nil
}

// QueryMintFeatures and AllMints implement featurecache.WindowStore; the
// mint cache's background updater calls them on every refresh. A cache
// Get miss does not query Postgres.
func (s *Store) QueryMintFeatures(ctx context.Context, mint models.Mint) (models.MintFeatures, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT volume_sol, top1_share, close
		FROM windows
		WHERE mint = $1
		ORDER BY start_time DESC
		LIMIT 1`, mint[:])

	var f models.MintFeatures
	var volSol, top1, lastPrice float64
	if err := row.Scan(&volSol, &top1, &lastPrice); err != nil {
		return models.MintFeatures{}, fmt.Errorf("store: query mint features: %w", err)
	}
	f.Mint = mint
	f.Vol5sSol = volSol
	f.CurveDepthProxy = top1
	f.CurrentPrice = lastPrice
	f.LastUpdate = time.Now()
	return f, nil
}

func (s *Store) AllMints(ctx context.Context) ([]models.Mint, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT mint FROM windows`)
	if err != nil {
		return nil, fmt.Errorf("store: all mints query: %w", err)
	}
	defer rows.Close()

	var out []models.Mint
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			continue
		}
		var m models.Mint
		copy(m[:], raw)
		out = append(out, m)
	}
	return out, rows.Err()
}
