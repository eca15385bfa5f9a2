package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lbnlsj/eth-dex/internal/model"
)

// Store provides Postgres persistence for pool snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutSnapshot inserts one resolved snapshot row.
func (s *Store) PutSnapshot(ctx context.Context, record model.SnapshotRecord) error {
	snap := record.Snapshot

	var feePPM uint32
	switch {
	case snap.V2 != nil:
		feePPM = snap.V2.FeePPM
	case snap.V3 != nil:
		feePPM = snap.V3.FeePPM
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO pool_snapshots (
			chain, dex, pool_address, token_address, token_symbol, token_decimals,
			fee_ppm, token_liquidity, native_liquidity, price, market_value,
			fetched_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
		ON CONFLICT (chain, dex, pool_address, fetched_at) DO NOTHING
	`,
		record.Chain,
		string(snap.Dex),
		snap.PoolAddress,
		record.TokenAddress,
		snap.TokenSymbol,
		int16(snap.TokenDecimals),
		int64(feePPM),
		snap.TokenLiquidity,
		snap.NativeLiquidity,
		snap.Price,
		snap.MarketValue,
		record.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pool snapshot: %w", err)
	}
	return nil
}
