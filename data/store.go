// Copyright 2022-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package data persists and refreshes price history. ETF and backer prices
// live in eod_prices; the quarterly housing index has its own table. Both
// are written idempotently so a refresh can always be re-run.
package data

import (
	"context"
	"time"

	"github.com/etf-compare/ec-api/data/database"
	"github.com/etf-compare/ec-api/series"
	"github.com/rs/zerolog/log"
)

// HousingSymbol is the pseudo-ticker of the quarterly housing series
const HousingSymbol = "CPH-RE"

// Store reads and writes price series through the shared database pool. It
// satisfies the engine's PriceSource.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

// SavePrices upserts price points for one symbol. Existing rows for the
// same date are overwritten, so incremental and full fetches can overlap.
func (st *Store) SavePrices(ctx context.Context, symbol string, points series.Series) error {
	if len(points) == 0 {
		return nil
	}

	subLog := log.With().Str("Symbol", symbol).Int("NumPoints", len(points)).Logger()

	pool, err := database.Pool()
	if err != nil {
		return err
	}
	trx, err := pool.Begin(ctx)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not begin transaction")
		return err
	}

	sql := `INSERT INTO eod_prices (symbol, event_date, close) VALUES ($1, $2, $3)
		ON CONFLICT (symbol, event_date) DO UPDATE SET close = EXCLUDED.close`
	housing := symbol == HousingSymbol
	if housing {
		sql = `INSERT INTO housing_index (event_date, index_value) VALUES ($1, $2)
		ON CONFLICT (event_date) DO UPDATE SET index_value = EXCLUDED.index_value`
	}

	for _, p := range points {
		args := []interface{}{symbol, p.Date, p.Close}
		if housing {
			args = []interface{}{p.Date, p.Close}
		}
		if _, err := trx.Exec(ctx, sql, args...); err != nil {
			subLog.Error().Stack().Err(err).Time("EventDate", p.Date).Msg("could not upsert price")
			if err := trx.Rollback(ctx); err != nil {
				subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return err
		}
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Error().Stack().Err(err).Msg("could not commit transaction")
		return err
	}

	subLog.Debug().Msg("saved prices")
	return nil
}

// Series loads the full stored history for a symbol, oldest first. A symbol
// with no rows yields an empty series, not an error.
func (st *Store) Series(ctx context.Context, symbol string) (series.Series, error) {
	pool, err := database.Pool()
	if err != nil {
		return nil, err
	}
	trx, err := pool.Begin(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Str("Symbol", symbol).Msg("could not begin transaction")
		return nil, err
	}

	sql := `SELECT event_date, close FROM eod_prices WHERE symbol = $1 ORDER BY event_date`
	args := []interface{}{symbol}
	if symbol == HousingSymbol {
		sql = `SELECT event_date, index_value FROM housing_index ORDER BY event_date`
		args = nil
	}

	rows, err := trx.Query(ctx, sql, args...)
	if err != nil {
		log.Error().Stack().Err(err).Str("Symbol", symbol).Msg("could not query prices")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	out := make(series.Series, 0, 2048)
	for rows.Next() {
		var date time.Time
		var close float64
		if err := rows.Scan(&date, &close); err != nil {
			log.Warn().Stack().Err(err).Str("Symbol", symbol).Msg("price row scan failed")
			continue
		}
		out = out.Upsert(date, close)
	}
	if err := rows.Err(); err != nil {
		log.Error().Stack().Err(err).Str("Symbol", symbol).Msg("price query read failed")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	if err := trx.Commit(ctx); err != nil {
		log.Error().Stack().Err(err).Str("Symbol", symbol).Msg("could not commit transaction")
	}
	return out, nil
}

// LastDate returns the most recent stored date for a symbol, zero when the
// symbol has no rows.
func (st *Store) LastDate(ctx context.Context, symbol string) (time.Time, error) {
	s, err := st.Series(ctx, symbol)
	if err != nil {
		return time.Time{}, err
	}
	if len(s) == 0 {
		return time.Time{}, nil
	}
	return s.Last().Date, nil
}

// Count returns the number of stored points for a symbol
func (st *Store) Count(ctx context.Context, symbol string) (int, error) {
	s, err := st.Series(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return len(s), nil
}
