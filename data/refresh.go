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

package data

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/etf-compare/ec-api/asset"
	"github.com/etf-compare/ec-api/engine"
	"github.com/rs/zerolog/log"
)

var ErrAlreadyUpdating = errors.New("a refresh is already in progress")

const (
	// substantialRows is the point count above which a symbol's history is
	// considered established and only incremental updates are fetched.
	substantialRows = 200
	// etfStaleDays allows for weekends and holidays before weekly data
	// counts as stale.
	etfStaleDays = 3
	// backerStaleDays is longer; proxy series do not change retroactively.
	backerStaleDays = 7
	// housingStaleDays reflects the quarterly publication cadence.
	housingStaleDays = 80
)

// Refresher fetches missing or stale price history, persists it, and
// triggers a full analytics pass. At most one refresh runs at a time; a
// second caller gets ErrAlreadyUpdating instead of queueing.
type Refresher struct {
	store    *Store
	yahoo    *Yahoo
	av       *AlphaVantage
	statdk   *StatDK
	engine   *engine.Engine
	updating atomic.Bool
}

func NewRefresher(store *Store, yahoo *Yahoo, av *AlphaVantage, statdk *StatDK, eng *engine.Engine) *Refresher {
	return &Refresher{
		store:  store,
		yahoo:  yahoo,
		av:     av,
		statdk: statdk,
		engine: eng,
	}
}

// Updating reports whether a refresh is currently in flight
func (r *Refresher) Updating() bool {
	return r.updating.Load()
}

// Refresh runs one full fetch-and-recompute cycle. Provider failures for
// individual symbols are logged and skipped; the analytics pass runs
// regardless so fallback data fills any holes.
func (r *Refresher) Refresh(ctx context.Context) error {
	if !r.updating.CompareAndSwap(false, true) {
		return ErrAlreadyUpdating
	}
	defer r.updating.Store(false)

	log.Info().Msg("starting data refresh")

	backers := make(map[string]bool)
	for _, a := range asset.Universe() {
		if a.Static {
			continue
		}
		r.refreshSymbol(ctx, a.Ticker, etfStaleDays, true)
		for _, b := range a.Backers {
			backers[b.Symbol] = true
		}
	}

	for symbol := range backers {
		r.refreshSymbol(ctx, symbol, backerStaleDays, false)
	}

	r.refreshHousing(ctx)

	if _, err := r.engine.Recompute(ctx); err != nil {
		log.Error().Stack().Err(err).Msg("analytics pass failed after refresh")
		return err
	}

	log.Info().Msg("data refresh complete")
	return nil
}

// Stale reports whether any non-static asset's stored data is older than
// the staleness window (or missing entirely). Used by the scheduler to
// decide whether an hourly tick should trigger a refresh.
func (r *Refresher) Stale(ctx context.Context) bool {
	now := time.Now()
	for _, a := range asset.Universe() {
		if a.Static {
			continue
		}
		last, err := r.store.LastDate(ctx, a.Ticker)
		if err != nil || last.IsZero() {
			return true
		}
		if now.Sub(last) > etfStaleDays*24*time.Hour {
			return true
		}
	}
	return false
}

// refreshSymbol brings one symbol's stored history up to date: full weekly
// fetch when little data exists, incremental daily fetch when established
// but stale, nothing when current.
func (r *Refresher) refreshSymbol(ctx context.Context, symbol string, staleDays int, allowSecondary bool) {
	subLog := log.With().Str("Symbol", symbol).Logger()

	count, err := r.store.Count(ctx, symbol)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not count stored prices")
		return
	}
	last, err := r.store.LastDate(ctx, symbol)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not read last stored date")
		return
	}

	if count > substantialRows {
		if time.Since(last) <= time.Duration(staleDays)*24*time.Hour {
			subLog.Debug().Int("NumRows", count).Time("LastDate", last).Msg("data current, skipping")
			return
		}

		recent, err := r.yahoo.History(ctx, symbol, "1d", last)
		if err != nil {
			subLog.Warn().Err(err).Msg("incremental fetch failed")
			return
		}
		fresh := recent.After(last.AddDate(0, 0, 1))
		if err := r.store.SavePrices(ctx, symbol, fresh); err == nil && len(fresh) > 0 {
			subLog.Info().Int("NumNew", len(fresh)).Msg("added incremental prices")
		}
		return
	}

	points, err := r.yahoo.History(ctx, symbol, "1wk", time.Time{})
	if err != nil && allowSecondary && r.av != nil {
		subLog.Warn().Err(err).Msg("primary provider failed, trying secondary")
		points, err = r.av.WeeklyAdjusted(ctx, symbol)
	}
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not fetch price history")
		return
	}

	if err := r.store.SavePrices(ctx, symbol, points); err == nil {
		subLog.Info().Int("NumPoints", len(points)).Msg("saved full price history")
	}
}

func (r *Refresher) refreshHousing(ctx context.Context) {
	last, err := r.store.LastDate(ctx, HousingSymbol)
	if err == nil && !last.IsZero() && time.Since(last) < housingStaleDays*24*time.Hour {
		log.Debug().Time("LastDate", last).Msg("housing data recent, skipping")
		return
	}

	points, err := r.statdk.QuarterlyIndex(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch housing index, using stored or fallback data")
		return
	}

	if err := r.store.SavePrices(ctx, HousingSymbol, points); err == nil {
		log.Info().Int("NumPoints", len(points)).Msg("saved housing index")
	}
}
