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

// Package engine orchestrates the full analytics pass: extend each asset's
// history through its proxy chain, compute per-asset metrics, derive the
// correlation matrix, rank by return-then-diversification, synthesize the
// equal-weight portfolio, and publish everything as one atomic snapshot.
package engine

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/etf-compare/ec-api/asset"
	"github.com/etf-compare/ec-api/correlation"
	"github.com/etf-compare/ec-api/metrics"
	"github.com/etf-compare/ec-api/rank"
	"github.com/etf-compare/ec-api/series"
	"github.com/rs/zerolog/log"
)

// PriceSource supplies fully materialized price series per symbol. Both
// universe tickers and backer proxy symbols resolve through it. A missing
// symbol yields an empty series, not an error.
type PriceSource interface {
	Series(ctx context.Context, symbol string) (series.Series, error)
}

// Config tunes the analytics pass
type Config struct {
	RiskFreeRate       float64
	DrawdownThreshold  float64
	DrawdownSeparation int
	TopReturnCount     int
	Constituents       int
	SinceAnchor        time.Time
	Now                func() time.Time
}

// DefaultConfig returns the standard tunables
func DefaultConfig() Config {
	return Config{
		RiskFreeRate:       4.0,
		DrawdownThreshold:  0.05,
		DrawdownSeparation: 2,
		TopReturnCount:     rank.DefaultTopReturnCount,
		Constituents:       rank.DefaultConstituents,
		SinceAnchor:        time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:                time.Now,
	}
}

// Snapshot is one immutable result of a full analytics pass. Readers always
// see either this snapshot or its complete successor, never a mix.
type Snapshot struct {
	Assets       []*metrics.AssetMetrics    `json:"assets"`
	Correlations correlation.Matrix         `json:"correlations"`
	ComputedAt   time.Time                  `json:"computedAt"`
	Source       string                     `json:"source"` // live | fallback
	Extended     map[string]series.Series   `json:"-"`
}

// Engine holds the current snapshot and recomputes it wholesale on demand
type Engine struct {
	source   PriceSource
	corr     *correlation.Engine
	cfg      Config
	snapshot atomic.Pointer[Snapshot]
}

func New(source PriceSource, cfg Config) *Engine {
	e := &Engine{
		source: source,
		corr:   correlation.NewEngine(asset.FallbackCorrelation()),
		cfg:    cfg,
	}
	e.snapshot.Store(e.fallbackSnapshot())
	return e
}

// Current returns the latest published snapshot. Never nil: before the
// first live pass it holds the static fallback ranking.
func (e *Engine) Current() *Snapshot {
	return e.snapshot.Load()
}

// Recompute runs one full synchronous analytics pass over every asset and
// publishes the result atomically. Short or missing data never fails the
// pass; affected fields fall back to the static tables per asset.
func (e *Engine) Recompute(ctx context.Context) (*Snapshot, error) {
	now := e.cfg.Now()
	fallbacks := asset.FallbackMetrics()
	universe := asset.Universe()

	extended := make(map[string]series.Series, len(universe))
	minPoints := make(map[string]int, len(universe))
	live := 0

	for _, a := range universe {
		s, err := e.extendedSeries(ctx, a)
		if err != nil {
			log.Warn().Stack().Err(err).Str("Ticker", a.Ticker).Msg("could not load price series")
			continue
		}
		extended[a.Ticker] = s
		if a.Cadence == asset.Quarterly {
			minPoints[a.Ticker] = 8
		} else {
			minPoints[a.Ticker] = 52
		}
		if len(s) > 0 {
			live++
		}
	}

	assets := make([]*metrics.AssetMetrics, 0, len(universe))
	for _, a := range universe {
		fallback, ok := fallbacks[a.Ticker]
		if !ok {
			log.Error().Str("Ticker", a.Ticker).Msg("no fallback entry for ticker")
			continue
		}

		opts := metrics.Options{
			Now:                now,
			RiskFreeRate:       e.cfg.RiskFreeRate,
			DrawdownThreshold:  e.cfg.DrawdownThreshold,
			DrawdownSeparation: e.cfg.DrawdownSeparation,
			PeriodsPerYear:     a.Cadence.PeriodsPerYear(),
			SinceAnchor:        e.cfg.SinceAnchor,
			RentYield:          a.RentYield,
		}

		m := metrics.Compute(extended[a.Ticker], fallback, opts)
		m.BackerNote = backerNote(a, m.DataStart)
		assets = append(assets, m)
	}

	matrix := e.corr.Compute(asset.Tickers(), extended, minPoints)
	ranked := rank.Rank(assets, matrix, e.cfg.TopReturnCount)
	portfolio := rank.SynthesizePortfolio(ranked, e.cfg.Constituents, matrix, e.cfg.RiskFreeRate)

	result := make([]*metrics.AssetMetrics, 0, len(ranked)+1)
	result = append(result, portfolio)
	result = append(result, ranked...)

	source := "live"
	if live == 0 {
		source = "fallback"
	}

	snap := &Snapshot{
		Assets:       result,
		Correlations: matrix,
		ComputedAt:   now,
		Source:       source,
		Extended:     extended,
	}
	e.snapshot.Store(snap)

	log.Info().Int("Assets", len(result)).Int("LiveSeries", live).Str("Source", source).Msg("analytics pass complete")
	return snap, nil
}

// extendedSeries loads the native series plus every backer layer and
// chain-splices them into one continuous history.
func (e *Engine) extendedSeries(ctx context.Context, a asset.Asset) (series.Series, error) {
	native, err := e.source.Series(ctx, a.Ticker)
	if err != nil {
		return nil, err
	}
	if len(native) == 0 || len(a.Backers) == 0 {
		return native, nil
	}

	layers := make([]series.Layer, 0, len(a.Backers))
	for _, b := range a.Backers {
		prices, err := e.source.Series(ctx, b.Symbol)
		if err != nil {
			log.Warn().Stack().Err(err).Str("Ticker", a.Ticker).Str("Backer", b.Symbol).Msg("could not load backer series")
			continue
		}
		layers = append(layers, series.Layer{
			Prices:      prices,
			Description: b.Description,
			TotalReturn: b.TotalReturn,
		})
	}

	return series.Extend(native, layers), nil
}

// fallbackSnapshot ranks the static tables alone, for use before any live
// data exists.
func (e *Engine) fallbackSnapshot() *Snapshot {
	fallbacks := asset.FallbackMetrics()
	matrix := asset.FallbackCorrelation()

	assets := make([]*metrics.AssetMetrics, 0, len(fallbacks))
	for _, a := range asset.Universe() {
		if m, ok := fallbacks[a.Ticker]; ok {
			cp := *m
			cp.SharpeRatio = metrics.Sharpe(cp.TenYear.Annualized, cp.AnnualizedStdDev, e.cfg.RiskFreeRate)
			assets = append(assets, &cp)
		}
	}

	ranked := rank.Rank(assets, matrix, e.cfg.TopReturnCount)
	portfolio := rank.SynthesizePortfolio(ranked, e.cfg.Constituents, matrix, e.cfg.RiskFreeRate)

	result := make([]*metrics.AssetMetrics, 0, len(ranked)+1)
	result = append(result, portfolio)
	result = append(result, ranked...)

	return &Snapshot{
		Assets:       result,
		Correlations: matrix,
		ComputedAt:   e.cfg.Now(),
		Source:       "fallback",
		Extended:     map[string]series.Series{},
	}
}

// backerNote describes the proxy chain when the series actually reaches
// materially (>180 days) before the fund's inception.
func backerNote(a asset.Asset, dataStart string) string {
	if len(a.Backers) == 0 || dataStart == "" || a.InceptionDate == "" {
		return ""
	}
	ds, err := time.Parse("2006-01-02", dataStart)
	if err != nil {
		return ""
	}
	inc, err := time.Parse("2006-01-02", a.InceptionDate)
	if err != nil {
		return ""
	}
	if !ds.Before(inc.AddDate(0, 0, -180)) {
		return ""
	}
	descs := make([]string, len(a.Backers))
	for i, b := range a.Backers {
		descs[i] = b.Description
	}
	return "Extended via " + strings.Join(descs, " → ")
}
