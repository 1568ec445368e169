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

package engine

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/etf-compare/ec-api/metrics"
	"github.com/etf-compare/ec-api/series"
)

const growthBase = 10_000

// GrowthPoint is one observation of a normalized growth curve
type GrowthPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// GrowthResult holds growth-of-$10K curves for the requested tickers. All
// curves start at the latest first-date across the selection so the
// comparison covers an identical window.
type GrowthResult struct {
	Series      map[string][]GrowthPoint `json:"series"`
	CommonStart string                   `json:"commonStart,omitempty"`
	CommonEnd   string                   `json:"commonEnd,omitempty"`
}

// Growth builds aligned growth-of-$10K curves from the current snapshot's
// extended series. The synthetic portfolio ticker resolves to the
// equal-weight mean of its constituents' normalized curves. Tickers with no
// stored history get a synthetic monthly curve compounded from their best
// annualized return; tickers with neither get an empty curve.
func (e *Engine) Growth(tickers []string, years int) GrowthResult {
	snap := e.Current()
	now := e.cfg.Now()
	cutoff := now.AddDate(0, 0, -int(float64(years)*365.25))

	raw := make(map[string]series.Series, len(tickers))
	for _, ticker := range tickers {
		if strings.HasPrefix(ticker, "PORT-") {
			if s := e.portfolioSeries(snap, cutoff); len(s) >= 2 {
				raw[ticker] = s
				continue
			}
		}
		if s := snap.Extended[ticker].After(cutoff); len(s) >= 2 {
			raw[ticker] = s
			continue
		}
		if s := e.syntheticSeries(snap, ticker, years, now); len(s) >= 2 {
			raw[ticker] = s
		}
	}

	result := GrowthResult{Series: make(map[string][]GrowthPoint, len(tickers))}
	if len(raw) == 0 {
		return result
	}

	var commonStart time.Time
	for _, s := range raw {
		if first := s.First().Date; first.After(commonStart) {
			commonStart = first
		}
	}

	var commonEnd time.Time
	for _, ticker := range tickers {
		s, ok := raw[ticker]
		if !ok {
			result.Series[ticker] = []GrowthPoint{}
			continue
		}
		aligned := s.After(commonStart)
		if len(aligned) < 2 || aligned.First().Close <= 0 {
			result.Series[ticker] = []GrowthPoint{}
			continue
		}
		base := aligned.First().Close
		points := make([]GrowthPoint, len(aligned))
		for i, p := range aligned {
			points[i] = GrowthPoint{
				Date:  p.Date.Format("2006-01-02"),
				Value: math.Round(growthBase*p.Close/base*100) / 100,
			}
		}
		result.Series[ticker] = points
		if last := aligned.Last().Date; last.After(commonEnd) {
			commonEnd = last
		}
	}

	if !commonEnd.IsZero() {
		result.CommonStart = commonStart.Format("2006-01-02")
		result.CommonEnd = commonEnd.Format("2006-01-02")
	}
	return result
}

// portfolioSeries builds the equal-weight constituent curve: every
// constituent is normalized from the latest common constituent start and
// the per-date mean of the ratios forms the portfolio value.
func (e *Engine) portfolioSeries(snap *Snapshot, cutoff time.Time) series.Series {
	constituents := snap.PortfolioConstituents()
	if len(constituents) == 0 {
		return nil
	}

	parts := make(map[string]series.Series, len(constituents))
	var commonStart time.Time
	for _, ct := range constituents {
		s := snap.Extended[ct].After(cutoff)
		if len(s) < 2 {
			continue
		}
		parts[ct] = s
		if first := s.First().Date; first.After(commonStart) {
			commonStart = first
		}
	}
	if len(parts) == 0 {
		return nil
	}

	ratios := make(map[time.Time][]float64)
	for _, s := range parts {
		aligned := s.After(commonStart)
		if len(aligned) == 0 || aligned.First().Close <= 0 {
			continue
		}
		base := aligned.First().Close
		for _, p := range aligned {
			ratios[p.Date] = append(ratios[p.Date], p.Close/base)
		}
	}

	dates := make([]time.Time, 0, len(ratios))
	for d := range ratios {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	n := float64(len(parts))
	out := make(series.Series, 0, len(dates))
	for _, d := range dates {
		var sum float64
		for _, r := range ratios[d] {
			sum += r
		}
		out = out.Upsert(d, sum/n)
	}
	return out
}

// syntheticSeries compounds a monthly curve from the asset's best available
// annualized return when no price history exists.
func (e *Engine) syntheticSeries(snap *Snapshot, ticker string, years int, now time.Time) series.Series {
	var entry *metrics.AssetMetrics
	for _, m := range snap.Assets {
		if m.Ticker == ticker {
			entry = m
			break
		}
	}
	if entry == nil {
		return nil
	}

	ann, _ := entry.BestLongTermReturn()
	if !ann.Avail() {
		return nil
	}

	monthlyRate := math.Pow(1+float64(ann)/100, 1.0/12)
	totalMonths := years * 12
	out := make(series.Series, 0, totalMonths+1)
	for m := 0; m <= totalMonths; m++ {
		d := now.AddDate(0, 0, -int(float64(totalMonths-m)*30.44))
		out = out.Upsert(d, math.Pow(monthlyRate, float64(m)))
	}
	return out
}

// PortfolioConstituents lists the tickers backing the synthetic portfolio
// entry, in rank order.
func (s *Snapshot) PortfolioConstituents() []string {
	for _, m := range s.Assets {
		if m.Kind == metrics.KindPortfolio {
			parts := strings.Split(m.Index, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if t := strings.TrimSpace(p); t != "" {
					out = append(out, t)
				}
			}
			return out
		}
	}
	return nil
}
