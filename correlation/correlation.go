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

// Package correlation derives the pairwise correlation structure of asset
// return series, substituting static approximate values wherever the live
// data cannot support an estimate. The resulting matrix is always complete.
package correlation

import (
	"math"
	"sort"
	"time"

	"github.com/etf-compare/ec-api/series"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultMinOverlap is the fewest common return dates a pair needs
	// before its live correlation is trusted (about six months weekly).
	DefaultMinOverlap = 26
	// DefaultMinAssets is the fewest assets with usable return series
	// before any live matrix is computed at all. Below this the static
	// matrix is used wholesale so rankings never rest on a couple of
	// noisy pairs.
	DefaultMinAssets = 5
)

// Matrix is a complete symmetric correlation lookup keyed by ticker pair.
// Diagonal entries are 1.0; any pair without a live estimate holds the
// static approximate value.
type Matrix map[string]map[string]float64

// At returns the correlation between two tickers, 0.5 when the pair is
// entirely unknown (a deliberately neutral-positive guess).
func (m Matrix) At(t1, t2 string) float64 {
	if row, ok := m[t1]; ok {
		if v, ok := row[t2]; ok {
			return v
		}
	}
	return 0.5
}

func (m Matrix) set(t1, t2 string, v float64) {
	row, ok := m[t1]
	if !ok {
		row = make(map[string]float64)
		m[t1] = row
	}
	row[t2] = v
}

// Engine computes a correlation matrix from per-asset series, falling back
// to the static matrix per pair or wholesale.
type Engine struct {
	MinOverlap int
	MinAssets  int
	Fallback   Matrix
}

func NewEngine(fallback Matrix) *Engine {
	return &Engine{
		MinOverlap: DefaultMinOverlap,
		MinAssets:  DefaultMinAssets,
		Fallback:   fallback,
	}
}

// ReturnSeries is a date-keyed periodic simple return series for one asset
type ReturnSeries map[time.Time]float64

// Compute derives the full matrix. minPoints gives, per ticker, the fewest
// observations that series needs before its returns are usable; tickers
// absent from the map default to a year of weekly data (52).
func (e *Engine) Compute(allTickers []string, prices map[string]series.Series, minPoints map[string]int) Matrix {
	returns := make(map[string]ReturnSeries, len(prices))
	for ticker, s := range prices {
		min := 52
		if mp, ok := minPoints[ticker]; ok {
			min = mp
		}
		if len(s) < min {
			continue
		}
		if rets := s.Returns(); len(rets) > 0 {
			returns[ticker] = rets
		}
	}

	out := make(Matrix, len(allTickers))
	if len(returns) < e.MinAssets {
		e.fill(out, allTickers)
		return out
	}

	usable := make([]string, 0, len(returns))
	for t := range returns {
		usable = append(usable, t)
	}
	sort.Strings(usable)

	for _, t1 := range usable {
		for _, t2 := range usable {
			if t1 == t2 {
				out.set(t1, t2, 1.0)
				continue
			}
			out.set(t1, t2, e.pair(t1, t2, returns[t1], returns[t2]))
		}
	}

	e.fill(out, allTickers)
	return out
}

// pair computes the Pearson correlation over the dates common to both
// return series, or the static value when overlap is too thin.
func (e *Engine) pair(t1, t2 string, r1, r2 ReturnSeries) float64 {
	common := make([]time.Time, 0, len(r1))
	for d := range r1 {
		if _, ok := r2[d]; ok {
			common = append(common, d)
		}
	}
	if len(common) < e.MinOverlap {
		return e.Fallback.At(t1, t2)
	}

	sort.Slice(common, func(i, j int) bool { return common[i].Before(common[j]) })

	x := make([]float64, len(common))
	y := make([]float64, len(common))
	for i, d := range common {
		x[i] = r1[d]
		y[i] = r2[d]
	}

	corr := stat.Correlation(x, y, nil)
	if math.IsNaN(corr) {
		// constant series carry no correlation information
		return 0.0
	}
	return math.Round(corr*1e4) / 1e4
}

// fill completes the matrix from the static table for every ticker or pair
// missing a live value.
func (e *Engine) fill(m Matrix, allTickers []string) {
	for _, t1 := range allTickers {
		for _, t2 := range allTickers {
			if _, ok := m[t1][t2]; ok {
				continue
			}
			if t1 == t2 {
				m.set(t1, t2, 1.0)
				continue
			}
			m.set(t1, t2, e.Fallback.At(t1, t2))
		}
	}
}
