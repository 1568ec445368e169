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

package metrics

import (
	"math"
	"strconv"
	"time"
)

// EntryKind distinguishes entries backed by a real price series from the
// synthesized equal-weight portfolio entry.
type EntryKind string

const (
	KindNative    EntryKind = "native"
	KindPortfolio EntryKind = "portfolio"
)

// Float is a float64 whose unavailable state (NaN) serializes as JSON null
type Float float64

func Unavailable() Float {
	return Float(math.NaN())
}

// Avail reports whether the value is a well-defined number
func (f Float) Avail() bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Avail() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(f), 'f', -1, 64)), nil
}

func (f *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Unavailable()
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// HorizonReturn pairs an annualized return with its compounded cumulative
// equivalent and an optional human-readable qualification (e.g. when the
// available window is shorter than requested).
type HorizonReturn struct {
	Annualized Float  `json:"annualized"`
	Cumulative Float  `json:"cumulative"`
	Note       string `json:"note,omitempty"`
}

// DrawdownSummary describes the most severe historical drawdown and, when
// one exists with a trough far enough away in time, a second event from a
// different market-stress episode.
type DrawdownSummary struct {
	MaxDrawdown          Float  `json:"maxDrawdown"`
	DrawdownPeriod       string `json:"drawdownPeriod"`
	DrawdownLabel        string `json:"drawdownLabel"`
	SecondDrawdown       Float  `json:"secondDrawdown"`
	SecondDrawdownPeriod string `json:"secondDrawdownPeriod,omitempty"`
	SecondDrawdownLabel  string `json:"secondDrawdownLabel,omitempty"`
}

// AssetMetrics is the per-asset computed record. It is derived wholesale
// from the current price series on every recomputation pass and never
// mutated incrementally.
type AssetMetrics struct {
	Ticker      string    `json:"ticker"`
	Name        string    `json:"name"`
	Issuer      string    `json:"issuer,omitempty"`
	Category    string    `json:"category,omitempty"`
	Index       string    `json:"index,omitempty"`
	Description string    `json:"description,omitempty"`
	Kind        EntryKind `json:"kind"`

	YTDReturn       Float `json:"ytdReturn"`
	OneYearReturn   Float `json:"oneYearReturn"`
	ThreeYearReturn Float `json:"threeYearReturn"`

	FiveYear       HorizonReturn `json:"fiveYear"`
	TenYear        HorizonReturn `json:"tenYear"`
	FifteenYear    HorizonReturn `json:"fifteenYear"`
	TwentyYear     HorizonReturn `json:"twentyYear"`
	TwentyFiveYear HorizonReturn `json:"twentyFiveYear"`

	// FortyYearCumulative projects the longest-horizon annualized return
	// over a fixed 40-year compounding window.
	FortyYearCumulative Float `json:"fortyYearCumulativeReturn"`

	SinceInceptionReturn Float   `json:"sinceInceptionReturn"`
	SinceInceptionYears  float64 `json:"sinceInceptionYears"`

	SinceAnchorReturn     Float   `json:"since1990Return"`
	SinceAnchorYears      float64 `json:"since1990Years"`
	SinceAnchorCumulative Float   `json:"since1990CumulativeReturn"`

	Drawdowns DrawdownSummary `json:"drawdowns"`

	AnnualizedStdDev Float `json:"annualizedStdDev"`
	SharpeRatio      Float `json:"sharpeRatio"`

	Rank       int    `json:"rank"`
	RankReason string `json:"rankReason,omitempty"`

	DataStart     string `json:"dataStart,omitempty"`
	InceptionDate string `json:"inceptionDate,omitempty"`
	BackerNote    string `json:"backerNote,omitempty"`
	DividendYield Float  `json:"dividendYield"`
}

// NewAssetMetrics returns a record with every metric unavailable. Builders
// that fill records field by field start here so an unset horizon can never
// read as a real 0% return.
func NewAssetMetrics(ticker, name string) *AssetMetrics {
	na := Unavailable()
	naHorizon := HorizonReturn{Annualized: na, Cumulative: na}
	return &AssetMetrics{
		Ticker: ticker,
		Name:   name,
		Kind:   KindNative,

		YTDReturn:       na,
		OneYearReturn:   na,
		ThreeYearReturn: na,

		FiveYear:       naHorizon,
		TenYear:        naHorizon,
		FifteenYear:    naHorizon,
		TwentyYear:     naHorizon,
		TwentyFiveYear: naHorizon,

		FortyYearCumulative: na,

		SinceInceptionReturn:  na,
		SinceAnchorReturn:     na,
		SinceAnchorCumulative: na,

		Drawdowns: DrawdownSummary{
			DrawdownPeriod: "N/A",
			SecondDrawdown: na,
		},

		AnnualizedStdDev: na,
		SharpeRatio:      na,
		DividendYield:    na,
	}
}

// horizonYears lists the supported long-term horizons from longest to
// shortest. Ranking prefers the longest horizon with an available value.
var horizonYears = []int{25, 20, 15, 10, 5}

func (m *AssetMetrics) horizon(years int) *HorizonReturn {
	switch years {
	case 5:
		return &m.FiveYear
	case 10:
		return &m.TenYear
	case 15:
		return &m.FifteenYear
	case 20:
		return &m.TwentyYear
	case 25:
		return &m.TwentyFiveYear
	}
	return nil
}

// Horizon returns the long-term horizon record for the given span of years
// or nil when the span is not a supported horizon.
func (m *AssetMetrics) Horizon(years int) *HorizonReturn {
	return m.horizon(years)
}

// BestLongTermReturn picks the longest-horizon available annualized return,
// preferring 25y > 20y > 15y > 10y > 5y. The second return value reports
// the horizon chosen, or 0 when no horizon is available.
func (m *AssetMetrics) BestLongTermReturn() (Float, int) {
	for _, yrs := range horizonYears {
		if h := m.horizon(yrs); h.Annualized.Avail() {
			return h.Annualized, yrs
		}
	}
	return Unavailable(), 0
}

// Options control the computation pass for a single asset
type Options struct {
	Now                time.Time
	RiskFreeRate       float64 // annualized percent
	DrawdownThreshold  float64 // fractional, e.g. 0.05
	DrawdownSeparation int     // calendar years between reported troughs
	PeriodsPerYear     float64 // 52 weekly, 4 quarterly
	SinceAnchor        time.Time
	// RentYield, when non-zero, is added to every price-only long-term
	// return to approximate total return for assets with rental income.
	RentYield float64
}

// DefaultOptions returns computation options matching a weekly price cadence
func DefaultOptions(now time.Time) Options {
	return Options{
		Now:                now,
		RiskFreeRate:       4.0,
		DrawdownThreshold:  0.05,
		DrawdownSeparation: 2,
		PeriodsPerYear:     52,
		SinceAnchor:        time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
