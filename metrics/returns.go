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
	"fmt"
	"math"
	"time"

	"github.com/etf-compare/ec-api/series"
)

// minSeriesPoints is the floor below which no period return is attempted
const minSeriesPoints = 10

// AnnualizedReturn computes the compound annual growth rate between two
// values over a span of years, as a percentage. Degenerate inputs
// (non-positive start, non-positive span) yield 0 rather than an error.
func AnnualizedReturn(startValue, endValue, years float64) float64 {
	if startValue <= 0 || years <= 0 {
		return 0
	}
	return (math.Pow(endValue/startValue, 1.0/years) - 1) * 100
}

// CumulativeReturn compounds an annualized percentage rate over a span of
// years into the total percentage change.
func CumulativeReturn(annualizedPct Float, years float64) Float {
	if !annualizedPct.Avail() {
		return Unavailable()
	}
	return Float(round2((math.Pow(1+float64(annualizedPct)/100, years) - 1) * 100))
}

// PeriodReturn computes the annualized return over the trailing targetYears
// window. When the series is more than half a year short of the target it is
// unavailable and the caller substitutes a static estimate. When the anchor
// found inside the window still leaves the actual span materially short, the
// value is returned with a since-inception note.
func PeriodReturn(s series.Series, targetYears int) (Float, string) {
	if len(s) < minSeriesPoints {
		return Unavailable(), ""
	}

	availableYears := s.Years()
	target := float64(targetYears)
	if availableYears < target-0.5 {
		return Unavailable(), ""
	}

	last := s.Last()
	targetDate := last.Date.AddDate(0, 0, -int(target*365.25))
	idx := s.IndexOnOrAfter(targetDate)
	if idx == -1 {
		return Unavailable(), ""
	}

	start := s[idx]
	actualYears := series.ToYears(last.Date.Sub(start.Date))
	if actualYears < 1 {
		return Unavailable(), ""
	}

	ret := round2(AnnualizedReturn(start.Close, last.Close, actualYears))
	note := ""
	if actualYears < target-0.5 {
		note = fmt.Sprintf("Since inception (~%.1fY)", availableYears)
	}
	return Float(ret), note
}

// SinceInceptionReturn computes the annualized return over the full series.
// The second value is the span in years, rounded to one decimal.
func SinceInceptionReturn(s series.Series) (Float, float64) {
	if len(s) < minSeriesPoints {
		return Unavailable(), 0
	}
	totalYears := s.Years()
	if totalYears < 1 || s.First().Close <= 0 {
		return Unavailable(), 0
	}
	ret := round2(AnnualizedReturn(s.First().Close, s.Last().Close, totalYears))
	return Float(ret), math.Round(totalYears*10) / 10
}

// SinceDateReturn computes the annualized return anchored at the earliest
// observation on or after the given date. Unavailable when the series does
// not reach back that far.
func SinceDateReturn(s series.Series, anchor time.Time) (Float, float64) {
	if len(s) < minSeriesPoints {
		return Unavailable(), 0
	}
	if s.First().Date.After(anchor) {
		return Unavailable(), 0
	}

	idx := s.IndexOnOrAfter(anchor)
	if idx == -1 {
		return Unavailable(), 0
	}

	start := s[idx]
	last := s.Last()
	years := series.ToYears(last.Date.Sub(start.Date))
	if years < 1 || start.Close <= 0 {
		return Unavailable(), 0
	}
	ret := round2(AnnualizedReturn(start.Close, last.Close, years))
	return Float(ret), math.Round(years*10) / 10
}

// ShortHorizonReturns computes the year-to-date and trailing 1-year simple
// returns plus the trailing 3-year annualized return. Each field is
// independently unavailable when the series lacks a point in its window.
func ShortHorizonReturns(s series.Series, now time.Time) (ytd, oneYear, threeYear Float) {
	ytd, oneYear, threeYear = Unavailable(), Unavailable(), Unavailable()
	if len(s) < 2 {
		return
	}

	last := s.Last()

	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	if sub := s.After(yearStart); len(sub) >= 2 {
		ytd = Float(round2((sub.Last().Close - sub.First().Close) / sub.First().Close * 100))
	}

	if idx := s.IndexOnOrAfter(now.AddDate(0, 0, -365)); idx != -1 && s[idx].Close > 0 {
		oneYear = Float(round2((last.Close - s[idx].Close) / s[idx].Close * 100))
	}

	if idx := s.IndexOnOrAfter(now.AddDate(0, 0, -3*365)); idx != -1 {
		threeYear = Float(round2(AnnualizedReturn(s[idx].Close, last.Close, 3)))
	}

	return
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
