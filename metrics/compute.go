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

	"github.com/etf-compare/ec-api/series"
)

// Compute derives a fresh AssetMetrics record from the (possibly extended)
// price series. The fallback record supplies descriptive metadata plus a
// static estimate for every field the series cannot support; each field
// falls back independently. The result is always a new record.
func Compute(s series.Series, fallback *AssetMetrics, opts Options) *AssetMetrics {
	m := *fallback
	m.Kind = KindNative

	if len(s) < minSeriesPoints {
		recomputeCumulatives(&m)
		m.SharpeRatio = Sharpe(m.TenYear.Annualized, m.AnnualizedStdDev, opts.RiskFreeRate)
		return &m
	}

	for _, yrs := range horizonYears {
		h := m.horizon(yrs)
		live, note := PeriodReturn(s, yrs)
		if live.Avail() {
			h.Annualized, h.Note = withRent(live, note, opts.RentYield)
		} else {
			h.Annualized = fallback.horizon(yrs).Annualized
			h.Note = fallback.horizon(yrs).Note
		}
	}

	ytd, oneYear, threeYear := ShortHorizonReturns(s, opts.Now)
	m.YTDReturn = pickShort(ytd, fallback.YTDReturn, opts.RentYield)
	m.OneYearReturn = pickShort(oneYear, fallback.OneYearReturn, opts.RentYield)
	m.ThreeYearReturn = pickShort(threeYear, fallback.ThreeYearReturn, opts.RentYield)

	if ret, years := SinceInceptionReturn(s); ret.Avail() {
		m.SinceInceptionReturn, _ = withRent(ret, "", opts.RentYield)
		m.SinceInceptionYears = years
	}
	if ret, years := SinceDateReturn(s, opts.SinceAnchor); ret.Avail() {
		m.SinceAnchorReturn, _ = withRent(ret, "", opts.RentYield)
		m.SinceAnchorYears = years
	}

	m.Drawdowns = Drawdowns(s, opts.DrawdownThreshold, opts.DrawdownSeparation)

	if sd := AnnualizedStdDev(s, opts.PeriodsPerYear); sd.Avail() {
		m.AnnualizedStdDev = sd
	} else {
		m.AnnualizedStdDev = fallback.AnnualizedStdDev
	}

	m.DataStart = s.First().Date.Format("2006-01-02")

	recomputeCumulatives(&m)

	sharpeBase := m.TenYear.Annualized
	if !sharpeBase.Avail() {
		sharpeBase, _ = m.BestLongTermReturn()
	}
	m.SharpeRatio = Sharpe(sharpeBase, m.AnnualizedStdDev, opts.RiskFreeRate)

	return &m
}

// recomputeCumulatives rebuilds every cumulative figure from its final
// annualized counterpart so fallback-substituted fields stay consistent.
func recomputeCumulatives(m *AssetMetrics) {
	for _, yrs := range horizonYears {
		h := m.horizon(yrs)
		h.Cumulative = CumulativeReturn(h.Annualized, float64(yrs))
	}
	best, _ := m.BestLongTermReturn()
	m.FortyYearCumulative = CumulativeReturn(best, 40)
	if m.SinceAnchorReturn.Avail() && m.SinceAnchorYears > 0 {
		m.SinceAnchorCumulative = CumulativeReturn(m.SinceAnchorReturn, m.SinceAnchorYears)
	} else {
		m.SinceAnchorCumulative = Unavailable()
	}
}

// withRent uplifts a price-only return by the asset's gross rent yield,
// replacing any note with the price-only breakdown.
func withRent(priceReturn Float, note string, rentYield float64) (Float, string) {
	if rentYield == 0 || !priceReturn.Avail() {
		return priceReturn, note
	}
	total := Float(round2(float64(priceReturn) + rentYield))
	return total, fmt.Sprintf("incl. ~%.1f%% rent (price only: %.1f%%)", rentYield, float64(priceReturn))
}

func pickShort(live, fallback Float, rentYield float64) Float {
	if live.Avail() {
		v, _ := withRent(live, "", rentYield)
		return v
	}
	return fallback
}
