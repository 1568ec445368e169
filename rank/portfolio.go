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

package rank

import (
	"fmt"
	"math"
	"strings"

	"github.com/etf-compare/ec-api/correlation"
	"github.com/etf-compare/ec-api/metrics"
)

// DefaultConstituents is how many ranked entries feed the synthetic
// portfolio.
const DefaultConstituents = 7

// SynthesizePortfolio builds an equal-weight portfolio entry from the first
// n ranked assets. Every numeric field is the unweighted mean of the
// available constituent values; cumulative returns are recompounded from the
// averaged annualized figures rather than averaged directly. Drawdown is the
// mean of constituent magnitudes, a deliberately conservative over-estimate.
// The entry carries no native price history.
func SynthesizePortfolio(ranked []*metrics.AssetMetrics, n int, corr correlation.Matrix, riskFreePct float64) *metrics.AssetMetrics {
	if n > len(ranked) {
		n = len(ranked)
	}
	pool := ranked[:n]

	tickers := make([]string, len(pool))
	for i, a := range pool {
		tickers[i] = a.Ticker
	}
	joined := strings.Join(tickers, ", ")

	p := metrics.NewAssetMetrics(fmt.Sprintf("PORT-%d", n), fmt.Sprintf("Equal-Weight Portfolio (%d assets)", n))
	p.Kind = metrics.KindPortfolio
	p.Issuer = "Synthetic"
	p.Category = "Diversified Portfolio"
	p.Index = joined
	p.Description = fmt.Sprintf(
		"Equally-weighted portfolio of %d asset classes: %s. "+
			"Returns are the simple average of each constituent's annualized return "+
			"(approximates annual rebalancing). Drawdown is the average of constituent "+
			"drawdowns — actual portfolio drawdown would be lower due to diversification.",
		n, joined)
	p.RankReason = fmt.Sprintf("Portfolio of top %d", n)

	p.YTDReturn = mean(pool, func(a *metrics.AssetMetrics) metrics.Float { return a.YTDReturn })
	p.OneYearReturn = mean(pool, func(a *metrics.AssetMetrics) metrics.Float { return a.OneYearReturn })
	p.ThreeYearReturn = mean(pool, func(a *metrics.AssetMetrics) metrics.Float { return a.ThreeYearReturn })

	for _, yrs := range []int{5, 10, 15, 20, 25} {
		y := yrs
		h := p.Horizon(y)
		h.Annualized = mean(pool, func(a *metrics.AssetMetrics) metrics.Float { return a.Horizon(y).Annualized })
		h.Cumulative = metrics.CumulativeReturn(h.Annualized, float64(y))
		h.Note = "Equal-weight avg"
	}

	best, _ := p.BestLongTermReturn()
	p.FortyYearCumulative = metrics.CumulativeReturn(best, 40)

	p.SinceInceptionReturn = mean(pool, func(a *metrics.AssetMetrics) metrics.Float { return a.SinceInceptionReturn })
	p.SinceInceptionYears = float64(mean(pool, func(a *metrics.AssetMetrics) metrics.Float {
		return metrics.Float(a.SinceInceptionYears)
	}))

	p.SinceAnchorReturn = mean(pool, func(a *metrics.AssetMetrics) metrics.Float { return a.SinceAnchorReturn })
	var anchorYears, anchorCount float64
	for _, a := range pool {
		if a.SinceAnchorReturn.Avail() {
			anchorYears += a.SinceAnchorYears
			anchorCount++
		}
	}
	if anchorCount > 0 {
		p.SinceAnchorYears = round2(anchorYears / anchorCount)
		p.SinceAnchorCumulative = metrics.CumulativeReturn(p.SinceAnchorReturn, p.SinceAnchorYears)
	} else {
		p.SinceAnchorCumulative = metrics.Unavailable()
	}

	p.Drawdowns = metrics.DrawdownSummary{
		MaxDrawdown:    meanDrawdown(pool),
		DrawdownPeriod: "Estimated avg",
		DrawdownLabel:  "Avg of constituents (actual lower)",
		SecondDrawdown: metrics.Unavailable(),
	}

	p.DividendYield = mean(pool, func(a *metrics.AssetMetrics) metrics.Float { return a.DividendYield })

	p.AnnualizedStdDev = portfolioStdDev(pool, corr)
	p.SharpeRatio = metrics.Sharpe(p.TenYear.Annualized, p.AnnualizedStdDev, riskFreePct)

	return p
}

// portfolioStdDev estimates volatility via the equal-weight quadratic form
// when every constituent volatility is known, otherwise via the independence
// approximation mean(sigma)/sqrt(n).
func portfolioStdDev(pool []*metrics.AssetMetrics, corr correlation.Matrix) metrics.Float {
	n := float64(len(pool))
	if n == 0 {
		return metrics.Unavailable()
	}

	allKnown := true
	for _, a := range pool {
		if !a.AnnualizedStdDev.Avail() {
			allKnown = false
			break
		}
	}

	if allKnown && corr != nil {
		var varSum float64
		for _, a := range pool {
			for _, b := range pool {
				si := float64(a.AnnualizedStdDev) / 100
				sj := float64(b.AnnualizedStdDev) / 100
				varSum += si * sj * corr.At(a.Ticker, b.Ticker)
			}
		}
		return metrics.Float(round2(math.Sqrt(varSum/(n*n)) * 100))
	}

	var sum, count float64
	for _, a := range pool {
		if a.AnnualizedStdDev.Avail() {
			sum += float64(a.AnnualizedStdDev)
			count++
		}
	}
	if count == 0 {
		return metrics.Unavailable()
	}
	return metrics.Float(round2(sum / count / math.Sqrt(n)))
}

// mean averages the available values of one field across the pool. The mean
// of no available values is unavailable, not zero.
func mean(pool []*metrics.AssetMetrics, get func(*metrics.AssetMetrics) metrics.Float) metrics.Float {
	var sum, count float64
	for _, a := range pool {
		if v := get(a); v.Avail() {
			sum += float64(v)
			count++
		}
	}
	if count == 0 {
		return metrics.Unavailable()
	}
	return metrics.Float(round2(sum / count))
}

// meanDrawdown averages the non-zero constituent drawdowns, or 0 when none
// qualify.
func meanDrawdown(pool []*metrics.AssetMetrics) metrics.Float {
	var sum, count float64
	for _, a := range pool {
		if dd := a.Drawdowns.MaxDrawdown; dd.Avail() && dd != 0 {
			sum += float64(dd)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return metrics.Float(round2(sum / count))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
