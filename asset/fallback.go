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

package asset

import (
	"github.com/etf-compare/ec-api/correlation"
	"github.com/etf-compare/ec-api/metrics"
)

// na marks a snapshot field with no static estimate
var na = metrics.Unavailable()

type fallbackEntry struct {
	ticker                    string
	ytd, oneYear, threeYear   metrics.Float
	five, ten, fifteen        metrics.Float
	twenty, twentyFive        metrics.Float
	fiveNote, tenNote         string
	fifteenNote, twentyNote   string
	twentyFiveNote            string
	maxDD                     metrics.Float
	ddPeriod, ddLabel         string
	secondDD                  metrics.Float
	secondPeriod, secondLabel string
	dataStart                 string
	dividendYield             metrics.Float
}

// fallbackTable is a hand-maintained snapshot of approximate long-term
// figures per asset, used whenever live data cannot support a field. Values
// reflect history through early 2025 and are refreshed manually.
var fallbackTable = []fallbackEntry{
	{ticker: "QQQ", ytd: 5.1, oneYear: 28.4, threeYear: 11.2, five: 18.0, ten: 18.8, fifteen: 18.5, twenty: 15.5, twentyFive: 12.5,
		maxDD: -83.0, ddPeriod: "Mar 2000–Oct 2002", ddLabel: "Dot-com bust",
		secondDD: -56.2, secondPeriod: "Oct 2007–Mar 2009", secondLabel: "Global financial crisis",
		dataStart: "1999-03-01", dividendYield: 0.55},
	{ticker: "SPY", ytd: 4.2, oneYear: 22.8, threeYear: 10.4, five: 14.5, ten: 13.0, fifteen: 14.5, twenty: 10.5, twentyFive: 8.2,
		maxDD: -56.8, ddPeriod: "Oct 2007–Mar 2009", ddLabel: "Global financial crisis",
		secondDD: -49.1, secondPeriod: "Mar 2000–Oct 2002", secondLabel: "Dot-com bust",
		dataStart: "1993-02-01", dividendYield: 1.22},
	{ticker: "VTI", ytd: 3.8, oneYear: 21.5, threeYear: 9.8, five: 14.0, ten: 12.5, fifteen: 14.0, twenty: 10.2, twentyFive: na,
		maxDD: -55.9, ddPeriod: "Oct 2007–Mar 2009", ddLabel: "Global financial crisis",
		secondDD: -33.8, secondPeriod: "Feb 2020–Mar 2020", secondLabel: "COVID-19 crash",
		dataStart: "2001-06-01", dividendYield: 1.28},
	{ticker: "IWD", ytd: 3.2, oneYear: 17.5, threeYear: 8.8, five: 11.0, ten: 9.5, fifteen: 10.8, twenty: 8.5, twentyFive: 7.8,
		maxDD: -59.5, ddPeriod: "Oct 2007–Mar 2009", ddLabel: "Global financial crisis",
		secondDD: -33.5, secondPeriod: "Feb 2020–Mar 2020", secondLabel: "COVID-19 crash",
		dataStart: "2000-06-01", dividendYield: 2.0},
	{ticker: "IWM", ytd: 2.4, oneYear: 15.3, threeYear: 4.8, five: 9.0, ten: 8.5, fifteen: 9.8, twenty: 8.5, twentyFive: 8.0,
		maxDD: -59.9, ddPeriod: "Oct 2007–Mar 2009", ddLabel: "Global financial crisis",
		secondDD: -41.6, secondPeriod: "Feb 2020–Mar 2020", secondLabel: "COVID-19 crash",
		dataStart: "2000-06-01", dividendYield: 1.12},
	{ticker: "EFA", ytd: 5.8, oneYear: 11.5, threeYear: 5.0, five: 7.0, ten: 5.5, fifteen: 5.5, twenty: 4.5, twentyFive: na,
		maxDD: -62.4, ddPeriod: "Oct 2007–Mar 2009", ddLabel: "Global financial crisis",
		secondDD: -33.5, secondPeriod: "Feb 2020–Mar 2020", secondLabel: "COVID-19 crash",
		dataStart: "2001-08-01", dividendYield: 2.8},
	{ticker: "VEA", ytd: 5.5, oneYear: 10.8, threeYear: 4.5, five: 6.5, ten: 5.0, fifteen: 5.0, twenty: na, twentyFive: na,
		maxDD: -58.5, ddPeriod: "Oct 2007–Mar 2009", ddLabel: "Global financial crisis",
		secondDD: -34.0, secondPeriod: "Feb 2020–Mar 2020", secondLabel: "COVID-19 crash",
		dataStart: "2007-07-01", dividendYield: 3.0},
	{ticker: "EEM", ytd: 2.0, oneYear: 8.0, threeYear: 1.2, five: 3.5, ten: 2.0, fifteen: 2.5, twenty: 5.0, twentyFive: na,
		maxDD: -65.1, ddPeriod: "Oct 2007–Mar 2009", ddLabel: "Global financial crisis",
		secondDD: -36.0, secondPeriod: "Feb 2020–Mar 2020", secondLabel: "COVID-19 crash",
		dataStart: "2003-04-01", dividendYield: 2.5},
	{ticker: "TLT", ytd: -1.2, oneYear: -3.5, threeYear: -8.0, five: -6.0, ten: -1.5, fifteen: 1.5, twenty: 2.8, twentyFive: na,
		maxDD: -52.3, ddPeriod: "Aug 2020–Oct 2023", ddLabel: "Rate hikes / inflation",
		secondDD: -12.5, secondPeriod: "Jul 2016–Nov 2018", secondLabel: "Fed tightening / trade war",
		dataStart: "2002-08-01", dividendYield: 4.0},
	{ticker: "GLD", ytd: 4.2, oneYear: 26.5, threeYear: 12.8, five: 12.0, ten: 9.0, fifteen: 8.2, twenty: 9.5, twentyFive: na,
		maxDD: -45.5, ddPeriod: "Sep 2011–Dec 2015", ddLabel: "China / commodity selloff",
		secondDD: -18.5, secondPeriod: "Aug 2020–Mar 2021", secondLabel: "",
		dataStart: "2004-11-01", dividendYield: 0.0},
	{ticker: "IYR", ytd: 1.2, oneYear: 5.0, threeYear: 1.8, five: 4.0, ten: 5.5, fifteen: 7.5, twenty: 7.0, twentyFive: 8.0,
		maxDD: -76.5, ddPeriod: "Feb 2007–Mar 2009", ddLabel: "Global financial crisis",
		secondDD: -31.5, secondPeriod: "Feb 2020–Mar 2020", secondLabel: "COVID-19 crash",
		dataStart: "2000-07-01", dividendYield: 3.0},
	{ticker: "DBC", ytd: 2.5, oneYear: 5.0, threeYear: 3.0, five: 8.0, ten: 0.5, fifteen: 0.5, twenty: na, twentyFive: na,
		maxDD: -55.0, ddPeriod: "Jun 2008–Feb 2009", ddLabel: "Global financial crisis",
		secondDD: -48.0, secondPeriod: "Jun 2014–Jan 2016", secondLabel: "China / commodity selloff",
		dataStart: "2006-02-01", dividendYield: 0.0},
	{ticker: "CPH-RE", ytd: 7.0, oneYear: 8.8, threeYear: 7.7, five: 8.5, ten: 10.0, fifteen: 11.3, twenty: 10.0, twentyFive: 9.4,
		fiveNote: "incl. ~3.5% rent (price only: 5.0%)", tenNote: "incl. ~3.5% rent (price only: 6.5%)",
		fifteenNote: "incl. ~3.5% rent (price only: 7.8%)", twentyNote: "incl. ~3.5% rent (price only: 6.5%)",
		twentyFiveNote: "incl. ~3.5% rent (price only: 5.9%)",
		maxDD:          -30.0, ddPeriod: "2007–2012", ddLabel: "Global financial crisis",
		secondDD:  na,
		dataStart: "1992-01-01", dividendYield: 3.5},
}

// fallbackStdDev holds approximate annualized standard deviations (%),
// based on long-term historical weekly-return volatility.
var fallbackStdDev = map[string]metrics.Float{
	"SPY": 15.2, "QQQ": 20.5, "VTI": 15.5, "IWM": 20.0, "IWD": 15.0,
	"EFA": 16.5, "VEA": 16.5, "EEM": 21.0,
	"TLT": 17.0,
	"GLD": 16.0, "IYR": 21.0, "DBC": 18.0,
	"CPH-RE": 8.0,
}

// FallbackStdDev returns the static volatility estimate for a ticker
func FallbackStdDev(ticker string) metrics.Float {
	if sd, ok := fallbackStdDev[ticker]; ok {
		return sd
	}
	return metrics.Unavailable()
}

// FallbackMetrics builds the static per-asset snapshot records, merging the
// universe metadata with the hand-maintained figures. Fields with no static
// estimate are unavailable, never zero.
func FallbackMetrics() map[string]*metrics.AssetMetrics {
	out := make(map[string]*metrics.AssetMetrics, len(fallbackTable))
	for _, e := range fallbackTable {
		a, ok := Lookup(e.ticker)
		if !ok {
			continue
		}
		m := &metrics.AssetMetrics{
			Ticker:      a.Ticker,
			Name:        a.Name,
			Issuer:      a.Issuer,
			Category:    a.Category,
			Index:       a.Index,
			Description: a.Description,
			Kind:        metrics.KindNative,

			YTDReturn:       e.ytd,
			OneYearReturn:   e.oneYear,
			ThreeYearReturn: e.threeYear,

			FiveYear:       metrics.HorizonReturn{Annualized: e.five, Note: e.fiveNote},
			TenYear:        metrics.HorizonReturn{Annualized: e.ten, Note: e.tenNote},
			FifteenYear:    metrics.HorizonReturn{Annualized: e.fifteen, Note: e.fifteenNote},
			TwentyYear:     metrics.HorizonReturn{Annualized: e.twenty, Note: e.twentyNote},
			TwentyFiveYear: metrics.HorizonReturn{Annualized: e.twentyFive, Note: e.twentyFiveNote},

			SinceInceptionReturn: na,
			SinceAnchorReturn:    na,

			Drawdowns: metrics.DrawdownSummary{
				MaxDrawdown:          e.maxDD,
				DrawdownPeriod:       e.ddPeriod,
				DrawdownLabel:        e.ddLabel,
				SecondDrawdown:       e.secondDD,
				SecondDrawdownPeriod: e.secondPeriod,
				SecondDrawdownLabel:  e.secondLabel,
			},

			AnnualizedStdDev: FallbackStdDev(e.ticker),

			DataStart:     e.dataStart,
			InceptionDate: a.InceptionDate,
			DividendYield: e.dividendYield,
		}

		for _, yrs := range []int{5, 10, 15, 20, 25} {
			h := m.Horizon(yrs)
			h.Cumulative = metrics.CumulativeReturn(h.Annualized, float64(yrs))
		}
		best, _ := m.BestLongTermReturn()
		m.FortyYearCumulative = metrics.CumulativeReturn(best, 40)

		out[a.Ticker] = m
	}
	return out
}

// corrOrder fixes the row/column order of the static correlation matrix
var corrOrder = []string{
	"SPY", "QQQ", "VTI", "IWM", "IWD",
	"EFA", "VEA", "EEM",
	"TLT",
	"GLD", "IYR", "DBC", "CPH-RE",
}

// fallbackCorr holds approximate pairwise correlations of weekly returns,
// from historical analysis of these asset classes over 10+ years.
var fallbackCorr = [][]float64{
	// SPY   QQQ   VTI   IWM   IWD   EFA   VEA   EEM   TLT   GLD   IYR   DBC   CPH
	{1.00, 0.90, 0.99, 0.88, 0.93, 0.87, 0.86, 0.75, -0.40, 0.05, 0.65, 0.35, 0.15},  // SPY
	{0.90, 1.00, 0.92, 0.80, 0.78, 0.80, 0.79, 0.72, -0.42, 0.02, 0.55, 0.28, 0.12},  // QQQ
	{0.99, 0.92, 1.00, 0.92, 0.94, 0.87, 0.86, 0.76, -0.40, 0.05, 0.67, 0.35, 0.15},  // VTI
	{0.88, 0.80, 0.92, 1.00, 0.88, 0.82, 0.82, 0.76, -0.38, 0.05, 0.72, 0.40, 0.15},  // IWM
	{0.93, 0.78, 0.94, 0.88, 1.00, 0.87, 0.86, 0.73, -0.32, 0.08, 0.75, 0.42, 0.18},  // IWD
	{0.87, 0.80, 0.87, 0.82, 0.87, 1.00, 0.98, 0.85, -0.30, 0.15, 0.65, 0.45, 0.25},  // EFA
	{0.86, 0.79, 0.86, 0.82, 0.86, 0.98, 1.00, 0.85, -0.30, 0.15, 0.64, 0.44, 0.25},  // VEA
	{0.75, 0.72, 0.76, 0.76, 0.73, 0.85, 0.85, 1.00, -0.22, 0.20, 0.55, 0.52, 0.20},  // EEM
	{-0.40, -0.42, -0.40, -0.38, -0.32, -0.30, -0.30, -0.22, 1.00, 0.25, 0.05, -0.20, 0.05}, // TLT
	{0.05, 0.02, 0.05, 0.05, 0.08, 0.15, 0.15, 0.20, 0.25, 1.00, 0.10, 0.35, 0.15},   // GLD
	{0.65, 0.55, 0.67, 0.72, 0.75, 0.65, 0.64, 0.55, 0.05, 0.10, 1.00, 0.30, 0.30},   // IYR
	{0.35, 0.28, 0.35, 0.40, 0.42, 0.45, 0.44, 0.52, -0.20, 0.35, 0.30, 1.00, 0.20},  // DBC
	{0.15, 0.12, 0.15, 0.15, 0.18, 0.25, 0.25, 0.20, 0.05, 0.15, 0.30, 0.20, 1.00},   // CPH-RE
}

// FallbackCorrelation builds the static correlation matrix lookup
func FallbackCorrelation() correlation.Matrix {
	m := make(correlation.Matrix, len(corrOrder))
	for i, t1 := range corrOrder {
		row := make(map[string]float64, len(corrOrder))
		for j, t2 := range corrOrder {
			row[t2] = fallbackCorr[i][j]
		}
		m[t1] = row
	}
	return m
}
