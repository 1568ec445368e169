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

package correlation_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/etf-compare/ec-api/correlation"
	"github.com/etf-compare/ec-api/series"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// driftSeries builds a weekly series whose return each week is
// base + slope*week, so two series with the same slope sign correlate
// positively and opposite signs negatively.
func driftSeries(points int, base, slope float64) series.Series {
	s := series.Series{}
	value := 100.0
	for i := 0; i < points; i++ {
		value *= 1 + base + slope*float64(i%5)
		s = s.Upsert(day(2020, 1, 1).AddDate(0, 0, 7*i), value)
	}
	return s
}

var _ = Describe("Correlation", func() {
	var (
		eng      *correlation.Engine
		fallback correlation.Matrix
		tickers  []string
		prices   map[string]series.Series
	)

	BeforeEach(func() {
		fallback = correlation.Matrix{
			"AAA": {"BBB": 0.80, "CCC": 0.10},
			"BBB": {"AAA": 0.80, "CCC": 0.20},
			"CCC": {"AAA": 0.10, "BBB": 0.20},
		}
		eng = correlation.NewEngine(fallback)
		eng.MinAssets = 2

		tickers = []string{"AAA", "BBB", "CCC"}
		prices = map[string]series.Series{
			"AAA": driftSeries(104, 0.001, 0.002),
			"BBB": driftSeries(104, 0.002, 0.002),
			"CCC": driftSeries(104, 0.001, -0.002),
		}
	})

	Describe("Matrix", func() {
		It("defaults unknown pairs to 0.5", func() {
			m := correlation.Matrix{}
			Expect(m.At("X", "Y")).To(Equal(0.5))
		})
	})

	Describe("Compute", func() {
		It("produces a complete symmetric matrix with unit diagonal", func() {
			m := eng.Compute(tickers, prices, nil)

			for _, t1 := range tickers {
				Expect(m.At(t1, t1)).To(Equal(1.0))
				for _, t2 := range tickers {
					Expect(m.At(t1, t2)).To(Equal(m.At(t2, t1)))
				}
			}
		})

		It("correlates co-moving series positively and opposing series negatively", func() {
			m := eng.Compute(tickers, prices, nil)

			Expect(m.At("AAA", "BBB")).To(BeNumerically(">", 0.9))
			Expect(m.At("AAA", "CCC")).To(BeNumerically("<", -0.9))
		})

		It("substitutes the static value for pairs with thin overlap", func() {
			// CCC only has a handful of observations in common with the rest
			prices["CCC"] = driftSeries(10, 0.001, -0.002)
			minPoints := map[string]int{"CCC": 5}

			m := eng.Compute(tickers, prices, minPoints)
			Expect(m.At("AAA", "CCC")).To(Equal(0.10))
		})

		It("uses the static matrix wholesale below the asset minimum", func() {
			eng.MinAssets = 5

			m := eng.Compute(tickers, prices, nil)
			Expect(m.At("AAA", "BBB")).To(Equal(0.80))
			Expect(m.At("AAA", "CCC")).To(Equal(0.10))
			Expect(m.At("AAA", "AAA")).To(Equal(1.0))
		})

		It("fills tickers with no price series from the static matrix", func() {
			delete(prices, "CCC")

			m := eng.Compute(tickers, prices, nil)
			Expect(m.At("AAA", "BBB")).To(BeNumerically(">", 0.9))
			Expect(m.At("BBB", "CCC")).To(Equal(0.20))
		})
	})
})
