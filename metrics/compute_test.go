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

package metrics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/etf-compare/ec-api/metrics"
	"github.com/etf-compare/ec-api/series"
)

var _ = Describe("Compute", func() {
	var fallback *metrics.AssetMetrics
	var opts metrics.Options

	BeforeEach(func() {
		fallback = &metrics.AssetMetrics{
			Ticker:           "TEST",
			Name:             "Test Asset",
			YTDReturn:        metrics.Float(1.0),
			OneYearReturn:    metrics.Float(8.0),
			ThreeYearReturn:  metrics.Float(7.0),
			FiveYear:         metrics.HorizonReturn{Annualized: metrics.Float(9.0)},
			TenYear:          metrics.HorizonReturn{Annualized: metrics.Float(10.0)},
			FifteenYear:      metrics.HorizonReturn{Annualized: metrics.Float(9.5)},
			TwentyYear:       metrics.HorizonReturn{Annualized: metrics.Float(9.0)},
			TwentyFiveYear:   metrics.HorizonReturn{Annualized: metrics.Float(8.5)},
			AnnualizedStdDev: metrics.Float(15.0),
			Drawdowns: metrics.DrawdownSummary{
				MaxDrawdown:    metrics.Float(-50.0),
				DrawdownPeriod: "Oct 2007–Mar 2009",
			},
		}
		opts = metrics.DefaultOptions(day(2023, 1, 1))
	})

	Context("with a short series", func() {
		It("keeps fallback values and recomputes derived figures", func() {
			s := series.Series{}
			s = s.Upsert(day(2022, 12, 1), 100)
			s = s.Upsert(day(2023, 1, 1), 105)

			m := metrics.Compute(s, fallback, opts)

			Expect(m.TenYear.Annualized).To(Equal(metrics.Float(10.0)))
			// cumulative 10Y at 10% annualized
			Expect(float64(m.TenYear.Cumulative)).To(BeNumerically("~", 159.37, 0.01))
			Expect(float64(m.SharpeRatio)).To(BeNumerically("~", 0.4, 1e-9))
			// 40 years compounded at the best long-term rate, 8.5% at 25Y
			Expect(float64(m.FortyYearCumulative)).To(BeNumerically("~", 2513.33, 0.5))
		})
	})

	Context("with a long live series", func() {
		var s series.Series

		BeforeEach(func() {
			s = weeklySeries(day(2023, 1, 1), 12*52, 0.002)
		})

		It("prefers live horizon returns over fallback values", func() {
			m := metrics.Compute(s, fallback, opts)

			Expect(m.TenYear.Annualized).NotTo(Equal(metrics.Float(10.0)))
			Expect(float64(m.TenYear.Annualized)).To(BeNumerically("~", 11.0, 0.5))
		})

		It("substitutes fallback for horizons beyond the series", func() {
			m := metrics.Compute(s, fallback, opts)

			// 12 years of data cannot support the 25Y figure
			Expect(m.TwentyFiveYear.Annualized).To(Equal(metrics.Float(8.5)))
		})

		It("computes live drawdowns even when shallow", func() {
			m := metrics.Compute(s, fallback, opts)

			// constant growth has no drawdowns, fallback is not retained
			Expect(float64(m.Drawdowns.MaxDrawdown)).To(BeZero())
			Expect(m.Drawdowns.DrawdownPeriod).To(Equal("N/A"))
		})

		It("records the data start", func() {
			m := metrics.Compute(s, fallback, opts)
			Expect(m.DataStart).To(Equal(s.First().Date.Format("2006-01-02")))
		})

		It("does not modify the fallback record", func() {
			_ = metrics.Compute(s, fallback, opts)
			Expect(fallback.TenYear.Annualized).To(Equal(metrics.Float(10.0)))
			Expect(fallback.DataStart).To(BeEmpty())
		})
	})

	Context("with a rent yield", func() {
		It("uplifts returns and notes the price-only figure", func() {
			opts.RentYield = 3.5
			opts.PeriodsPerYear = 4
			s := weeklySeries(day(2023, 1, 1), 12*52, 0.002)

			m := metrics.Compute(s, fallback, opts)

			Expect(float64(m.TenYear.Annualized)).To(BeNumerically("~", 14.5, 0.5))
			Expect(m.TenYear.Note).To(ContainSubstring("rent"))
			Expect(m.TenYear.Note).To(ContainSubstring("price only"))
		})
	})
})
