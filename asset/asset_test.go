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

package asset_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/etf-compare/ec-api/asset"
)

var _ = Describe("Universe", func() {
	It("contains the full asset list", func() {
		Expect(asset.Universe()).To(HaveLen(13))
	})

	It("looks up assets by ticker", func() {
		a, ok := asset.Lookup("SPY")
		Expect(ok).To(BeTrue())
		Expect(a.Name).To(ContainSubstring("S&P 500"))
		Expect(a.Cadence).To(Equal(asset.Weekly))
	})

	It("rejects unknown tickers", func() {
		_, ok := asset.Lookup("NOPE")
		Expect(ok).To(BeFalse())
	})

	It("marks the housing index static with a quarterly cadence and rent yield", func() {
		a, ok := asset.Lookup("CPH-RE")
		Expect(ok).To(BeTrue())
		Expect(a.Static).To(BeTrue())
		Expect(a.Cadence).To(Equal(asset.Quarterly))
		Expect(a.Cadence.PeriodsPerYear()).To(Equal(4.0))
		Expect(a.RentYield).To(Equal(3.5))
	})

	It("orders backers nearest-in-time first", func() {
		a, _ := asset.Lookup("VTI")
		Expect(len(a.Backers)).To(BeNumerically(">=", 2))
		Expect(a.Backers[0].Symbol).To(Equal("VTSMX"))
	})
})

var _ = Describe("Fallback data", func() {
	It("provides a metrics record for every asset", func() {
		fm := asset.FallbackMetrics()
		for _, a := range asset.Universe() {
			m, ok := fm[a.Ticker]
			Expect(ok).To(BeTrue(), "missing fallback for %s", a.Ticker)
			Expect(m.Ticker).To(Equal(a.Ticker))
			Expect(m.Name).To(Equal(a.Name))
		}
	})

	It("derives cumulative and long-projection figures on every record", func() {
		fm := asset.FallbackMetrics()
		for _, a := range asset.Universe() {
			m := fm[a.Ticker]
			Expect(m.FortyYearCumulative.Avail()).To(BeTrue(), "no 40Y projection for %s", a.Ticker)
		}
		// SPY: 13% annualized over 10 years
		Expect(float64(fm["SPY"].TenYear.Cumulative)).To(BeNumerically("~", 239.46, 0.5))
	})

	It("provides a static volatility for every asset", func() {
		for _, a := range asset.Universe() {
			Expect(asset.FallbackStdDev(a.Ticker).Avail()).To(BeTrue())
		}
	})

	It("builds a symmetric static correlation matrix with unit diagonal", func() {
		m := asset.FallbackCorrelation()
		tickers := asset.Tickers()
		for _, t1 := range tickers {
			Expect(m.At(t1, t1)).To(Equal(1.0))
			for _, t2 := range tickers {
				Expect(m.At(t1, t2)).To(Equal(m.At(t2, t1)))
			}
		}
	})

	It("keeps correlations in range", func() {
		m := asset.FallbackCorrelation()
		tickers := asset.Tickers()
		for _, t1 := range tickers {
			for _, t2 := range tickers {
				Expect(m.At(t1, t2)).To(BeNumerically(">=", -1.0))
				Expect(m.At(t1, t2)).To(BeNumerically("<=", 1.0))
			}
		}
	})
})
