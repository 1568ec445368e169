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

package engine_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/etf-compare/ec-api/engine"
	"github.com/etf-compare/ec-api/series"
)

var _ = Describe("Growth", func() {
	var (
		source *fakeSource
		eng    *engine.Engine
		now    time.Time
	)

	BeforeEach(func() {
		now = day(2023, 1, 1)
		source = &fakeSource{data: map[string]series.Series{
			"SPY": weeklySeries(now, 12*52, 0.002),
			"QQQ": weeklySeries(now, 6*52, 0.003),
		}}
		cfg := engine.DefaultConfig()
		cfg.Now = func() time.Time { return now }
		eng = engine.New(source, cfg)

		_, err := eng.Recompute(context.Background())
		Expect(err).To(BeNil())
	})

	It("normalizes every curve to $10,000 at the common start", func() {
		result := eng.Growth([]string{"SPY", "QQQ"}, 10)

		spy := result.Series["SPY"]
		qqq := result.Series["QQQ"]
		Expect(spy).NotTo(BeEmpty())
		Expect(qqq).NotTo(BeEmpty())
		Expect(spy[0].Value).To(Equal(10000.0))
		Expect(qqq[0].Value).To(Equal(10000.0))
		// QQQ only has six years of data, both curves start together
		Expect(spy[0].Date).To(Equal(qqq[0].Date))
		Expect(result.CommonStart).To(Equal(spy[0].Date))
	})

	It("limits curves to the requested window", func() {
		result := eng.Growth([]string{"SPY"}, 2)

		spy := result.Series["SPY"]
		first, err := time.Parse("2006-01-02", spy[0].Date)
		Expect(err).To(BeNil())
		Expect(now.Sub(first).Hours() / 24).To(BeNumerically("<=", 2*366))
	})

	It("builds a synthetic curve for assets without stored data", func() {
		result := eng.Growth([]string{"GLD"}, 10)

		gld := result.Series["GLD"]
		Expect(gld).NotTo(BeEmpty())
		Expect(gld[0].Value).To(Equal(10000.0))
		// monotone compounding from the static annualized return
		Expect(gld[len(gld)-1].Value).To(BeNumerically(">", 10000.0))
	})

	It("averages constituent curves for the portfolio ticker", func() {
		snap := eng.Current()
		port := snap.Assets[0].Ticker

		result := eng.Growth([]string{port}, 5)
		curve := result.Series[port]
		Expect(curve).NotTo(BeEmpty())
		Expect(curve[0].Value).To(Equal(10000.0))
	})

	It("returns an empty result for unknown tickers", func() {
		result := eng.Growth([]string{"NOPE"}, 10)
		Expect(result.Series["NOPE"]).To(BeEmpty())
	})
})
