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

package data_test

import (
	"context"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/etf-compare/ec-api/data"
)

var _ = Describe("AlphaVantage", func() {
	var av *data.AlphaVantage

	BeforeEach(func() {
		httpmock.Reset()
		av = data.NewAlphaVantage("TEST")
	})

	Context("without an api key", func() {
		It("fails fast without making a request", func() {
			_, err := data.NewAlphaVantage("").WeeklyAdjusted(context.Background(), "SPY")
			Expect(err).To(MatchError(data.ErrNoAPIKey))
		})
	})

	Context("with a weekly adjusted series", func() {
		BeforeEach(func() {
			body := `{"Weekly Adjusted Time Series": {
				"2022-01-07": {"4. close": "99.00", "5. adjusted close": "100.00"},
				"2022-01-14": {"4. close": "101.50"}
			}}`
			httpmock.RegisterResponder("GET",
				"https://www.alphavantage.co/query?function=TIME_SERIES_WEEKLY_ADJUSTED&symbol=SPY&outputsize=full&apikey=TEST",
				httpmock.NewStringResponder(200, body))
		})

		It("prefers the adjusted close and falls back to close", func() {
			prices, err := av.WeeklyAdjusted(context.Background(), "SPY")
			Expect(err).To(BeNil())
			Expect(prices).To(HaveLen(2))
			Expect(prices.First().Close).To(Equal(100.0))
			Expect(prices.Last().Close).To(Equal(101.5))
		})
	})

	Context("when the provider responds with a rate-limit note", func() {
		BeforeEach(func() {
			body := `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute"}`
			httpmock.RegisterResponder("GET",
				"https://www.alphavantage.co/query?function=TIME_SERIES_WEEKLY_ADJUSTED&symbol=SPY&outputsize=full&apikey=TEST",
				httpmock.NewStringResponder(200, body))
		})

		It("returns ErrNoWeeklySeries", func() {
			_, err := av.WeeklyAdjusted(context.Background(), "SPY")
			Expect(err).To(MatchError(data.ErrNoWeeklySeries))
		})
	})
})
