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

package rank_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/etf-compare/ec-api/correlation"
	"github.com/etf-compare/ec-api/metrics"
	"github.com/etf-compare/ec-api/rank"
)

var _ = Describe("Rank", func() {
	var corr correlation.Matrix

	BeforeEach(func() {
		corr = correlation.Matrix{}
	})

	It("fills the leading slots purely by return", func() {
		assets := []*metrics.AssetMetrics{
			asset("LOW", 5), asset("HIGH", 15), asset("MID", 10),
		}

		ordered := rank.Rank(assets, corr, 4)

		Expect(ordered[0].Ticker).To(Equal("HIGH"))
		Expect(ordered[1].Ticker).To(Equal("MID"))
		Expect(ordered[2].Ticker).To(Equal("LOW"))
		Expect(ordered[0].Rank).To(Equal(1))
		Expect(ordered[0].RankReason).To(Equal("Top long-term return"))
	})

	It("scores each asset by its longest-horizon return value", func() {
		longHistory := asset("OLD", 8)
		longHistory.TwentyFiveYear = metrics.HorizonReturn{Annualized: metrics.Float(8)}
		young := asset("NEW", 20)

		// OLD contributes its 25-year figure, NEW its 10-year; the higher
		// value wins regardless of horizon length
		ordered := rank.Rank([]*metrics.AssetMetrics{longHistory, young}, corr, 4)
		Expect(ordered[0].Ticker).To(Equal("NEW"))
		Expect(ordered[1].Ticker).To(Equal("OLD"))
	})

	It("prefers the longer horizon when return values tie", func() {
		short := asset("SHORT", 10)
		long := asset("LONG", 10)
		long.TwentyFiveYear = metrics.HorizonReturn{Annualized: metrics.Float(10)}

		ordered := rank.Rank([]*metrics.AssetMetrics{short, long}, corr, 4)
		Expect(ordered[0].Ticker).To(Equal("LONG"))
	})

	It("places assets without any long-term return last", func() {
		empty := metrics.NewAssetMetrics("NONE", "NONE")
		ordered := rank.Rank([]*metrics.AssetMetrics{empty, asset("A", 5)}, corr, 4)
		Expect(ordered[1].Ticker).To(Equal("NONE"))
	})

	Context("beyond the return slots", func() {
		var assets []*metrics.AssetMetrics

		BeforeEach(func() {
			assets = []*metrics.AssetMetrics{
				asset("A", 15), asset("B", 14),
				asset("DIV", 5), asset("COR", 10),
			}
			// COR tracks the leaders closely; DIV is nearly uncorrelated
			corr = correlation.Matrix{
				"COR": {"A": 0.95, "B": 0.9, "DIV": 0.3},
				"DIV": {"A": 0.05, "B": 0.1, "COR": 0.3},
				"A":   {"B": 0.9, "COR": 0.95, "DIV": 0.05},
				"B":   {"A": 0.9, "COR": 0.9, "DIV": 0.1},
			}
		})

		It("picks the least correlated candidate next", func() {
			ordered := rank.Rank(assets, corr, 2)

			Expect(ordered[0].Ticker).To(Equal("A"))
			Expect(ordered[1].Ticker).To(Equal("B"))
			Expect(ordered[2].Ticker).To(Equal("DIV"))
			Expect(ordered[3].Ticker).To(Equal("COR"))
		})

		It("labels diversification picks with the mean correlation", func() {
			ordered := rank.Rank(assets, corr, 2)

			Expect(ordered[2].RankReason).To(HavePrefix("Diversifier (avg corr +0."))
		})

		It("is deterministic on correlation ties", func() {
			corr = correlation.Matrix{}
			first := rank.Rank(assets, corr, 2)
			second := rank.Rank(assets, corr, 2)

			for i := range first {
				Expect(first[i].Ticker).To(Equal(second[i].Ticker))
			}
			// ties fall back to return order
			Expect(first[2].Ticker).To(Equal("COR"))
			Expect(first[3].Ticker).To(Equal("DIV"))
		})
	})
})
