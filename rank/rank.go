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

// Package rank orders assets by a return-then-diversification heuristic and
// synthesizes an equal-weight portfolio entry from the top of the ranking.
package rank

import (
	"fmt"
	"math"
	"sort"

	"github.com/etf-compare/ec-api/correlation"
	"github.com/etf-compare/ec-api/metrics"
)

// DefaultTopReturnCount is how many leading slots are filled purely by
// return before the greedy diversification picks take over.
const DefaultTopReturnCount = 4

// Rank orders assets: the first topReturnCount slots go to the highest
// annualized returns, where each asset is scored by the value of its longest
// horizon with data (25y if present, else 20y, and so on) and equal values
// prefer the longer horizon; the rest are placed greedily by the lowest mean
// absolute correlation against everything already placed. Ties at every step
// resolve by the return-rank pre-sort order, so the output is deterministic
// for a given input. Rank and RankReason are written onto each entry; the
// slice is returned in placement order.
func Rank(assets []*metrics.AssetMetrics, corr correlation.Matrix, topReturnCount int) []*metrics.AssetMetrics {
	byReturn := make([]*metrics.AssetMetrics, len(assets))
	copy(byReturn, assets)
	sort.SliceStable(byReturn, func(i, j int) bool {
		ri, hi := byReturn[i].BestLongTermReturn()
		rj, hj := byReturn[j].BestLongTermReturn()
		switch {
		case !ri.Avail():
			return false
		case !rj.Avail():
			return true
		case ri != rj:
			return ri > rj
		default:
			return hi > hj
		}
	})

	var ordered []*metrics.AssetMetrics
	if len(byReturn) <= topReturnCount {
		ordered = byReturn
	} else {
		selected := make([]*metrics.AssetMetrics, 0, len(byReturn))
		selected = append(selected, byReturn[:topReturnCount]...)
		remaining := append([]*metrics.AssetMetrics{}, byReturn[topReturnCount:]...)

		for len(remaining) > 0 {
			bestIdx := 0
			bestAvg := math.Inf(1)
			for idx, candidate := range remaining {
				var sum float64
				for _, sel := range selected {
					sum += math.Abs(corr.At(candidate.Ticker, sel.Ticker))
				}
				avg := sum / float64(len(selected))
				// strict less keeps the earliest (best-return) candidate on ties
				if avg < bestAvg {
					bestAvg = avg
					bestIdx = idx
				}
			}
			selected = append(selected, remaining[bestIdx])
			remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		}
		ordered = selected
	}

	for i, m := range ordered {
		m.Rank = i + 1
		if i < topReturnCount {
			m.RankReason = "Top long-term return"
			continue
		}
		var sum float64
		for _, prev := range ordered[:i] {
			sum += corr.At(m.Ticker, prev.Ticker)
		}
		m.RankReason = fmt.Sprintf("Diversifier (avg corr %+.2f)", sum/float64(i))
	}

	return ordered
}
