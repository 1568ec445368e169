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

package series

// Layer is one proxy series used to extend an asset's history backward.
// Layers are ordered nearest-in-time first; the last layer is the oldest.
type Layer struct {
	Prices      Series
	Description string
	// TotalReturn indicates whether the proxy includes distributions.
	// Price-only proxies understate total return; the mismatch is recorded
	// as metadata, not corrected numerically.
	TotalReturn bool
}

// Extend builds a single continuous series by chain-splicing proxy layers
// in front of the native series. Each layer keeps only observations
// strictly before the current earliest date and is rescaled so its last
// pre-join observation matches the value at the join. The anchor then moves
// to the earliest spliced point so the next (older) layer splices against
// it. Extend is a pure function: re-running it on the same inputs yields
// the identical series.
func Extend(native Series, layers []Layer) Series {
	if len(native) == 0 {
		return native
	}

	out := make(Series, len(native))
	copy(out, native)

	anchorDate := native.First().Date
	anchorValue := native.First().Close

	for _, layer := range layers {
		pre := make(Series, 0, len(layer.Prices))
		for _, p := range layer.Prices {
			if p.Date.Before(anchorDate) && p.Close > 0 {
				pre = append(pre, p)
			}
		}
		if len(pre) == 0 {
			continue
		}

		scale := anchorValue / pre.Last().Close
		scaled := make(Series, len(pre))
		for i, p := range pre {
			scaled[i] = PricePoint{Date: p.Date, Close: p.Close * scale}
		}

		out = append(scaled, out...)
		anchorDate = scaled.First().Date
		anchorValue = scaled.First().Close
	}

	return out
}
