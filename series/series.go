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

import (
	"sort"
	"time"
)

// PricePoint is a single closing observation for an asset
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Series is an ordered list of price points for a single asset. Points are
// strictly increasing by date with at most one point per date. Build a
// Series with New or Upsert so the ordering invariant holds.
type Series []PricePoint

// New builds a Series from unordered points. Points with a non-positive
// close are dropped; a later point for the same date replaces the earlier
// one.
func New(points []PricePoint) Series {
	s := make(Series, 0, len(points))
	for _, p := range points {
		s = s.Upsert(p.Date, p.Close)
	}
	return s
}

// Upsert inserts a point keeping the series date-sorted. An existing point
// on the same date is replaced. Non-positive values are dropped.
func (s Series) Upsert(date time.Time, close float64) Series {
	if close <= 0 {
		return s
	}

	date = midnight(date)
	idx := sort.Search(len(s), func(i int) bool {
		return !s[i].Date.Before(date)
	})

	if idx < len(s) && s[idx].Date.Equal(date) {
		s[idx].Close = close
		return s
	}

	s = append(s, PricePoint{})
	copy(s[idx+1:], s[idx:])
	s[idx] = PricePoint{Date: date, Close: close}
	return s
}

func (s Series) First() PricePoint {
	return s[0]
}

func (s Series) Last() PricePoint {
	return s[len(s)-1]
}

// Years is the calendar span of the series expressed in fractional years
func (s Series) Years() float64 {
	if len(s) < 2 {
		return 0
	}
	return ToYears(s.Last().Date.Sub(s.First().Date))
}

// IndexOnOrAfter returns the index of the earliest point whose date is on
// or after the given date, or -1 if no such point exists.
func (s Series) IndexOnOrAfter(date time.Time) int {
	idx := sort.Search(len(s), func(i int) bool {
		return !s[i].Date.Before(date)
	})
	if idx == len(s) {
		return -1
	}
	return idx
}

// After returns the sub-series of points on or after the given date
func (s Series) After(date time.Time) Series {
	idx := s.IndexOnOrAfter(date)
	if idx == -1 {
		return Series{}
	}
	return s[idx:]
}

// Returns computes adjacent-point simple returns keyed by the later
// observation's date.
func (s Series) Returns() map[time.Time]float64 {
	rets := make(map[time.Time]float64, len(s))
	for k := 1; k < len(s); k++ {
		prev := s[k-1].Close
		if prev > 0 {
			rets[s[k].Date] = (s[k].Close - prev) / prev
		}
	}
	return rets
}

// ToYears converts a duration to fractional years
func ToYears(d time.Duration) float64 {
	return d.Hours() / (24 * 365.25)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
