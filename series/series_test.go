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

package series_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/etf-compare/ec-api/series"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

var _ = Describe("Series", func() {
	Describe("Upsert", func() {
		It("keeps points sorted regardless of insertion order", func() {
			var s series.Series
			s = s.Upsert(day(2020, 3, 1), 102)
			s = s.Upsert(day(2020, 1, 1), 100)
			s = s.Upsert(day(2020, 2, 1), 101)

			Expect(s).To(HaveLen(3))
			Expect(s.First().Date).To(Equal(day(2020, 1, 1)))
			Expect(s.Last().Date).To(Equal(day(2020, 3, 1)))
		})

		It("replaces an existing point on the same date", func() {
			var s series.Series
			s = s.Upsert(day(2020, 1, 1), 100)
			s = s.Upsert(day(2020, 1, 1), 105)

			Expect(s).To(HaveLen(1))
			Expect(s.First().Close).To(Equal(105.0))
		})

		It("drops non-positive closes", func() {
			var s series.Series
			s = s.Upsert(day(2020, 1, 1), 0)
			s = s.Upsert(day(2020, 1, 2), -5)

			Expect(s).To(BeEmpty())
		})

		It("truncates timestamps to midnight", func() {
			var s series.Series
			s = s.Upsert(time.Date(2020, 1, 1, 15, 30, 0, 0, time.UTC), 100)
			Expect(s.First().Date).To(Equal(day(2020, 1, 1)))
		})
	})

	Describe("Years", func() {
		It("spans a single point as zero years", func() {
			var s series.Series
			s = s.Upsert(day(2020, 1, 1), 100)
			Expect(s.Years()).To(BeZero())
		})

		It("computes fractional years across the span", func() {
			var s series.Series
			s = s.Upsert(day(2010, 1, 1), 100)
			s = s.Upsert(day(2020, 1, 1), 200)
			Expect(s.Years()).To(BeNumerically("~", 10.0, 0.02))
		})
	})

	Describe("IndexOnOrAfter", func() {
		var s series.Series

		BeforeEach(func() {
			s = series.Series{}
			s = s.Upsert(day(2020, 1, 1), 100)
			s = s.Upsert(day(2020, 2, 1), 101)
			s = s.Upsert(day(2020, 3, 1), 102)
		})

		It("finds an exact match", func() {
			Expect(s.IndexOnOrAfter(day(2020, 2, 1))).To(Equal(1))
		})

		It("rounds forward between observations", func() {
			Expect(s.IndexOnOrAfter(day(2020, 1, 15))).To(Equal(1))
		})

		It("returns -1 past the end of the series", func() {
			Expect(s.IndexOnOrAfter(day(2020, 4, 1))).To(Equal(-1))
		})
	})

	Describe("Returns", func() {
		It("keys simple returns by the later observation", func() {
			var s series.Series
			s = s.Upsert(day(2020, 1, 1), 100)
			s = s.Upsert(day(2020, 1, 8), 110)

			rets := s.Returns()
			Expect(rets).To(HaveLen(1))
			Expect(rets[day(2020, 1, 8)]).To(BeNumerically("~", 0.10, 1e-9))
		})
	})
})
