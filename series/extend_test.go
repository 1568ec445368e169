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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/etf-compare/ec-api/series"
)

var _ = Describe("Extend", func() {
	var native series.Series
	var backer series.Series

	BeforeEach(func() {
		native = series.Series{}
		native = native.Upsert(day(2010, 1, 1), 50)
		native = native.Upsert(day(2015, 1, 1), 75)
		native = native.Upsert(day(2020, 1, 1), 100)

		backer = series.Series{}
		backer = backer.Upsert(day(2000, 1, 1), 5)
		backer = backer.Upsert(day(2005, 1, 1), 10)
		backer = backer.Upsert(day(2009, 12, 1), 20)
	})

	It("rescales the proxy so its last pre-join point matches the native start", func() {
		out := series.Extend(native, []series.Layer{{Prices: backer}})

		Expect(out).To(HaveLen(6))
		// proxy last point (20) scaled to native first value (50): scale 2.5
		Expect(out.First().Date).To(Equal(day(2000, 1, 1)))
		Expect(out.First().Close).To(BeNumerically("~", 12.5, 1e-9))
		Expect(out[2].Close).To(BeNumerically("~", 50.0, 1e-9))
		Expect(out[3].Close).To(Equal(50.0))
	})

	It("drops proxy observations that overlap the native range", func() {
		backer = backer.Upsert(day(2012, 1, 1), 30)
		out := series.Extend(native, []series.Layer{{Prices: backer}})

		Expect(out).To(HaveLen(6))
		for i := 1; i < len(out); i++ {
			Expect(out[i].Date.After(out[i-1].Date)).To(BeTrue())
		}
	})

	It("splices a second, older layer against the extended start", func() {
		older := series.Series{}
		older = older.Upsert(day(1990, 1, 1), 100)
		older = older.Upsert(day(1999, 12, 1), 200)

		out := series.Extend(native, []series.Layer{{Prices: backer}, {Prices: older}})

		Expect(out).To(HaveLen(8))
		Expect(out.First().Date).To(Equal(day(1990, 1, 1)))
		// older layer last point (200) rescaled to spliced anchor (12.5)
		Expect(out.First().Close).To(BeNumerically("~", 6.25, 1e-9))
	})

	It("is idempotent for the same inputs", func() {
		first := series.Extend(native, []series.Layer{{Prices: backer}})
		second := series.Extend(native, []series.Layer{{Prices: backer}})
		Expect(second).To(Equal(first))
	})

	It("skips layers with no usable points", func() {
		empty := series.Series{}
		out := series.Extend(native, []series.Layer{{Prices: empty}})
		Expect(out).To(Equal(native))
	})

	It("returns an empty native series unchanged", func() {
		out := series.Extend(series.Series{}, []series.Layer{{Prices: backer}})
		Expect(out).To(BeEmpty())
	})
})
