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
)

var _ = Describe("NewAssetMetrics", func() {
	It("starts with every metric unavailable", func() {
		m := metrics.NewAssetMetrics("X", "X")

		Expect(m.YTDReturn.Avail()).To(BeFalse())
		Expect(m.FortyYearCumulative.Avail()).To(BeFalse())
		Expect(m.AnnualizedStdDev.Avail()).To(BeFalse())
		for _, yrs := range []int{5, 10, 15, 20, 25} {
			Expect(m.Horizon(yrs).Annualized.Avail()).To(BeFalse())
		}
	})
})

var _ = Describe("BestLongTermReturn", func() {
	It("is unavailable on a freshly constructed record", func() {
		ret, yrs := metrics.NewAssetMetrics("X", "X").BestLongTermReturn()

		Expect(ret.Avail()).To(BeFalse())
		Expect(yrs).To(BeZero())
	})

	It("skips longer horizons without data instead of reading them as 0%", func() {
		m := metrics.NewAssetMetrics("X", "X")
		m.TenYear.Annualized = metrics.Float(12.0)

		ret, yrs := m.BestLongTermReturn()
		Expect(float64(ret)).To(Equal(12.0))
		Expect(yrs).To(Equal(10))
	})

	It("treats an explicit 0% return as real data", func() {
		m := metrics.NewAssetMetrics("X", "X")
		m.TwentyFiveYear.Annualized = metrics.Float(0)
		m.TenYear.Annualized = metrics.Float(12.0)

		ret, yrs := m.BestLongTermReturn()
		Expect(ret.Avail()).To(BeTrue())
		Expect(float64(ret)).To(BeZero())
		Expect(yrs).To(Equal(25))
	})
})
