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

package metrics

import (
	"math"

	"github.com/etf-compare/ec-api/series"
	"gonum.org/v1/gonum/stat"
)

// minVolatilitySample floors the observation count for low-cadence series;
// quarterly data needs two years before the live estimate is trusted.
const minVolatilitySample = 8

// AnnualizedStdDev estimates volatility from period-over-period simple
// returns, Bessel-corrected and annualized by sqrt(periodsPerYear). The
// estimate is unavailable until a full year of observations exists (two
// years for quarterly data); callers fall back to a per-asset static value.
func AnnualizedStdDev(s series.Series, periodsPerYear float64) Float {
	minPoints := int(periodsPerYear)
	if minPoints < minVolatilitySample {
		minPoints = minVolatilitySample
	}
	if len(s) < minPoints {
		return Unavailable()
	}

	rets := make([]float64, 0, len(s)-1)
	for k := 1; k < len(s); k++ {
		if prev := s[k-1].Close; prev > 0 {
			rets = append(rets, (s[k].Close-prev)/prev)
		}
	}
	if len(rets) < minPoints/2 {
		return Unavailable()
	}

	sd := stat.StdDev(rets, nil)
	return Float(round2(sd * math.Sqrt(periodsPerYear) * 100))
}

// Sharpe computes the risk-adjusted return (return minus risk-free, over
// volatility). Unavailable when either input is unavailable or volatility
// is zero.
func Sharpe(annualizedPct, stddevPct Float, riskFreePct float64) Float {
	if !annualizedPct.Avail() || !stddevPct.Avail() || stddevPct == 0 {
		return Unavailable()
	}
	return Float(round2((float64(annualizedPct) - riskFreePct) / float64(stddevPct)))
}
