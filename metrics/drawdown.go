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
	"fmt"
	"sort"
	"time"

	"github.com/etf-compare/ec-api/series"
)

// DrawdownEvent is a completed peak-to-trough episode
type DrawdownEvent struct {
	Drawdown float64 // fractional, negative
	Peak     time.Time
	Trough   time.Time
}

// stressWindow maps a range of trough years to a named market event
type stressWindow struct {
	fromYear, toYear int
	label            string
}

var stressWindows = []stressWindow{
	{2001, 2003, "Dot-com bust"},
	{2008, 2009, "Global financial crisis"},
	{2011, 2012, "European debt crisis"},
	{2015, 2016, "China / commodity selloff"},
	{2018, 2019, "Fed tightening / trade war"},
	{2020, 2020, "COVID-19 crash"},
	{2022, 2024, "Rate hikes / inflation"},
}

func labelDrawdown(trough time.Time) string {
	yr := trough.Year()
	for _, w := range stressWindows {
		if w.fromYear <= yr && yr <= w.toYear {
			return w.label
		}
	}
	return ""
}

// DrawdownEvents runs a single forward pass over the series with a running
// peak and returns every non-overlapping episode deeper than the threshold,
// including a still-open episode at the end of the series.
func DrawdownEvents(s series.Series, threshold float64) []DrawdownEvent {
	if len(s) < 2 {
		return nil
	}

	var events []DrawdownEvent
	peak := s[0].Close
	peakDate := s[0].Date
	troughDate := s[0].Date
	curDD := 0.0

	for _, p := range s {
		if p.Close > peak {
			if curDD < -threshold {
				events = append(events, DrawdownEvent{Drawdown: curDD, Peak: peakDate, Trough: troughDate})
			}
			peak = p.Close
			peakDate = p.Date
			troughDate = p.Date
			curDD = 0.0
		}
		dd := (p.Close - peak) / peak
		if dd < curDD {
			curDD = dd
			troughDate = p.Date
		}
	}
	if curDD < -threshold {
		events = append(events, DrawdownEvent{Drawdown: curDD, Peak: peakDate, Trough: troughDate})
	}

	return events
}

// Drawdowns summarizes the most severe episode plus, when one exists with a
// trough at least separationYears calendar years away, the most severe
// remaining episode. The year separation keeps two reports of the same
// crisis from occupying both slots.
func Drawdowns(s series.Series, threshold float64, separationYears int) DrawdownSummary {
	summary := DrawdownSummary{
		MaxDrawdown:    0,
		DrawdownPeriod: "N/A",
		SecondDrawdown: Unavailable(),
	}

	events := DrawdownEvents(s, threshold)
	if len(events) == 0 {
		return summary
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Drawdown < events[j].Drawdown
	})

	worst := events[0]
	summary.MaxDrawdown = Float(round2(worst.Drawdown * 100))
	summary.DrawdownPeriod = fmtPeriod(worst.Peak, worst.Trough)
	summary.DrawdownLabel = labelDrawdown(worst.Trough)

	for _, ev := range events[1:] {
		gap := ev.Trough.Year() - worst.Trough.Year()
		if gap < 0 {
			gap = -gap
		}
		if gap >= separationYears {
			summary.SecondDrawdown = Float(round2(ev.Drawdown * 100))
			summary.SecondDrawdownPeriod = fmtPeriod(ev.Peak, ev.Trough)
			summary.SecondDrawdownLabel = labelDrawdown(ev.Trough)
			break
		}
	}

	return summary
}

func fmtPeriod(peak, trough time.Time) string {
	return fmt.Sprintf("%s–%s", peak.Format("Jan 2006"), trough.Format("Jan 2006"))
}
