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

package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	maxGrowthTickers = 5
	maxGrowthYears   = 60
	defaultYears     = 10
)

// Growth returns growth-of-$10,000 curves for up to five tickers. The
// years parameter accepts an integer horizon or "max".
func Growth(c *fiber.Ctx) error {
	tickersParam := c.Query("tickers")
	if tickersParam == "" {
		log.Warn().Str("Uri", "/v1/growth").Msg("growth called without tickers")
		return fiber.ErrBadRequest
	}

	tickers := make([]string, 0, maxGrowthTickers)
	for _, t := range strings.Split(tickersParam, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 || len(tickers) > maxGrowthTickers {
		log.Warn().Int("NumTickers", len(tickers)).Msg("growth called with invalid ticker count")
		return fiber.ErrBadRequest
	}

	years := defaultYears
	yearsParam := c.Query("years")
	switch {
	case yearsParam == "":
	case strings.EqualFold(yearsParam, "max"):
		years = maxGrowthYears
	default:
		parsed, err := strconv.Atoi(yearsParam)
		if err != nil || parsed < 1 {
			log.Warn().Str("Years", yearsParam).Msg("growth called with invalid years")
			return fiber.ErrBadRequest
		}
		years = parsed
		if years > maxGrowthYears {
			years = maxGrowthYears
		}
	}

	result := eng.Growth(tickers, years)
	return c.JSON(result)
}
