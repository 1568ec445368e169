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

package cmd

import (
	"context"
	"fmt"

	"github.com/etf-compare/ec-api/common"
	"github.com/etf-compare/ec-api/data"
	"github.com/etf-compare/ec-api/data/database"
	"github.com/etf-compare/ec-api/engine"
	"github.com/etf-compare/ec-api/metrics"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rankCmd)
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Print the current asset ranking",
	Long:  `Compute rankings from stored price data and print them; uses fallback data when the database is unreachable or empty`,
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		store := data.NewStore()
		eng := engine.New(store, engine.DefaultConfig())

		if err := database.Connect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("database unavailable, using fallback data")
		} else if _, err := eng.Recompute(context.Background()); err != nil {
			log.Warn().Err(err).Msg("analytics pass failed, using fallback data")
		}

		snap := eng.Current()
		fmt.Printf("Computed at %s (source: %s)\n\n", snap.ComputedAt.Format("2006-01-02 15:04:05"), snap.Source)
		fmt.Printf("%-4s %-8s %10s %8s %8s  %s\n", "Rank", "Ticker", "BestRet", "StdDev", "Sharpe", "Reason")
		for _, a := range snap.Assets {
			best, years := a.BestLongTermReturn()
			fmt.Printf("%-4d %-8s %7s/%2dY %8s %8s  %s\n",
				a.Rank, a.Ticker, fmtFloat(best), years,
				fmtFloat(a.AnnualizedStdDev), fmtFloat(a.SharpeRatio), a.RankReason)
		}
	},
}

func fmtFloat(f metrics.Float) string {
	if !f.Avail() {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", float64(f))
}
