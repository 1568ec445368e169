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

	"github.com/etf-compare/ec-api/common"
	"github.com/etf-compare/ec-api/data"
	"github.com/etf-compare/ec-api/data/database"
	"github.com/etf-compare/ec-api/engine"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch missing or stale price history and recompute rankings",
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		log.Info().Msg("initialized logging")

		// setup database
		if err := database.Connect(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}

		store := data.NewStore()
		eng := engine.New(store, engine.DefaultConfig())
		yahoo := data.NewYahoo()
		av := data.NewAlphaVantage(viper.GetString("alphavantage.apikey"))
		statdk := data.NewStatDK()
		refresher := data.NewRefresher(store, yahoo, av, statdk, eng)

		if err := refresher.Refresh(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("refresh failed")
		}
	},
}
