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
	"os"
	"os/signal"
	"runtime/pprof"
	"runtime/trace"

	"github.com/etf-compare/ec-api/common"
	"github.com/etf-compare/ec-api/data"
	"github.com/etf-compare/ec-api/data/database"
	"github.com/etf-compare/ec-api/engine"
	"github.com/etf-compare/ec-api/handler"
	"github.com/etf-compare/ec-api/middleware"
	"github.com/etf-compare/ec-api/observability/opentelemetry"
	"github.com/etf-compare/ec-api/router"

	"github.com/go-co-op/gocron"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	viper.BindEnv("server.port", "PORT")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the comparison API server",
	Long:  `Run the HTTP server that serves ranked asset comparisons and keeps price data fresh on a schedule`,
	Run: func(cmd *cobra.Command, args []string) {
		if Profile {
			f, err := os.Create("profile.out")
			if err != nil {
				log.Fatal().Err(err).Msg("could not create profile output file")
			}
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}

		if Trace {
			f, err := os.Create("trace.out")
			if err != nil {
				log.Fatal().Err(err).Msg("could not create trace output file")
			}
			defer func() {
				if err := f.Close(); err != nil {
					log.Fatal().Err(err).Msg("could not close trace file")
				}
			}()

			if err := trace.Start(f); err != nil {
				log.Fatal().Err(err).Msg("could not start trace")
			}
			defer trace.Stop()
		}

		common.SetupLogging()
		common.SetupCache()
		log.Info().Msg("initialized logging")

		if viper.GetString("otlp.endpoint") != "" {
			shutdown, err := opentelemetry.Setup()
			if err != nil {
				log.Error().Stack().Err(err).Msg("could not setup tracing")
			} else {
				defer func() {
					if err := shutdown(context.Background()); err != nil {
						log.Error().Err(err).Msg("error shutting down trace exporter")
					}
				}()
			}
		}

		// setup database
		if err := database.Connect(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}

		// analytics engine and data providers
		store := data.NewStore()
		eng := engine.New(store, engine.DefaultConfig())
		yahoo := data.NewYahoo()
		av := data.NewAlphaVantage(viper.GetString("alphavantage.apikey"))
		statdk := data.NewStatDK()
		refresher := data.NewRefresher(store, yahoo, av, statdk, eng)
		handler.Setup(eng, refresher)

		// serve the fallback snapshot until the first pass over stored
		// data completes
		go func() {
			if _, err := eng.Recompute(context.Background()); err != nil {
				log.Warn().Err(err).Msg("initial analytics pass failed, serving fallback data")
			}
		}()

		// Create new Fiber instance
		app := fiber.New(fiber.Config{
			JSONEncoder: json.Marshal,
			JSONDecoder: json.Unmarshal,
		})

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c // block until signal is read
			log.Info().Str("Signal", sig.String()).Msg("received signal, shutting down")
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("error shutting down server")
			}
		}()

		// Configure CORS
		corsConfig := cors.Config{
			AllowOrigins: "http://localhost:8080, https://www.etf-compare.net",
			AllowHeaders: "*",
			AllowMethods: "GET,POST,HEAD",
		}
		app.Use(cors.New(corsConfig))

		app.Use(middleware.NewRequestID())
		app.Use(middleware.NewLogger())

		// Setup routes
		router.SetupRoutes(app)

		// refresh stale price data every hour
		scheduler := gocron.NewScheduler(common.GetTimezone())
		scheduler.Every(1).Hours().Do(func() {
			ctx := context.Background()
			if !refresher.Stale(ctx) {
				return
			}
			if err := refresher.Refresh(ctx); err != nil && err != data.ErrAlreadyUpdating {
				log.Error().Stack().Err(err).Msg("scheduled refresh failed")
			}
		})
		scheduler.StartAsync()

		// Start server
		if err := app.Listen(":" + viper.GetString("server.port")); err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
	},
}
