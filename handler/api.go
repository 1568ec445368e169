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

// Package handler contains the HTTP handlers for the comparison API. All
// handlers read from the engine's current snapshot; only the refresh
// endpoint mutates state, and it does so asynchronously.
package handler

import (
	"context"
	"time"

	"github.com/etf-compare/ec-api/engine"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RefreshRunner triggers data refreshes. Satisfied by data.Refresher.
type RefreshRunner interface {
	Refresh(ctx context.Context) error
	Updating() bool
}

var (
	eng       *engine.Engine
	refresher RefreshRunner
)

// Setup wires the handlers to an engine and a refresher. Must be called
// before any route is served.
func Setup(e *engine.Engine, r RefreshRunner) {
	eng = e
	refresher = r
}

type PingResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"API is alive"`
	Time    string `json:"time" example:"2023-06-19T08:09:10.115924-05:00"`
}

func Ping(c *fiber.Ctx) error {
	var response PingResponse
	now, err := time.Now().MarshalText()
	if err != nil {
		log.Error().Stack().Err(err).Msg("error while getting time in ping")
		response = PingResponse{
			Status:  "error",
			Message: err.Error(),
			Time:    string(now),
		}
	} else {
		response = PingResponse{
			Status:  "success",
			Message: "API is alive",
			Time:    string(now),
		}
	}
	return c.JSON(response)
}
