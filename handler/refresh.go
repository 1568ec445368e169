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
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type RefreshResponse struct {
	Status string `json:"status"`
}

// Refresh starts an asynchronous data refresh. Returns 202 when a refresh
// was started and 409 when one is already in flight.
func Refresh(c *fiber.Ctx) error {
	if refresher.Updating() {
		return c.Status(fiber.StatusConflict).JSON(RefreshResponse{Status: "already_updating"})
	}

	go func() {
		if err := refresher.Refresh(context.Background()); err != nil {
			log.Error().Stack().Err(err).Msg("background refresh failed")
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(RefreshResponse{Status: "started"})
}

// RefreshStatus reports whether a refresh is in flight
func RefreshStatus(c *fiber.Ctx) error {
	status := "idle"
	if refresher.Updating() {
		status = "updating"
	}
	return c.JSON(RefreshResponse{Status: status})
}
