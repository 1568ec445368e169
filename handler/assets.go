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
	"fmt"

	"github.com/etf-compare/ec-api/common"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
)

// Assets returns the current ranked snapshot: all assets plus the
// synthetic portfolio, with the correlation matrix. The rendered body is
// cached per snapshot and served with a strong ETag so clients polling
// between recomputes get 304s.
func Assets(c *fiber.Ctx) error {
	snap := eng.Current()

	cacheKey := fmt.Sprintf("api:assets:%d", snap.ComputedAt.UnixNano())
	body, err := common.CacheGet(cacheKey)
	if err != nil {
		body, err = json.Marshal(snap)
		if err != nil {
			log.Error().Stack().Err(err).Msg("could not marshal snapshot")
			return fiber.ErrInternalServerError
		}
		if err := common.CacheSet(cacheKey, body); err != nil {
			log.Warn().Err(err).Msg("could not cache snapshot response")
		}
	}

	sum := blake3.Sum256(body)
	etag := fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:16]))
	c.Set(fiber.HeaderETag, etag)
	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
