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

package data

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/etf-compare/ec-api/observability/opentelemetry"
	"github.com/etf-compare/ec-api/series"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var alphaVantageAPI = "https://www.alphavantage.co"

var (
	ErrNoAPIKey       = errors.New("no alpha vantage api key configured")
	ErrNoWeeklySeries = errors.New("alpha vantage returned no weekly series")
)

// AlphaVantage is the secondary price provider, used when the primary
// returns nothing for a symbol. Weekly adjusted closes only.
type AlphaVantage struct {
	apikey string
}

func NewAlphaVantage(key string) *AlphaVantage {
	return &AlphaVantage{apikey: key}
}

type alphaVantageWeeklyResponse struct {
	Series      map[string]map[string]string `json:"Weekly Adjusted Time Series"`
	Note        string                       `json:"Note"`
	Information string                       `json:"Information"`
}

// WeeklyAdjusted fetches the full weekly adjusted close history for one
// symbol.
func (av *AlphaVantage) WeeklyAdjusted(ctx context.Context, symbol string) (series.Series, error) {
	if av.apikey == "" {
		return nil, ErrNoAPIKey
	}

	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "alphavantage.WeeklyAdjusted")
	defer span.End()

	subLog := log.With().Str("Symbol", symbol).Logger()

	reqURL := fmt.Sprintf("%s/query?function=TIME_SERIES_WEEKLY_ADJUSTED&symbol=%s&outputsize=full&apikey=%s",
		alphaVantageAPI, url.QueryEscape(symbol), av.apikey)
	span.SetAttributes(attribute.KeyValue{Key: "Symbol", Value: attribute.StringValue(symbol)})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "alpha vantage http request failed")
		subLog.Error().Stack().Err(err).Msg("alpha vantage http request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		err := fmt.Errorf("HTTP request returned invalid status code: %d", resp.StatusCode)
		span.SetStatus(codes.Error, "alpha vantage returned invalid response code")
		subLog.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg("alpha vantage returned invalid response code")
		return nil, err
	}

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var weekly alphaVantageWeeklyResponse
	if err := json.Unmarshal(body, &weekly); err != nil {
		subLog.Error().Stack().Err(err).Msg("could not unmarshal alpha vantage response")
		return nil, err
	}

	if len(weekly.Series) == 0 {
		msg := weekly.Note
		if msg == "" {
			msg = weekly.Information
		}
		subLog.Warn().Str("ProviderMessage", msg).Msg("alpha vantage returned no weekly series")
		return nil, ErrNoWeeklySeries
	}

	out := make(series.Series, 0, len(weekly.Series))
	for dateStr, vals := range weekly.Series {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		closeStr, ok := vals["5. adjusted close"]
		if !ok {
			closeStr = vals["4. close"]
		}
		close, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			continue
		}
		out = out.Upsert(date, close)
	}

	span.SetAttributes(attribute.KeyValue{Key: "NumPoints", Value: attribute.IntValue(len(out))})
	return out, nil
}
