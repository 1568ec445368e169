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
	"time"

	"github.com/etf-compare/ec-api/observability/opentelemetry"
	"github.com/etf-compare/ec-api/series"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var yahooAPI = "https://query1.finance.yahoo.com"

var ErrNoChartData = errors.New("yahoo chart returned no result")

// Yahoo fetches price history via the public v8 chart API
type Yahoo struct {
	userAgent string
}

func NewYahoo() *Yahoo {
	return &Yahoo{userAgent: "Mozilla/5.0 (ECAPI/1.0)"}
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches the close history for a symbol at the given interval
// ("1wk" or "1d"). When since is non-zero only observations from that date
// onward are requested. Transient failures are retried with fibonacci
// backoff.
func (y *Yahoo) History(ctx context.Context, symbol, interval string, since time.Time) (series.Series, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "yahoo.History")
	defer span.End()

	subLog := log.With().Str("Symbol", symbol).Str("Interval", interval).Logger()

	period1 := int64(0)
	if !since.IsZero() {
		period1 = since.Unix()
	}
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=9999999999&interval=%s",
		yahooAPI, url.PathEscape(symbol), period1, interval)

	span.SetAttributes(
		attribute.KeyValue{Key: "Url", Value: attribute.StringValue(reqURL)},
		attribute.KeyValue{Key: "Symbol", Value: attribute.StringValue(symbol)},
	)

	var out series.Series
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(1*time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", y.userAgent)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			subLog.Warn().Err(err).Msg("yahoo http request failed")
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			err := fmt.Errorf("HTTP request returned invalid status code: %d", resp.StatusCode)
			subLog.Warn().Int("HTTPResponseStatusCode", resp.StatusCode).Msg("yahoo returned invalid response code")
			return retry.RetryableError(err)
		}

		body, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}

		var chart yahooChartResponse
		if err := json.Unmarshal(body, &chart); err != nil {
			subLog.Warn().Err(err).Msg("could not unmarshal yahoo chart response")
			return retry.RetryableError(err)
		}

		if len(chart.Chart.Result) == 0 {
			if chart.Chart.Error != nil {
				subLog.Warn().Str("YahooError", chart.Chart.Error.Description).Msg("yahoo chart error")
			}
			return retry.RetryableError(ErrNoChartData)
		}

		result := chart.Chart.Result[0]
		if len(result.Indicators.Quote) == 0 {
			return retry.RetryableError(ErrNoChartData)
		}

		closes := result.Indicators.Quote[0].Close
		out = make(series.Series, 0, len(result.Timestamp))
		for i, ts := range result.Timestamp {
			if i >= len(closes) || closes[i] == nil {
				continue
			}
			out = out.Upsert(time.Unix(ts, 0).UTC(), *closes[i])
		}
		return nil
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "yahoo chart fetch failed")
		subLog.Error().Stack().Err(err).Msg("yahoo chart fetch failed")
		return nil, err
	}

	span.SetAttributes(attribute.KeyValue{Key: "NumPoints", Value: attribute.IntValue(len(out))})
	return out, nil
}
