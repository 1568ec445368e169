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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/etf-compare/ec-api/observability/opentelemetry"
	"github.com/etf-compare/ec-api/series"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var statbankAPI = "https://api.statbank.dk/v1/data"

var ErrNoHousingData = errors.New("statistics denmark returned no parseable rows")

// StatDK fetches the Copenhagen apartment price index from the Statistics
// Denmark statbank API. Two tables are tried in order; EJEN5 carries the
// municipal sales-price index, EJENEU is the older euro-area table kept as
// a fallback.
type StatDK struct{}

func NewStatDK() *StatDK {
	return &StatDK{}
}

type statDKQuery struct {
	Table     string           `json:"table"`
	Format    string           `json:"format"`
	Variables []statDKVariable `json:"variables"`
}

type statDKVariable struct {
	Code   string   `json:"code"`
	Values []string `json:"values"`
}

type statDKRow struct {
	Key []struct {
		Code  string `json:"code"`
		Value string `json:"value"`
	} `json:"key"`
	Values []string `json:"values"`
}

var statDKTables = []statDKQuery{
	{
		Table:  "EJEN5",
		Format: "JSON",
		Variables: []statDKVariable{
			{Code: "EJDTYPE", Values: []string{"6"}},
			{Code: "OMRÅDE", Values: []string{"101"}},
			{Code: "Tid", Values: []string{"*"}},
		},
	},
	{
		Table:  "EJENEU",
		Format: "JSON",
		Variables: []statDKVariable{
			{Code: "BODO3", Values: []string{"TOT"}},
			{Code: "BEBY", Values: []string{"1"}},
			{Code: "Tid", Values: []string{"*"}},
		},
	},
}

// QuarterlyIndex fetches the full quarterly housing price index
func (sd *StatDK) QuarterlyIndex(ctx context.Context) (series.Series, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "statdk.QuarterlyIndex")
	defer span.End()

	var lastErr error = ErrNoHousingData
	for _, query := range statDKTables {
		out, err := sd.fetchTable(ctx, query)
		if err != nil {
			log.Warn().Err(err).Str("Table", query.Table).Msg("statbank table fetch failed")
			lastErr = err
			continue
		}
		span.SetAttributes(
			attribute.KeyValue{Key: "Table", Value: attribute.StringValue(query.Table)},
			attribute.KeyValue{Key: "NumPoints", Value: attribute.IntValue(len(out))},
		)
		return out, nil
	}

	span.SetStatus(codes.Error, "all statbank tables failed")
	return nil, lastErr
}

func (sd *StatDK) fetchTable(ctx context.Context, query statDKQuery) (series.Series, error) {
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, statbankAPI, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request returned invalid status code: %d", resp.StatusCode)
	}

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var rows []statDKRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, err
	}

	out := make(series.Series, 0, len(rows))
	for _, row := range rows {
		var quarter string
		for _, k := range row.Key {
			if strings.EqualFold(k.Code, "Tid") {
				quarter = k.Value
			}
		}

		var value float64
		for _, v := range row.Values {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				value = parsed
				break
			}
		}

		date, ok := ParseQuarter(quarter)
		if !ok || value <= 0 {
			continue
		}
		out = out.Upsert(date, value)
	}

	if len(out) == 0 {
		return nil, ErrNoHousingData
	}
	return out, nil
}

// ParseQuarter converts statbank period formats ("2024Q1", "2024K1",
// "2024M06", "2024") to the first day of the period.
func ParseQuarter(period string) (time.Time, bool) {
	period = strings.TrimSpace(period)

	if idx := strings.IndexAny(period, "QK"); idx > 0 {
		year, err1 := strconv.Atoi(period[:idx])
		quarter, err2 := strconv.Atoi(period[idx+1:])
		if err1 != nil || err2 != nil || quarter < 1 || quarter > 4 {
			return time.Time{}, false
		}
		month := time.Month((quarter-1)*3 + 1)
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
	}

	if idx := strings.Index(period, "M"); idx > 0 {
		year, err1 := strconv.Atoi(period[:idx])
		month, err2 := strconv.Atoi(period[idx+1:])
		if err1 != nil || err2 != nil || month < 1 || month > 12 {
			return time.Time{}, false
		}
		return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
	}

	year, err := strconv.Atoi(period)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC), true
}
