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

package data_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock"

	"github.com/etf-compare/ec-api/data"
	"github.com/etf-compare/ec-api/data/database"
	"github.com/etf-compare/ec-api/series"
)

var _ = Describe("Store", func() {
	var (
		dbPool pgxmock.PgxConnIface
		store  *data.Store
		err    error
	)

	BeforeEach(func() {
		dbPool, err = pgxmock.NewConn()
		Expect(err).To(BeNil())
		database.SetPool(dbPool)

		store = data.NewStore()
	})

	Describe("SavePrices", func() {
		It("upserts each point inside one transaction", func() {
			points := series.Series{}.
				Upsert(day(2022, 1, 7), 100.0).
				Upsert(day(2022, 1, 14), 101.5)

			dbPool.ExpectBegin()
			dbPool.ExpectExec("INSERT INTO eod_prices").
				WithArgs("SPY", day(2022, 1, 7), 100.0).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
			dbPool.ExpectExec("INSERT INTO eod_prices").
				WithArgs("SPY", day(2022, 1, 14), 101.5).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
			dbPool.ExpectCommit()

			Expect(store.SavePrices(context.Background(), "SPY", points)).To(Succeed())
			Expect(dbPool.ExpectationsWereMet()).To(BeNil())
		})

		It("writes the housing index to its own table", func() {
			points := series.Series{}.Upsert(day(2023, 1, 1), 106.2)

			dbPool.ExpectBegin()
			dbPool.ExpectExec("INSERT INTO housing_index").
				WithArgs(day(2023, 1, 1), 106.2).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
			dbPool.ExpectCommit()

			Expect(store.SavePrices(context.Background(), data.HousingSymbol, points)).To(Succeed())
			Expect(dbPool.ExpectationsWereMet()).To(BeNil())
		})

		It("does nothing for an empty series", func() {
			Expect(store.SavePrices(context.Background(), "SPY", series.Series{})).To(Succeed())
			Expect(dbPool.ExpectationsWereMet()).To(BeNil())
		})
	})

	Describe("Series", func() {
		It("loads stored prices oldest first", func() {
			dbPool.ExpectBegin()
			dbPool.ExpectQuery("SELECT event_date, close FROM eod_prices").
				WithArgs("SPY").
				WillReturnRows(pgxmock.NewRows([]string{"event_date", "close"}).
					AddRow(day(2022, 1, 7), 100.0).
					AddRow(day(2022, 1, 14), 101.5))
			dbPool.ExpectCommit()

			prices, err := store.Series(context.Background(), "SPY")
			Expect(err).To(BeNil())
			Expect(prices).To(HaveLen(2))
			Expect(prices.First().Date).To(Equal(day(2022, 1, 7)))
			Expect(prices.Last().Close).To(Equal(101.5))
		})

		It("reads the housing table for the housing symbol", func() {
			dbPool.ExpectBegin()
			dbPool.ExpectQuery("SELECT event_date, index_value FROM housing_index").
				WillReturnRows(pgxmock.NewRows([]string{"event_date", "index_value"}).
					AddRow(day(2023, 1, 1), 106.2))
			dbPool.ExpectCommit()

			prices, err := store.Series(context.Background(), data.HousingSymbol)
			Expect(err).To(BeNil())
			Expect(prices).To(HaveLen(1))
			Expect(prices.First().Close).To(Equal(106.2))
		})

		It("yields an empty series for an unknown symbol", func() {
			dbPool.ExpectBegin()
			dbPool.ExpectQuery("SELECT event_date, close FROM eod_prices").
				WithArgs("NOPE").
				WillReturnRows(pgxmock.NewRows([]string{"event_date", "close"}))
			dbPool.ExpectCommit()

			prices, err := store.Series(context.Background(), "NOPE")
			Expect(err).To(BeNil())
			Expect(prices).To(BeEmpty())
		})
	})

	Describe("LastDate and Count", func() {
		It("reports the most recent stored date and row count", func() {
			for i := 0; i < 2; i++ {
				dbPool.ExpectBegin()
				dbPool.ExpectQuery("SELECT event_date, close FROM eod_prices").
					WithArgs("SPY").
					WillReturnRows(pgxmock.NewRows([]string{"event_date", "close"}).
						AddRow(day(2022, 1, 7), 100.0).
						AddRow(day(2022, 1, 14), 101.5))
				dbPool.ExpectCommit()
			}

			last, err := store.LastDate(context.Background(), "SPY")
			Expect(err).To(BeNil())
			Expect(last).To(Equal(day(2022, 1, 14)))

			count, err := store.Count(context.Background(), "SPY")
			Expect(err).To(BeNil())
			Expect(count).To(Equal(2))
		})

		It("returns a zero date when the symbol has no rows", func() {
			dbPool.ExpectBegin()
			dbPool.ExpectQuery("SELECT event_date, close FROM eod_prices").
				WithArgs("NOPE").
				WillReturnRows(pgxmock.NewRows([]string{"event_date", "close"}))
			dbPool.ExpectCommit()

			last, err := store.LastDate(context.Background(), "NOPE")
			Expect(err).To(BeNil())
			Expect(last.IsZero()).To(BeTrue())
		})
	})
})
