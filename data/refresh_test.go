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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock"

	"github.com/etf-compare/ec-api/asset"
	"github.com/etf-compare/ec-api/data"
	"github.com/etf-compare/ec-api/data/database"
)

var _ = Describe("Refresher", func() {
	var (
		dbPool    pgxmock.PgxConnIface
		refresher *data.Refresher
		err       error
	)

	BeforeEach(func() {
		dbPool, err = pgxmock.NewConn()
		Expect(err).To(BeNil())
		database.SetPool(dbPool)

		refresher = data.NewRefresher(data.NewStore(), data.NewYahoo(), nil, data.NewStatDK(), nil)
	})

	It("is idle until a refresh starts", func() {
		Expect(refresher.Updating()).To(BeFalse())
	})

	Describe("Stale", func() {
		It("reports stale when nothing is stored", func() {
			// the first missing symbol short-circuits the check
			dbPool.ExpectBegin()
			dbPool.ExpectQuery("SELECT event_date, close FROM eod_prices").
				WillReturnRows(pgxmock.NewRows([]string{"event_date", "close"}))
			dbPool.ExpectCommit()

			Expect(refresher.Stale(context.Background())).To(BeTrue())
		})

		It("reports current when every asset was stored recently", func() {
			yesterday := time.Now().AddDate(0, 0, -1)
			for _, a := range asset.Universe() {
				if a.Static {
					continue
				}
				dbPool.ExpectBegin()
				dbPool.ExpectQuery("SELECT event_date, close FROM eod_prices").
					WithArgs(a.Ticker).
					WillReturnRows(pgxmock.NewRows([]string{"event_date", "close"}).
						AddRow(yesterday, 100.0))
				dbPool.ExpectCommit()
			}

			Expect(refresher.Stale(context.Background())).To(BeFalse())
			Expect(dbPool.ExpectationsWereMet()).To(BeNil())
		})
	})
})
