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

// Package database manages the postgres connection pool. The pool is held
// behind the narrow PgxIface so tests can substitute a pgxmock pool via
// SetPool.
package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type PgxIface interface {
	Begin(context.Context) (pgx.Tx, error)
}

var ErrNoPool = errors.New("database pool is not initialized")

var pool PgxIface

// SetPool installs the connection pool (or a mock in tests)
func SetPool(myPool PgxIface) {
	pool = myPool
}

// Pool returns the active connection pool
func Pool() (PgxIface, error) {
	if pool == nil {
		return nil, ErrNoPool
	}
	return pool, nil
}

// Connect establishes the pgx pool from the database.url setting and
// creates the schema when absent.
func Connect(ctx context.Context) error {
	myPool, err := pgxpool.Connect(ctx, viper.GetString("database.url"))
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not connect to pool")
		return err
	}
	if err = myPool.Ping(ctx); err != nil {
		log.Error().Stack().Err(err).Msg("could not ping database server")
		return err
	}
	SetPool(myPool)
	return Migrate(ctx)
}

// Migrate creates the price tables when they do not already exist
func Migrate(ctx context.Context) error {
	trx, err := pool.Begin(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not begin transaction")
		return err
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS eod_prices (
			symbol     TEXT NOT NULL,
			event_date DATE NOT NULL,
			close      DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (symbol, event_date)
		)`,
		`CREATE TABLE IF NOT EXISTS housing_index (
			event_date  DATE NOT NULL PRIMARY KEY,
			index_value DOUBLE PRECISION NOT NULL
		)`,
	}

	for _, sql := range statements {
		if _, err := trx.Exec(ctx, sql); err != nil {
			log.Error().Stack().Err(err).Str("Query", sql).Msg("could not create table")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return err
		}
	}

	if err := trx.Commit(ctx); err != nil {
		log.Error().Stack().Err(err).Msg("could not commit transaction")
		return err
	}
	return nil
}
