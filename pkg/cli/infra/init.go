/* Copyright 2025 Readnest Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package infra provides operations and definitions for the
// local infrastructure for Readnest
package infra

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/readnest/readnest/pkg/cli/client"
	"github.com/readnest/readnest/pkg/cli/config"
	"github.com/readnest/readnest/pkg/cli/consts"
	"github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/database"
	"github.com/readnest/readnest/pkg/cli/log"
	"github.com/readnest/readnest/pkg/cli/store"
	"github.com/readnest/readnest/pkg/cli/utils"
	"github.com/readnest/readnest/pkg/clock"
	"github.com/readnest/readnest/pkg/dirs"
)

const (
	// DefaultAPIEndpoint is the default API endpoint used when none is configured
	DefaultAPIEndpoint = "http://localhost:3001/api"
	// DefaultCatalogEndpoint is the default external catalog endpoint
	DefaultCatalogEndpoint = "https://api2.isbndb.com"
)

// Environment variables that override the config file
const (
	EnvAPIEndpoint     = "READNEST_API_ENDPOINT"
	EnvCatalogEndpoint = "READNEST_CATALOG_ENDPOINT"
	EnvCatalogAPIKey   = "READNEST_CATALOG_API_KEY"
)

// RunEFunc is a function type of readnest commands
type RunEFunc func(*cobra.Command, []string) error

// CurrentSchema is the schema version the binary understands
const CurrentSchema = 1

func getDBPath(paths context.Paths, customPath string) string {
	if customPath != "" {
		return customPath
	}

	return fmt.Sprintf("%s/%s/%s", paths.Data, consts.ReadnestDirName, consts.ReadnestDBFileName)
}

// newBaseCtx creates a minimal context with paths and database connection.
// This base context is used for file and database initialization before
// being enriched with config values by setupCtx.
func newBaseCtx(versionTag, customDBPath string) (context.ReadnestCtx, error) {
	paths := context.Paths{
		Home:   dirs.Home,
		Config: dirs.ConfigHome,
		Data:   dirs.DataHome,
		Cache:  dirs.CacheHome,
	}

	dbPath := getDBPath(paths, customDBPath)

	db, err := database.Open(dbPath)
	if err != nil {
		return context.ReadnestCtx{}, errors.Wrap(err, "connecting to db")
	}

	ctx := context.ReadnestCtx{
		Paths:   paths,
		Version: versionTag,
		DB:      db,
	}

	return ctx, nil
}

// Init initializes the Readnest environment and returns a new readnest context.
// apiEndpoint is used when creating a new config file (e.g., from ldflags during tests)
func Init(versionTag, apiEndpoint, dbPath string) (*context.ReadnestCtx, error) {
	// a .env file is optional
	godotenv.Load()

	ctx, err := newBaseCtx(versionTag, dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "initializing a context")
	}

	if err := initFiles(ctx, apiEndpoint); err != nil {
		return nil, errors.Wrap(err, "initializing files")
	}

	if err := InitDB(ctx); err != nil {
		return nil, errors.Wrap(err, "initializing database")
	}
	if err := InitSystem(ctx); err != nil {
		return nil, errors.Wrap(err, "initializing system data")
	}

	ctx, err = setupCtx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "setting up the context")
	}

	log.Debug("context: %+v\n", context.Redact(ctx))

	return &ctx, nil
}

// setupCtx enriches the base context with values from config file and database.
// This is called after files and database have been initialized.
func setupCtx(ctx context.ReadnestCtx) (context.ReadnestCtx, error) {
	db := ctx.DB

	var sessionToken string
	err := database.GetSystem(db, consts.SystemSessionToken, &sessionToken)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ctx, errors.Wrap(err, "finding session token")
	}

	var clientID string
	err = database.GetSystem(db, consts.SystemClientID, &clientID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ctx, errors.Wrap(err, "finding client id")
	}

	cf, err := config.Read(ctx)
	if err != nil {
		return ctx, errors.Wrap(err, "reading config")
	}

	apiEndpoint := cf.APIEndpoint
	if v := os.Getenv(EnvAPIEndpoint); v != "" {
		apiEndpoint = v
	}
	catalogEndpoint := cf.CatalogEndpoint
	if v := os.Getenv(EnvCatalogEndpoint); v != "" {
		catalogEndpoint = v
	}
	catalogAPIKey := cf.CatalogAPIKey
	if v := os.Getenv(EnvCatalogAPIKey); v != "" {
		catalogAPIKey = v
	}

	notifier := context.NewNotifier()
	for _, topic := range []store.Topic{store.TopicShelf, store.TopicClubs, store.TopicInvites} {
		notifier.Subscribe(topic, func(t context.Topic) {
			log.Debug("%s cache invalidated\n", t)
		})
	}

	ret := context.ReadnestCtx{
		Paths:           ctx.Paths,
		Version:         ctx.Version,
		DB:              ctx.DB,
		SessionToken:    sessionToken,
		ClientID:        clientID,
		APIEndpoint:     apiEndpoint,
		CatalogEndpoint: catalogEndpoint,
		CatalogAPIKey:   catalogAPIKey,
		Clock:           clock.New(),
		Notifier:        notifier,
		HTTPClient:      client.NewRateLimitedHTTPClient(),
	}

	return ret, nil
}

// InitDB initializes the database
func InitDB(ctx context.ReadnestCtx) error {
	log.Debug("initializing the database\n")

	return database.InitSchema(ctx.DB)
}

func initSystemKV(db *database.DB, key string, val string) error {
	var count int
	if err := db.QueryRow("SELECT count(*) FROM system WHERE key = ?", key).Scan(&count); err != nil {
		return errors.Wrapf(err, "counting %s", key)
	}

	if count > 0 {
		return nil
	}

	if _, err := db.Exec("INSERT INTO system (key, value) VALUES (?, ?)", key, val); err != nil {
		return errors.Wrapf(err, "inserting %s %s", key, val)
	}

	return nil
}

// InitSystem inserts system data if missing
func InitSystem(ctx context.ReadnestCtx) error {
	log.Debug("initializing the system\n")

	db := ctx.DB

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning a transaction")
	}

	if err := initSystemKV(tx, consts.SystemSchema, strconv.Itoa(CurrentSchema)); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "initializing system config for %s", consts.SystemSchema)
	}

	clientID, err := utils.GenerateUUID()
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "generating client id")
	}
	if err := initSystemKV(tx, consts.SystemClientID, clientID); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "initializing system config for %s", consts.SystemClientID)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}

	return nil
}

// initConfigFile populates a new config file if it does not exist yet
func initConfigFile(ctx context.ReadnestCtx, apiEndpoint string) error {
	path := config.GetPath(ctx)
	ok, err := utils.FileExists(path)
	if err != nil {
		return errors.Wrap(err, "checking if config exists")
	}
	if ok {
		return nil
	}

	endpoint := apiEndpoint
	if endpoint == "" {
		endpoint = DefaultAPIEndpoint
	}

	cf := config.Config{
		APIEndpoint:     endpoint,
		CatalogEndpoint: DefaultCatalogEndpoint,
	}

	if err := config.Write(ctx, cf); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}

// initFiles creates, if necessary, the readnest directories and files inside
func initFiles(ctx context.ReadnestCtx, apiEndpoint string) error {
	if err := context.InitDirs(ctx.Paths); err != nil {
		return errors.Wrap(err, "creating the readnest dirs")
	}
	if err := initConfigFile(ctx, apiEndpoint); err != nil {
		return errors.Wrap(err, "generating the config file")
	}

	return nil
}
