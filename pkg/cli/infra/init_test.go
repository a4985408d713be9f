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

package infra

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3"

	"github.com/readnest/readnest/pkg/assert"
	"github.com/readnest/readnest/pkg/cli/database"
	"github.com/readnest/readnest/pkg/dirs"
)

func TestInitSystemKV(t *testing.T) {
	db := database.InitTestMemoryDB(t)

	var originalCount int
	database.MustScan(t, "counting system configs", db.QueryRow("SELECT count(*) FROM system"), &originalCount)

	tx, err := db.Begin()
	if err != nil {
		t.Fatal(errors.Wrap(err, "beginning a transaction"))
	}

	if err := initSystemKV(tx, "testKey", "testVal"); err != nil {
		tx.Rollback()
		t.Fatal(errors.Wrap(err, "executing"))
	}

	tx.Commit()

	var count int
	database.MustScan(t, "counting system configs", db.QueryRow("SELECT count(*) FROM system"), &count)
	assert.Equal(t, count, originalCount+1, "system count mismatch")

	var val string
	database.MustScan(t, "getting system value",
		db.QueryRow("SELECT value FROM system WHERE key = ?", "testKey"), &val)
	assert.Equal(t, val, "testVal", "system value mismatch")
}

func TestInitSystemKV_existing(t *testing.T) {
	db := database.InitTestMemoryDB(t)

	database.MustExec(t, "inserting a system config", db, "INSERT INTO system (key, value) VALUES (?, ?)", "testKey", "testVal")

	var originalCount int
	database.MustScan(t, "counting system configs", db.QueryRow("SELECT count(*) FROM system"), &originalCount)

	tx, err := db.Begin()
	if err != nil {
		t.Fatal(errors.Wrap(err, "beginning a transaction"))
	}

	if err := initSystemKV(tx, "testKey", "newTestVal"); err != nil {
		tx.Rollback()
		t.Fatal(errors.Wrap(err, "executing"))
	}

	tx.Commit()

	var count int
	database.MustScan(t, "counting system configs", db.QueryRow("SELECT count(*) FROM system"), &count)
	assert.Equal(t, count, originalCount, "system count mismatch")

	var val string
	database.MustScan(t, "getting system value",
		db.QueryRow("SELECT value FROM system WHERE key = ?", "testKey"), &val)
	assert.Equal(t, val, "testVal", "system value should not have been updated")
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", fmt.Sprintf("%s/config", tmpDir))
	t.Setenv("XDG_DATA_HOME", fmt.Sprintf("%s/data", tmpDir))
	t.Setenv("XDG_CACHE_HOME", fmt.Sprintf("%s/cache", tmpDir))
	dirs.Reload()

	endpoint := "http://127.0.0.1:3001/api"
	ctx, err := Init("test-version", endpoint, "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing"))
	}
	defer ctx.DB.Close()

	assert.Equal(t, ctx.APIEndpoint, endpoint, "api endpoint mismatch")
	assert.Equal(t, ctx.CatalogEndpoint, DefaultCatalogEndpoint, "catalog endpoint mismatch")
	assert.NotEqual(t, ctx.ClientID, "", "client id should have been generated")
	assert.Equal(t, ctx.SessionToken, "", "session token should be empty")
	assert.NotEqual(t, ctx.Notifier, nil, "notifier should have been constructed")

	var schema string
	database.MustScan(t, "getting schema",
		ctx.DB.QueryRow("SELECT value FROM system WHERE key = ?", "schema"), &schema)
	assert.Equal(t, schema, "1", "schema mismatch")

	dbPath := filepath.Join(tmpDir, "data", "readnest", "readnest.db")
	expected := getDBPath(ctx.Paths, "")
	assert.Equal(t, expected, dbPath, "db path mismatch")

	t.Run("client id persists across inits", func(t *testing.T) {
		ctx2, err := Init("test-version", endpoint, "")
		if err != nil {
			t.Fatal(errors.Wrap(err, "initializing again"))
		}
		defer ctx2.DB.Close()

		assert.Equal(t, ctx2.ClientID, ctx.ClientID, "client id mismatch")
	})
}

func TestEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", fmt.Sprintf("%s/config", tmpDir))
	t.Setenv("XDG_DATA_HOME", fmt.Sprintf("%s/data", tmpDir))
	t.Setenv("XDG_CACHE_HOME", fmt.Sprintf("%s/cache", tmpDir))
	dirs.Reload()

	t.Setenv(EnvAPIEndpoint, "http://override.example.com/api")
	t.Setenv(EnvCatalogAPIKey, "key-from-env")

	ctx, err := Init("test-version", "", "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing"))
	}
	defer ctx.DB.Close()

	assert.Equal(t, ctx.APIEndpoint, "http://override.example.com/api", "api endpoint mismatch")
	assert.Equal(t, ctx.CatalogAPIKey, "key-from-env", "catalog api key mismatch")
}
