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

package logout

import (
	_ "github.com/mattn/go-sqlite3"

	"testing"

	"github.com/pkg/errors"

	"github.com/readnest/readnest/pkg/assert"
	"github.com/readnest/readnest/pkg/cli/client"
	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/database"
	"github.com/readnest/readnest/pkg/cli/store"
)

func TestDo(t *testing.T) {
	db := database.InitTestMemoryDB(t)
	rn := clictx.ReadnestCtx{DB: db}

	session := client.Session{
		Token: "token-1",
		User:  client.User{ID: 10, Username: "alice"},
	}
	if err := store.SaveSession(db, session); err != nil {
		t.Fatal(errors.Wrap(err, "saving session"))
	}
	err := store.ReplaceShelf(db, []client.ShelfEntry{
		{ID: 1, BookID: 100, Book: &client.Book{ID: 100, Title: "Kindred"}},
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "replacing shelf"))
	}

	if err := Do(rn); err != nil {
		t.Fatal(errors.Wrap(err, "logging out"))
	}

	_, err = store.SessionToken(db)
	assert.Equal(t, errors.Is(err, store.ErrNoSession), true, "error mismatch")

	entries, err := store.ShelfEntries(db)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting entries"))
	}
	assert.Equal(t, len(entries), 0, "entry count mismatch")
}

func TestDo_notLoggedIn(t *testing.T) {
	db := database.InitTestMemoryDB(t)
	rn := clictx.ReadnestCtx{DB: db}

	err := Do(rn)

	assert.Equal(t, errors.Is(err, ErrNotLoggedIn), true, "error mismatch")
}
