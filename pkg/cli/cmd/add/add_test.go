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

package add

import (
	_ "github.com/mattn/go-sqlite3"

	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"

	"github.com/readnest/readnest/pkg/assert"
	"github.com/readnest/readnest/pkg/cli/catalog"
	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/database"
	"github.com/readnest/readnest/pkg/cli/store"
	"github.com/readnest/readnest/pkg/clock"
)

func newTestServer(t *testing.T, bookKnown bool) (*httptest.Server, *map[string]int) {
	calls := map[string]int{}

	mux := http.NewServeMux()
	mux.HandleFunc("/books/isbn/", func(w http.ResponseWriter, r *http.Request) {
		calls["lookup"]++

		if !bookKnown {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":100,"isbn13":"9780441478125","title":"The Left Hand of Darkness","authors":["Ursula K. Le Guin"],"pages":304}`))
	})
	mux.HandleFunc("/books", func(w http.ResponseWriter, r *http.Request) {
		calls["create"]++

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatal(errors.Wrap(err, "decoding payload"))
		}
		assert.Equal(t, payload["isbn13"], "9780441478125", "isbn mismatch")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":100,"isbn13":"9780441478125","title":"The Left Hand of Darkness","authors":["Ursula K. Le Guin"],"pages":304}`))
	})
	mux.HandleFunc("/bookshelf", func(w http.ResponseWriter, r *http.Request) {
		calls["shelve"]++

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatal(errors.Wrap(err, "decoding payload"))
		}
		assert.Equal(t, payload["bookId"], float64(100), "book id mismatch")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"userId":10,"bookId":100,"addedAt":"2025-06-01T10:00:00Z","book":{"id":100,"isbn13":"9780441478125","title":"The Left Hand of Darkness","authors":["Ursula K. Le Guin"],"pages":304}}`))
	})

	return httptest.NewServer(mux), &calls
}

func newTestCtx(server *httptest.Server, db *database.DB) clictx.ReadnestCtx {
	return clictx.ReadnestCtx{
		APIEndpoint:  server.URL,
		SessionToken: "token-1",
		DB:           db,
		Clock:        clock.NewMock(),
		Notifier:     clictx.NewNotifier(),
		HTTPClient:   server.Client(),
	}
}

var pickedBook = catalog.Book{
	ISBN13:  "9780441478125",
	Title:   "The Left Hand of Darkness",
	Authors: []string{"Ursula K. Le Guin"},
	Pages:   304,
}

func TestDo_knownBook(t *testing.T) {
	server, calls := newTestServer(t, true)
	defer server.Close()

	db := database.InitTestMemoryDB(t)
	rn := newTestCtx(server, db)

	var notified []clictx.Topic
	rn.Notifier.Subscribe(store.TopicShelf, func(topic clictx.Topic) {
		notified = append(notified, topic)
	})

	entry, err := Do(context.Background(), rn, pickedBook)
	if err != nil {
		t.Fatal(errors.Wrap(err, "adding"))
	}

	assert.Equal(t, entry.ID, 7, "entry id mismatch")
	assert.Equal(t, (*calls)["lookup"], 1, "lookup call count mismatch")
	assert.Equal(t, (*calls)["create"], 0, "create call count mismatch")
	assert.Equal(t, (*calls)["shelve"], 1, "shelve call count mismatch")

	cached, ok, err := store.ShelfEntryByBookID(db, 100)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting cached entry"))
	}
	assert.Equal(t, ok, true, "cached entry missing")
	assert.Equal(t, cached.Title, "The Left Hand of Darkness", "title mismatch")

	stale, err := store.IsStale(db, store.TopicShelf)
	if err != nil {
		t.Fatal(errors.Wrap(err, "checking stale"))
	}
	assert.Equal(t, stale, true, "shelf should be marked stale")
	assert.DeepEqual(t, notified, []clictx.Topic{store.TopicShelf}, "notifications mismatch")
}

func TestDo_unknownBook(t *testing.T) {
	server, calls := newTestServer(t, false)
	defer server.Close()

	db := database.InitTestMemoryDB(t)
	rn := newTestCtx(server, db)

	_, err := Do(context.Background(), rn, pickedBook)
	if err != nil {
		t.Fatal(errors.Wrap(err, "adding"))
	}

	assert.Equal(t, (*calls)["lookup"], 1, "lookup call count mismatch")
	assert.Equal(t, (*calls)["create"], 1, "create call count mismatch")
	assert.Equal(t, (*calls)["shelve"], 1, "shelve call count mismatch")
}
