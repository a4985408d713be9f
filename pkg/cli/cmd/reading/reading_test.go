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

package reading

import (
	_ "github.com/mattn/go-sqlite3"

	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"

	"github.com/readnest/readnest/pkg/assert"
	"github.com/readnest/readnest/pkg/cli/client"
	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/database"
	"github.com/readnest/readnest/pkg/cli/store"
)

func TestStart(t *testing.T) {
	var requests []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, fmt.Sprintf("%s %s", r.Method, r.URL.Path))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/bookshelf/100/currentlyReading":
			w.Write([]byte(`{"id":7,"userId":10,"bookId":100,"currentlyReading":false,"currentPage":80,"book":{"id":100,"title":"Dawn","pages":248}}`))
		case "/bookshelf/101/currentlyReading":
			w.Write([]byte(`{"id":8,"userId":10,"bookId":101,"currentlyReading":true,"book":{"id":101,"title":"Adulthood Rites","pages":277}}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	db := database.InitTestMemoryDB(t)
	rn := clictx.ReadnestCtx{
		APIEndpoint:  server.URL,
		SessionToken: "token-1",
		DB:           db,
		HTTPClient:   server.Client(),
	}

	err := store.ReplaceShelf(db, []client.ShelfEntry{
		{ID: 7, BookID: 100, CurrentlyReading: true, CurrentPage: 80, Book: &client.Book{ID: 100, Title: "Dawn", Pages: 248}},
		{ID: 8, BookID: 101, Book: &client.Book{ID: 101, Title: "Adulthood Rites", Pages: 277}},
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "seeding cache"))
	}

	updated, err := Start(context.Background(), rn, 101)
	if err != nil {
		t.Fatal(errors.Wrap(err, "starting"))
	}

	assert.Equal(t, updated.CurrentlyReading, true, "updated mismatch")
	assert.DeepEqual(t, requests, []string{
		"DELETE /bookshelf/100/currentlyReading",
		"POST /bookshelf/101/currentlyReading",
	}, "request sequence mismatch")

	prev, _, err := store.ShelfEntryByBookID(db, 100)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting previous entry"))
	}
	assert.Equal(t, prev.CurrentlyReading, false, "previous entry should have been stopped")

	cur, _, err := store.ShelfEntryByBookID(db, 101)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting current entry"))
	}
	assert.Equal(t, cur.CurrentlyReading, true, "current entry mismatch")
}

func TestStart_alreadyReadingSameBook(t *testing.T) {
	var requests []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, fmt.Sprintf("%s %s", r.Method, r.URL.Path))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"userId":10,"bookId":100,"currentlyReading":true,"book":{"id":100,"title":"Dawn","pages":248}}`))
	}))
	defer server.Close()

	db := database.InitTestMemoryDB(t)
	rn := clictx.ReadnestCtx{
		APIEndpoint:  server.URL,
		SessionToken: "token-1",
		DB:           db,
		HTTPClient:   server.Client(),
	}

	err := store.ReplaceShelf(db, []client.ShelfEntry{
		{ID: 7, BookID: 100, CurrentlyReading: true, Book: &client.Book{ID: 100, Title: "Dawn", Pages: 248}},
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "seeding cache"))
	}

	if _, err := Start(context.Background(), rn, 100); err != nil {
		t.Fatal(errors.Wrap(err, "starting"))
	}

	// no unmark round trip for the book already being read
	assert.DeepEqual(t, requests, []string{"POST /bookshelf/100/currentlyReading"}, "request sequence mismatch")
}

func TestStop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, "DELETE", "method mismatch")
		assert.Equal(t, r.URL.Path, "/bookshelf/100/currentlyReading", "path mismatch")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"userId":10,"bookId":100,"currentlyReading":false,"currentPage":80,"book":{"id":100,"title":"Dawn","pages":248}}`))
	}))
	defer server.Close()

	db := database.InitTestMemoryDB(t)
	rn := clictx.ReadnestCtx{
		APIEndpoint:  server.URL,
		SessionToken: "token-1",
		DB:           db,
		HTTPClient:   server.Client(),
	}

	err := store.ReplaceShelf(db, []client.ShelfEntry{
		{ID: 7, BookID: 100, CurrentlyReading: true, CurrentPage: 80, Book: &client.Book{ID: 100, Title: "Dawn", Pages: 248}},
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "seeding cache"))
	}

	updated, err := Stop(context.Background(), rn, 100)
	if err != nil {
		t.Fatal(errors.Wrap(err, "stopping"))
	}

	assert.Equal(t, updated.CurrentlyReading, false, "updated mismatch")

	cached, _, err := store.ShelfEntryByBookID(db, 100)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting cached entry"))
	}
	assert.Equal(t, cached.CurrentlyReading, false, "cached mismatch")
	assert.Equal(t, cached.CurrentPage, 80, "cached page mismatch")
}
