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

package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"

	"github.com/readnest/readnest/pkg/assert"
	clictx "github.com/readnest/readnest/pkg/cli/context"
)

func newTestCtx(server *httptest.Server) clictx.ReadnestCtx {
	return clictx.ReadnestCtx{
		APIEndpoint:  server.URL,
		Version:      "0.1.0-test",
		SessionToken: "test-token",
		HTTPClient:   server.Client(),
	}
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(errors.Wrap(err, "marshalling fixture"))
	}

	return b
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotMethod, gotPath, gotBody string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path

			b, err := io.ReadAll(r.Body)
			if err != nil {
				t.Fatal(errors.Wrap(err, "reading request body"))
			}
			gotBody = string(b)

			w.Header().Set("Content-Type", "application/json")
			w.Write(mustMarshal(t, Session{
				Token: "session-token-1",
				User:  User{ID: 10, Username: "alice", Email: "alice@example.com"},
			}))
		}))
		defer server.Close()

		rn := newTestCtx(server)
		rn.SessionToken = ""

		session, err := Login(context.Background(), rn, "alice@example.com", "pass1234")
		if err != nil {
			t.Fatal(errors.Wrap(err, "performing login"))
		}

		assert.Equal(t, gotMethod, "POST", "method mismatch")
		assert.Equal(t, gotPath, "/auth/login", "path mismatch")
		assert.Equal(t, gotBody, `{"email":"alice@example.com","password":"pass1234"}`, "body mismatch")
		assert.Equal(t, session.Token, "session-token-1", "token mismatch")
		assert.Equal(t, session.User.Username, "alice", "username mismatch")
	})

	t.Run("invalid credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		rn := newTestCtx(server)
		rn.SessionToken = ""

		_, err := Login(context.Background(), rn, "alice@example.com", "wrongpass")

		assert.Equal(t, errors.Is(err, ErrInvalidLogin), true, "error mismatch")
	})
}

func TestRegister(t *testing.T) {
	var gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reading request body"))
		}
		gotBody = string(b)

		assert.Equal(t, r.Method, "POST", "method mismatch")
		assert.Equal(t, r.URL.Path, "/auth/register", "path mismatch")

		w.Header().Set("Content-Type", "application/json")
		w.Write(mustMarshal(t, Session{
			Token: "session-token-2",
			User:  User{ID: 11, Username: "bob", Email: "bob@example.com"},
		}))
	}))
	defer server.Close()

	rn := newTestCtx(server)
	rn.SessionToken = ""

	session, err := Register(context.Background(), rn, "bob", "bob@example.com", "pass1234")
	if err != nil {
		t.Fatal(errors.Wrap(err, "performing register"))
	}

	assert.Equal(t, gotBody, `{"username":"bob","email":"bob@example.com","password":"pass1234"}`, "body mismatch")
	assert.Equal(t, session.User.ID, 11, "user id mismatch")
}

func TestDoAuthorizedReq(t *testing.T) {
	t.Run("sets authorization header", func(t *testing.T) {
		var gotAuth, gotVersion string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotVersion = r.Header.Get("CLI-Version")

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("[]"))
		}))
		defer server.Close()

		rn := newTestCtx(server)

		_, err := GetBookshelf(context.Background(), rn)
		if err != nil {
			t.Fatal(errors.Wrap(err, "performing request"))
		}

		assert.Equal(t, gotAuth, "Bearer test-token", "authorization header mismatch")
		assert.Equal(t, gotVersion, "0.1.0-test", "version header mismatch")
	})

	t.Run("missing session token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("request should not have been made")
		}))
		defer server.Close()

		rn := newTestCtx(server)
		rn.SessionToken = ""

		_, err := GetBookshelf(context.Background(), rn)

		assert.NotEqual(t, err, nil, "expected error")
	})
}

func TestGetBookshelf(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, "GET", "method mismatch")
		assert.Equal(t, r.URL.Path, "/bookshelf", "path mismatch")

		w.Header().Set("Content-Type", "application/json")
		w.Write(mustMarshal(t, []ShelfEntry{
			{
				ID:          1,
				UserID:      10,
				BookID:      100,
				CurrentPage: 25,
				Book: &Book{
					ID:      100,
					ISBN13:  "9780000000001",
					Title:   "The Left Hand of Darkness",
					Authors: []string{"Ursula K. Le Guin"},
					Pages:   304,
				},
			},
		}))
	}))
	defer server.Close()

	entries, err := GetBookshelf(context.Background(), newTestCtx(server))
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting bookshelf"))
	}

	assert.Equal(t, len(entries), 1, "entry count mismatch")
	assert.Equal(t, entries[0].Book.Title, "The Left Hand of Darkness", "title mismatch")
	assert.Equal(t, entries[0].CurrentPage, 25, "current page mismatch")
}

func TestUpdateShelfEntry(t *testing.T) {
	testCases := []struct {
		name     string
		payload  UpdateShelfEntryPayload
		expected string
	}{
		{
			name:     "current page only",
			payload:  UpdateShelfEntryPayload{CurrentPage: intPtr(42)},
			expected: `{"currentPage":42}`,
		},
		{
			name:     "read and current page",
			payload:  UpdateShelfEntryPayload{CurrentPage: intPtr(304), Read: boolPtr(true)},
			expected: `{"currentPage":304,"read":true}`,
		},
		{
			name:     "rating only",
			payload:  UpdateShelfEntryPayload{Rating: intPtr(5)},
			expected: `{"rating":5}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotBody, gotPath string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatal(errors.Wrap(err, "reading request body"))
				}
				gotBody = string(b)
				gotPath = r.URL.Path

				assert.Equal(t, r.Method, "PUT", "method mismatch")

				w.Header().Set("Content-Type", "application/json")
				w.Write(mustMarshal(t, ShelfEntry{ID: 7, UserID: 10, BookID: 100}))
			}))
			defer server.Close()

			_, err := UpdateShelfEntry(context.Background(), newTestCtx(server), 7, tc.payload)
			if err != nil {
				t.Fatal(errors.Wrap(err, "updating shelf entry"))
			}

			assert.Equal(t, gotPath, "/bookshelf/7", "path mismatch")
			assert.Equal(t, gotBody, tc.expected, "body mismatch")
		})
	}
}

func TestGetBookByISBN(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, r.URL.Path, "/books/isbn/9780000000001", "path mismatch")

			w.Header().Set("Content-Type", "application/json")
			w.Write(mustMarshal(t, Book{ID: 100, ISBN13: "9780000000001", Title: "Dune", Authors: []string{"Frank Herbert"}, Pages: 412}))
		}))
		defer server.Close()

		book, err := GetBookByISBN(context.Background(), newTestCtx(server), "9780000000001")
		if err != nil {
			t.Fatal(errors.Wrap(err, "getting book"))
		}

		assert.Equal(t, book.Title, "Dune", "title mismatch")
	})

	t.Run("not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := GetBookByISBN(context.Background(), newTestCtx(server), "9780000000009")

		assert.Equal(t, errors.Is(err, ErrBookNotFound), true, "error mismatch")
	})
}

func TestGetRecommendations(t *testing.T) {
	t.Run("results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, r.URL.Path, "/recommendations", "path mismatch")

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"id":100,"isbn13":"9780000000001","title":"Dune","authors":["Frank Herbert"],"pages":412},
				{"id":101,"isbn13":"9780000000002","title":"Kindred","authors":["Octavia E. Butler"],"pages":264}
			]`))
		}))
		defer server.Close()

		books, err := GetRecommendations(context.Background(), newTestCtx(server))
		if err != nil {
			t.Fatal(errors.Wrap(err, "getting recommendations"))
		}

		assert.Equal(t, len(books), 2, "book count mismatch")
		assert.Equal(t, books[1].Title, "Kindred", "title mismatch")
	})

	t.Run("malformed element", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":100,"isbn13":"9780000000001","title":"Dune"},{"id":0,"title":""}]`))
		}))
		defer server.Close()

		_, err := GetRecommendations(context.Background(), newTestCtx(server))

		assert.NotEqual(t, err, nil, "expected a validation error")
	})
}

func TestCheckRespErr(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("something went wrong"))
	}))
	defer server.Close()

	_, err := GetBookshelf(context.Background(), newTestCtx(server))

	var httpErr *HTTPError
	assert.Equal(t, errors.As(err, &httpErr), true, "error type mismatch")
	assert.StatusCodeEquals(t, httpErr.StatusCode, http.StatusInternalServerError, "status code mismatch")
	assert.Equal(t, httpErr.Message, "something went wrong", "message mismatch")
}

func TestCheckContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	_, err := GetBookshelf(context.Background(), newTestCtx(server))

	assert.Equal(t, errors.Is(err, ErrContentTypeMismatch), true, "error mismatch")
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GetBookshelf(ctx, newTestCtx(server))

	assert.Equal(t, errors.Is(err, context.Canceled), true, "error mismatch")
}

func TestGetClubs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, "GET", "method mismatch")
		assert.Equal(t, r.URL.Path, "/bookclub", "path mismatch")

		w.Header().Set("Content-Type", "application/json")
		w.Write(mustMarshal(t, []Club{
			{ID: 1, Name: "Sci-Fi Sundays", OwnerID: 10, MemberCount: 3},
		}))
	}))
	defer server.Close()

	clubs, err := GetClubs(context.Background(), newTestCtx(server))
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting clubs"))
	}

	assert.Equal(t, len(clubs), 1, "club count mismatch")
	assert.Equal(t, clubs[0].Name, "Sci-Fi Sundays", "name mismatch")
}

func TestSendInvite(t *testing.T) {
	var gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reading request body"))
		}
		gotBody = string(b)

		assert.Equal(t, r.Method, "POST", "method mismatch")
		assert.Equal(t, r.URL.Path, "/bookclub/3/invite", "path mismatch")

		w.Header().Set("Content-Type", "application/json")
		w.Write(mustMarshal(t, Invite{ID: 9, ClubID: 3, InvitedUserID: 22, Status: InviteStatusPending}))
	}))
	defer server.Close()

	invite, err := SendInvite(context.Background(), newTestCtx(server), 3, 22)
	if err != nil {
		t.Fatal(errors.Wrap(err, "sending invite"))
	}

	assert.Equal(t, gotBody, `{"invitedUserId":22}`, "body mismatch")
	assert.Equal(t, invite.Status, InviteStatusPending, "status mismatch")
}

func TestAcceptInvite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, "POST", "method mismatch")
		assert.Equal(t, r.URL.Path, "/bookclub/invites/9/accept", "path mismatch")

		w.Header().Set("Content-Type", "application/json")
		w.Write(mustMarshal(t, Invite{ID: 9, ClubID: 3, InvitedUserID: 22, Status: InviteStatusAccepted}))
	}))
	defer server.Close()

	invite, err := AcceptInvite(context.Background(), newTestCtx(server), 9)
	if err != nil {
		t.Fatal(errors.Wrap(err, "accepting invite"))
	}

	assert.Equal(t, invite.Status, InviteStatusAccepted, "status mismatch")
}

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
