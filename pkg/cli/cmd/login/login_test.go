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

package login

import (
	_ "github.com/mattn/go-sqlite3"

	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"

	"github.com/readnest/readnest/pkg/assert"
	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/database"
	"github.com/readnest/readnest/pkg/cli/store"
)

func TestGetServerDisplayURL(t *testing.T) {
	testCases := []struct {
		apiEndpoint string
		expected    string
	}{
		{
			apiEndpoint: "https://readnest.mydomain.com/api",
			expected:    "https://readnest.mydomain.com",
		},
		{
			apiEndpoint: "https://mysubdomain.mydomain.com/readnest/api",
			expected:    "https://mysubdomain.mydomain.com",
		},
		{
			apiEndpoint: "some-string",
			expected:    "",
		},
		{
			apiEndpoint: "",
			expected:    "",
		},
		{
			apiEndpoint: "https://",
			expected:    "",
		},
		{
			apiEndpoint: "https://abc",
			expected:    "https://abc",
		},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("for input %s", tc.apiEndpoint), func(t *testing.T) {
			got := getServerDisplayURL(clictx.ReadnestCtx{APIEndpoint: tc.apiEndpoint})
			assert.Equal(t, got, tc.expected, "result mismatch")
		})
	}
}

func TestDo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/auth/login", "path mismatch")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"session-token-1","user":{"id":10,"username":"alice","email":"alice@example.com"}}`))
	}))
	defer server.Close()

	db := database.InitTestMemoryDB(t)
	rn := clictx.ReadnestCtx{
		APIEndpoint: server.URL,
		DB:          db,
		HTTPClient:  server.Client(),
	}

	if err := Do(context.Background(), rn, "alice@example.com", "pass1234"); err != nil {
		t.Fatal(errors.Wrap(err, "logging in"))
	}

	token, err := store.SessionToken(db)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting token"))
	}
	assert.Equal(t, token, "session-token-1", "token mismatch")

	user, err := store.SessionUser(db)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting user"))
	}
	assert.Equal(t, user.Username, "alice", "username mismatch")
}
