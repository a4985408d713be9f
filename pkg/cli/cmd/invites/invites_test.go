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

package invites

import (
	_ "github.com/mattn/go-sqlite3"

	"context"
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

func newTestCtx(server *httptest.Server, db *database.DB) clictx.ReadnestCtx {
	return clictx.ReadnestCtx{
		APIEndpoint:  server.URL,
		SessionToken: "token-1",
		DB:           db,
		Notifier:     clictx.NewNotifier(),
		HTTPClient:   server.Client(),
	}
}

func TestRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/bookclub/invites", "path mismatch")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":9,"bookClubId":1,"bookClubName":"Sci-Fi Sundays","invitedUserId":22,"invitedById":10,"status":"pending","createdAt":"2025-06-01T10:00:00Z"}
		]`))
	}))
	defer server.Close()

	db := database.InitTestMemoryDB(t)
	rn := newTestCtx(server, db)

	if err := Refresh(context.Background(), rn); err != nil {
		t.Fatal(errors.Wrap(err, "refreshing"))
	}

	invites, err := store.PendingInvites(db)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting invites"))
	}

	assert.Equal(t, len(invites), 1, "invite count mismatch")
	assert.Equal(t, invites[0].ClubName, "Sci-Fi Sundays", "club name mismatch")
}

func TestAccept(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, "POST", "method mismatch")
		assert.Equal(t, r.URL.Path, "/bookclub/invites/9/accept", "path mismatch")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":9,"bookClubId":1,"bookClubName":"Sci-Fi Sundays","invitedUserId":22,"invitedById":10,"status":"accepted","createdAt":"2025-06-01T10:00:00Z"}`))
	}))
	defer server.Close()

	db := database.InitTestMemoryDB(t)
	rn := newTestCtx(server, db)

	err := store.ReplaceInvites(db, []client.Invite{
		{ID: 9, ClubID: 1, ClubName: "Sci-Fi Sundays", InvitedUserID: 22, Status: client.InviteStatusPending},
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "seeding cache"))
	}

	var notified []clictx.Topic
	rn.Notifier.Subscribe(store.TopicClubs, func(topic clictx.Topic) {
		notified = append(notified, topic)
	})

	invite, err := Accept(context.Background(), rn, 9)
	if err != nil {
		t.Fatal(errors.Wrap(err, "accepting"))
	}

	assert.Equal(t, invite.Status, client.InviteStatusAccepted, "status mismatch")

	// the responded invite leaves the pending list
	pending, err := store.PendingInvites(db)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting invites"))
	}
	assert.Equal(t, len(pending), 0, "pending count mismatch")

	// joining a club invalidates the cached club list
	stale, err := store.IsStale(db, store.TopicClubs)
	if err != nil {
		t.Fatal(errors.Wrap(err, "checking stale"))
	}
	assert.Equal(t, stale, true, "clubs should be marked stale")
	assert.DeepEqual(t, notified, []clictx.Topic{store.TopicClubs}, "notifications mismatch")
}

func TestDecline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/bookclub/invites/9/decline", "path mismatch")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":9,"bookClubId":1,"bookClubName":"Sci-Fi Sundays","invitedUserId":22,"invitedById":10,"status":"declined","createdAt":"2025-06-01T10:00:00Z"}`))
	}))
	defer server.Close()

	db := database.InitTestMemoryDB(t)
	rn := newTestCtx(server, db)

	err := store.ReplaceInvites(db, []client.Invite{
		{ID: 9, ClubID: 1, ClubName: "Sci-Fi Sundays", InvitedUserID: 22, Status: client.InviteStatusPending},
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "seeding cache"))
	}

	invite, err := Decline(context.Background(), rn, 9)
	if err != nil {
		t.Fatal(errors.Wrap(err, "declining"))
	}

	assert.Equal(t, invite.Status, client.InviteStatusDeclined, "status mismatch")

	// declining does not touch the cached club list
	stale, err := store.IsStale(db, store.TopicClubs)
	if err != nil {
		t.Fatal(errors.Wrap(err, "checking stale"))
	}
	assert.Equal(t, stale, false, "clubs should not be marked stale")
}
