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

// Package store is the persisted local state of the app. It wraps the
// database with intention-revealing operations so that callers describe
// what happened rather than which rows to write. Remote responses pass
// through here before anything is rendered.
package store

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/readnest/readnest/pkg/cli/client"
	"github.com/readnest/readnest/pkg/cli/consts"
	"github.com/readnest/readnest/pkg/cli/database"
)

// ErrNoSession is an error for an operation that requires a session
// when none is saved
var ErrNoSession = errors.New("no session found")

// SaveSession persists the session token and the profile of the user it
// belongs to. The two are written atomically so that a token never lands
// without its user.
func SaveSession(db *database.DB, session client.Session) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning a transaction")
	}

	if err := database.UpsertSystem(tx, consts.SystemSessionToken, session.Token); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "saving the session token")
	}

	userJSON, err := json.Marshal(session.User)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "marshalling the session user")
	}
	if err := database.UpsertSystem(tx, consts.SystemSessionUser, string(userJSON)); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "saving the session user")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing the session")
	}

	return nil
}

// ClearSession removes the session token, the saved profile and all
// cached remote state. Caches are tied to the account they came from, so
// they do not survive it.
func ClearSession(db *database.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning a transaction")
	}

	for _, key := range []string{
		consts.SystemSessionToken,
		consts.SystemSessionUser,
		consts.SystemStaleShelf,
		consts.SystemStaleClubs,
		consts.SystemStaleInvites,
	} {
		if err := database.DeleteSystem(tx, key); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "removing %s", key)
		}
	}

	if err := database.ClearShelf(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := database.ClearClubs(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := database.ClearInvites(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing the session removal")
	}

	return nil
}

// SessionToken returns the saved session token. It returns ErrNoSession
// if the user has not logged in.
func SessionToken(db *database.DB) (string, error) {
	var token string
	err := database.GetSystem(db, consts.SystemSessionToken, &token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", errors.Wrap(err, "getting the session token")
	}

	return token, nil
}

// SessionUser returns the saved profile of the logged in user. It
// returns ErrNoSession if the user has not logged in.
func SessionUser(db *database.DB) (client.User, error) {
	var userJSON string
	err := database.GetSystem(db, consts.SystemSessionUser, &userJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return client.User{}, ErrNoSession
	}
	if err != nil {
		return client.User{}, errors.Wrap(err, "getting the session user")
	}

	var user client.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return client.User{}, errors.Wrap(err, "unmarshalling the session user")
	}

	return user, nil
}

// UpdateSessionUser replaces the saved profile, keeping the token as is
func UpdateSessionUser(db *database.DB, user client.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "marshalling the session user")
	}
	if err := database.UpsertSystem(db, consts.SystemSessionUser, string(userJSON)); err != nil {
		return errors.Wrap(err, "saving the session user")
	}

	return nil
}

func toShelfRow(e client.ShelfEntry) database.ShelfEntry {
	row := database.ShelfEntry{
		EntryID:          e.ID,
		BookID:           e.BookID,
		CurrentPage:      e.CurrentPage,
		Read:             e.Read,
		CurrentlyReading: e.CurrentlyReading,
		Rating:           e.Rating,
		AddedAt:          e.AddedAt,
	}
	if e.Book != nil {
		row.ISBN13 = e.Book.ISBN13
		row.Title = e.Book.Title
		row.Authors = strings.Join(e.Book.Authors, ", ")
		row.Pages = e.Book.Pages
	}

	return row
}

func toClubRow(c client.Club) database.Club {
	row := database.Club{
		ClubID:      c.ID,
		Name:        c.Name,
		OwnerID:     c.OwnerID,
		MemberCount: c.MemberCount,
	}
	if c.CurrentBook != nil {
		row.CurrentBookID = c.CurrentBook.ID
		row.CurrentBookTitle = c.CurrentBook.Title
	}

	return row
}

func toInviteRow(i client.Invite) database.Invite {
	return database.Invite{
		InviteID:      i.ID,
		ClubID:        i.ClubID,
		ClubName:      i.ClubName,
		InvitedUserID: i.InvitedUserID,
		InvitedByID:   i.InvitedByID,
		Status:        i.Status,
		CreatedAt:     i.CreatedAt,
	}
}

// ReplaceShelf replaces the cached shelf wholesale with the given server
// response and clears the shelf stale mark. Partial merges are never
// attempted. The server copy is the truth.
func ReplaceShelf(db *database.DB, entries []client.ShelfEntry) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning a transaction")
	}

	if err := database.ClearShelf(tx); err != nil {
		tx.Rollback()
		return err
	}
	for _, e := range entries {
		if err := toShelfRow(e).Upsert(tx); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := database.DeleteSystem(tx, consts.SystemStaleShelf); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "clearing the shelf stale mark")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing the shelf replacement")
	}

	return nil
}

// ApplyShelfEntry applies a confirmed server copy of a single entry to
// the cache. Used after a mutation whose result the current view shows.
func ApplyShelfEntry(db *database.DB, entry client.ShelfEntry) error {
	return toShelfRow(entry).Upsert(db)
}

// ShelfEntries returns the cached shelf, newest first
func ShelfEntries(db *database.DB) ([]database.ShelfEntry, error) {
	return database.GetShelfEntries(db)
}

// ShelfEntryByBookID returns the cached entry for a book. The boolean
// reports whether the book is on the shelf.
func ShelfEntryByBookID(db *database.DB, bookID int) (database.ShelfEntry, bool, error) {
	entry, err := database.GetShelfEntryByBookID(db, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return database.ShelfEntry{}, false, nil
	}
	if err != nil {
		return database.ShelfEntry{}, false, err
	}

	return entry, true, nil
}

// ReplaceClubs replaces the cached club list wholesale and clears the
// club stale mark
func ReplaceClubs(db *database.DB, clubs []client.Club) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning a transaction")
	}

	if err := database.ClearClubs(tx); err != nil {
		tx.Rollback()
		return err
	}
	for _, c := range clubs {
		if err := toClubRow(c).Upsert(tx); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := database.DeleteSystem(tx, consts.SystemStaleClubs); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "clearing the club stale mark")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing the club replacement")
	}

	return nil
}

// ApplyClub applies a confirmed server copy of a single club to the cache
func ApplyClub(db *database.DB, club client.Club) error {
	return toClubRow(club).Upsert(db)
}

// Clubs returns the cached clubs ordered by name
func Clubs(db *database.DB) ([]database.Club, error) {
	return database.GetClubs(db)
}

// ReplaceInvites replaces the cached invites wholesale and clears the
// invite stale mark
func ReplaceInvites(db *database.DB, invites []client.Invite) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning a transaction")
	}

	if err := database.ClearInvites(tx); err != nil {
		tx.Rollback()
		return err
	}
	for _, i := range invites {
		if err := toInviteRow(i).Upsert(tx); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := database.DeleteSystem(tx, consts.SystemStaleInvites); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "clearing the invite stale mark")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing the invite replacement")
	}

	return nil
}

// ApplyInvite applies a confirmed server copy of a single invite to the
// cache. A responded invite keeps its row but leaves the pending list.
func ApplyInvite(db *database.DB, invite client.Invite) error {
	return toInviteRow(invite).Upsert(db)
}

// PendingInvites returns the cached invites still awaiting a response,
// newest first
func PendingInvites(db *database.DB) ([]database.Invite, error) {
	return database.GetPendingInvites(db)
}
