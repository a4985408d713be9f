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

package database

import (
	"github.com/pkg/errors"
)

// ShelfEntry is a cached copy of a bookshelf entry, denormalized with the
// book fields the list and detail views display
type ShelfEntry struct {
	EntryID          int    `json:"entry_id"`
	BookID           int    `json:"book_id"`
	ISBN13           string `json:"isbn13"`
	Title            string `json:"title"`
	Authors          string `json:"authors"`
	Pages            int    `json:"pages"`
	CurrentPage      int    `json:"current_page"`
	Read             bool   `json:"read"`
	CurrentlyReading bool   `json:"currently_reading"`
	Rating           int    `json:"rating"`
	AddedAt          string `json:"added_at"`
}

// Upsert inserts the entry or replaces the cached copy with the same book id
func (e ShelfEntry) Upsert(db *DB) error {
	_, err := db.Exec(`INSERT INTO shelf (entry_id, book_id, isbn13, title, authors, pages, current_page, read, currently_reading, rating, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(book_id) DO UPDATE SET
			entry_id = excluded.entry_id,
			isbn13 = excluded.isbn13,
			title = excluded.title,
			authors = excluded.authors,
			pages = excluded.pages,
			current_page = excluded.current_page,
			read = excluded.read,
			currently_reading = excluded.currently_reading,
			rating = excluded.rating,
			added_at = excluded.added_at`,
		e.EntryID, e.BookID, e.ISBN13, e.Title, e.Authors, e.Pages, e.CurrentPage, e.Read, e.CurrentlyReading, e.Rating, e.AddedAt)
	if err != nil {
		return errors.Wrapf(err, "upserting shelf entry for book %d", e.BookID)
	}

	return nil
}

// ClearShelf removes all cached shelf entries
func ClearShelf(db *DB) error {
	if _, err := db.Exec("DELETE FROM shelf"); err != nil {
		return errors.Wrap(err, "clearing the shelf cache")
	}

	return nil
}

// GetShelfEntries returns all cached shelf entries ordered by the time they
// were added, newest first
func GetShelfEntries(db *DB) ([]ShelfEntry, error) {
	rows, err := db.Query(`SELECT entry_id, book_id, isbn13, title, authors, pages, current_page, read, currently_reading, rating, added_at
		FROM shelf ORDER BY added_at DESC, entry_id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying the shelf")
	}
	defer rows.Close()

	var ret []ShelfEntry
	for rows.Next() {
		var e ShelfEntry
		if err := rows.Scan(&e.EntryID, &e.BookID, &e.ISBN13, &e.Title, &e.Authors, &e.Pages, &e.CurrentPage, &e.Read, &e.CurrentlyReading, &e.Rating, &e.AddedAt); err != nil {
			return nil, errors.Wrap(err, "scanning a shelf entry")
		}

		ret = append(ret, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating shelf entries")
	}

	return ret, nil
}

// GetShelfEntryByBookID returns the cached entry for the given book.
// It returns sql.ErrNoRows wrapped if no cached entry exists.
func GetShelfEntryByBookID(db *DB, bookID int) (ShelfEntry, error) {
	var e ShelfEntry
	err := db.QueryRow(`SELECT entry_id, book_id, isbn13, title, authors, pages, current_page, read, currently_reading, rating, added_at
		FROM shelf WHERE book_id = ?`, bookID).
		Scan(&e.EntryID, &e.BookID, &e.ISBN13, &e.Title, &e.Authors, &e.Pages, &e.CurrentPage, &e.Read, &e.CurrentlyReading, &e.Rating, &e.AddedAt)
	if err != nil {
		return e, errors.Wrapf(err, "finding shelf entry for book %d", bookID)
	}

	return e, nil
}

// Club is a cached copy of a book club
type Club struct {
	ClubID           int    `json:"club_id"`
	Name             string `json:"name"`
	OwnerID          int    `json:"owner_id"`
	MemberCount      int    `json:"member_count"`
	CurrentBookID    int    `json:"current_book_id"`
	CurrentBookTitle string `json:"current_book_title"`
}

// Upsert inserts the club or replaces the cached copy with the same id
func (c Club) Upsert(db *DB) error {
	_, err := db.Exec(`INSERT INTO clubs (club_id, name, owner_id, member_count, current_book_id, current_book_title)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(club_id) DO UPDATE SET
			name = excluded.name,
			owner_id = excluded.owner_id,
			member_count = excluded.member_count,
			current_book_id = excluded.current_book_id,
			current_book_title = excluded.current_book_title`,
		c.ClubID, c.Name, c.OwnerID, c.MemberCount, c.CurrentBookID, c.CurrentBookTitle)
	if err != nil {
		return errors.Wrapf(err, "upserting club %d", c.ClubID)
	}

	return nil
}

// ClearClubs removes all cached clubs
func ClearClubs(db *DB) error {
	if _, err := db.Exec("DELETE FROM clubs"); err != nil {
		return errors.Wrap(err, "clearing the club cache")
	}

	return nil
}

// GetClubs returns all cached clubs ordered by name
func GetClubs(db *DB) ([]Club, error) {
	rows, err := db.Query(`SELECT club_id, name, owner_id, member_count, current_book_id, current_book_title
		FROM clubs ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying clubs")
	}
	defer rows.Close()

	var ret []Club
	for rows.Next() {
		var c Club
		if err := rows.Scan(&c.ClubID, &c.Name, &c.OwnerID, &c.MemberCount, &c.CurrentBookID, &c.CurrentBookTitle); err != nil {
			return nil, errors.Wrap(err, "scanning a club")
		}

		ret = append(ret, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating clubs")
	}

	return ret, nil
}

// Invite is a cached copy of a club invite
type Invite struct {
	InviteID      int    `json:"invite_id"`
	ClubID        int    `json:"club_id"`
	ClubName      string `json:"club_name"`
	InvitedUserID int    `json:"invited_user_id"`
	InvitedByID   int    `json:"invited_by_id"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

// Upsert inserts the invite or replaces the cached copy with the same id
func (i Invite) Upsert(db *DB) error {
	_, err := db.Exec(`INSERT INTO invites (invite_id, club_id, club_name, invited_user_id, invited_by_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(invite_id) DO UPDATE SET
			club_id = excluded.club_id,
			club_name = excluded.club_name,
			invited_user_id = excluded.invited_user_id,
			invited_by_id = excluded.invited_by_id,
			status = excluded.status,
			created_at = excluded.created_at`,
		i.InviteID, i.ClubID, i.ClubName, i.InvitedUserID, i.InvitedByID, i.Status, i.CreatedAt)
	if err != nil {
		return errors.Wrapf(err, "upserting invite %d", i.InviteID)
	}

	return nil
}

// ClearInvites removes all cached invites
func ClearInvites(db *DB) error {
	if _, err := db.Exec("DELETE FROM invites"); err != nil {
		return errors.Wrap(err, "clearing the invite cache")
	}

	return nil
}

// GetPendingInvites returns cached invites that have not been responded to,
// newest first
func GetPendingInvites(db *DB) ([]Invite, error) {
	rows, err := db.Query(`SELECT invite_id, club_id, club_name, invited_user_id, invited_by_id, status, created_at
		FROM invites WHERE status = 'pending' ORDER BY created_at DESC, invite_id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying invites")
	}
	defer rows.Close()

	var ret []Invite
	for rows.Next() {
		var i Invite
		if err := rows.Scan(&i.InviteID, &i.ClubID, &i.ClubName, &i.InvitedUserID, &i.InvitedByID, &i.Status, &i.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning an invite")
		}

		ret = append(ret, i)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating invites")
	}

	return ret, nil
}
