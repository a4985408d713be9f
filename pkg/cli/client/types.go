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
	"github.com/pkg/errors"
)

// Invite statuses. An invite is terminal once it leaves pending.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
)

// User represents a user account and its reading statistics
type User struct {
	ID               int         `json:"id"`
	Username         string      `json:"username"`
	Email            string      `json:"email"`
	ReadingGoal      int         `json:"readingGoal"`
	BooksRead        int         `json:"booksRead"`
	CurrentlyReading *ShelfEntry `json:"currentlyReading,omitempty"`
}

// Validate checks that the server sent a usable user record
func (u User) Validate() error {
	if u.ID == 0 {
		return errors.New("user is missing an id")
	}
	if u.Email == "" {
		return errors.New("user is missing an email")
	}

	return nil
}

// Book is a canonical catalog record, deduplicated by ISBN-13
type Book struct {
	ID            int      `json:"id"`
	ISBN13        string   `json:"isbn13"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Pages         int      `json:"pages"`
	Image         string   `json:"image"`
	Synopsis      string   `json:"synopsis"`
	Publisher     string   `json:"publisher"`
	DatePublished string   `json:"datePublished"`
}

// Validate checks that the server sent a usable book record
func (b Book) Validate() error {
	if b.ID == 0 {
		return errors.New("book is missing an id")
	}
	if b.Title == "" {
		return errors.New("book is missing a title")
	}

	return nil
}

// ShelfEntry is a user's personal relationship to one book
type ShelfEntry struct {
	ID               int    `json:"id"`
	UserID           int    `json:"userId"`
	BookID           int    `json:"bookId"`
	Read             bool   `json:"read"`
	CurrentPage      int    `json:"currentPage"`
	Rating           int    `json:"rating"`
	CurrentlyReading bool   `json:"currentlyReading"`
	AddedAt          string `json:"addedAt"`
	Book             *Book  `json:"book,omitempty"`
}

// Validate checks that the server sent a usable shelf entry
func (e ShelfEntry) Validate() error {
	if e.ID == 0 {
		return errors.New("shelf entry is missing an id")
	}
	if e.CurrentPage < 0 {
		return errors.New("shelf entry has a negative current page")
	}
	if e.Book != nil {
		if err := e.Book.Validate(); err != nil {
			return errors.Wrap(err, "embedded book")
		}
	}

	return nil
}

// Club represents a book club
type Club struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	OwnerID     int    `json:"ownerId"`
	CurrentBook *Book  `json:"currentBook,omitempty"`
	Members     []User `json:"members,omitempty"`
	MemberCount int    `json:"memberCount"`
}

// Validate checks that the server sent a usable club record
func (c Club) Validate() error {
	if c.ID == 0 {
		return errors.New("club is missing an id")
	}
	if c.Name == "" {
		return errors.New("club is missing a name")
	}

	return nil
}

// Invite represents a club membership invite
type Invite struct {
	ID            int    `json:"id"`
	ClubID        int    `json:"bookClubId"`
	ClubName      string `json:"bookClubName"`
	InvitedUserID int    `json:"invitedUserId"`
	InvitedByID   int    `json:"invitedById"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
}

// Validate checks that the server sent a usable invite record
func (i Invite) Validate() error {
	if i.ID == 0 {
		return errors.New("invite is missing an id")
	}

	switch i.Status {
	case InviteStatusPending, InviteStatusAccepted, InviteStatusDeclined:
	default:
		return errors.Errorf("invite has an unknown status %q", i.Status)
	}

	return nil
}

// Session is the response from the login and register endpoints
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Validate checks that the server sent a usable session
func (s Session) Validate() error {
	if s.Token == "" {
		return errors.New("session is missing a token")
	}

	return errors.Wrap(s.User.Validate(), "session user")
}
