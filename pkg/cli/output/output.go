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

// Package output provides functions to print informations on the terminal
// in a consistent manner
package output

import (
	"fmt"
	"strings"

	"github.com/readnest/readnest/pkg/cli/catalog"
	"github.com/readnest/readnest/pkg/cli/client"
	"github.com/readnest/readnest/pkg/cli/database"
	"github.com/readnest/readnest/pkg/cli/log"
)

func shelfStatus(e database.ShelfEntry) string {
	if e.Read {
		return "read"
	}
	if e.CurrentlyReading {
		return fmt.Sprintf("reading, page %d of %d", e.CurrentPage, e.Pages)
	}
	if e.CurrentPage > 0 {
		return fmt.Sprintf("page %d of %d", e.CurrentPage, e.Pages)
	}

	return "unread"
}

// ShelfEntryList prints the cached shelf entries
func ShelfEntryList(entries []database.ShelfEntry) {
	if len(entries) == 0 {
		log.Plain("the shelf is empty\n")
		return
	}

	for _, e := range entries {
		marker := " "
		if e.CurrentlyReading {
			marker = ">"
		}

		log.Plainf("%s %s • %s (%s)\n", marker, e.Title, e.Authors, shelfStatus(e))
	}
}

// ShelfEntryInfo prints a shelf entry in detail
func ShelfEntryInfo(e database.ShelfEntry) {
	log.Infof("title: %s\n", e.Title)
	log.Infof("authors: %s\n", e.Authors)
	log.Infof("isbn13: %s\n", e.ISBN13)
	log.Infof("pages: %d\n", e.Pages)
	log.Infof("status: %s\n", shelfStatus(e))
	if e.Rating > 0 {
		log.Infof("rating: %s\n", strings.Repeat("★", e.Rating))
	}
}

// ClubList prints the cached clubs
func ClubList(clubs []database.Club) {
	if len(clubs) == 0 {
		log.Plain("no clubs yet\n")
		return
	}

	for _, c := range clubs {
		if c.CurrentBookTitle != "" {
			log.Plainf("%s (%d members) • reading %s\n", c.Name, c.MemberCount, c.CurrentBookTitle)
		} else {
			log.Plainf("%s (%d members)\n", c.Name, c.MemberCount)
		}
	}
}

// ClubInfo prints a club with its members
func ClubInfo(club client.Club) {
	log.Infof("name: %s\n", club.Name)
	log.Infof("members: %d\n", club.MemberCount)
	if club.CurrentBook != nil {
		log.Infof("currently reading: %s\n", club.CurrentBook.Title)
	}

	for _, member := range club.Members {
		marker := ""
		if member.ID == club.OwnerID {
			marker = " (owner)"
		}

		log.Plainf("  %s%s\n", member.Username, marker)
	}
}

// InviteList prints the pending invites
func InviteList(invites []database.Invite) {
	if len(invites) == 0 {
		log.Plain("no pending invites\n")
		return
	}

	for _, i := range invites {
		log.Plainf("#%d %s\n", i.InviteID, i.ClubName)
	}
}

// Profile prints the user profile
func Profile(user client.User) {
	log.Infof("username: %s\n", user.Username)
	log.Infof("email: %s\n", user.Email)
	if user.ReadingGoal > 0 {
		log.Infof("reading goal: %d of %d books\n", user.BooksRead, user.ReadingGoal)
	} else {
		log.Infof("books read: %d\n", user.BooksRead)
	}
	if user.CurrentlyReading != nil && user.CurrentlyReading.Book != nil {
		log.Infof("currently reading: %s\n", user.CurrentlyReading.Book.Title)
	}
}

// CatalogBookList prints catalog search results with their pick numbers
func CatalogBookList(books []catalog.Book) {
	for idx, b := range books {
		log.Plainf("(%d) %s • %s • %d pages\n", idx+1, b.Title, strings.Join(b.Authors, ", "), b.Pages)
	}
}

// BookList prints books
func BookList(books []client.Book) {
	for _, b := range books {
		log.Plainf("%s • %s\n", b.Title, strings.Join(b.Authors, ", "))
	}
}
