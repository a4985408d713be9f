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

package shelf

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/readnest/readnest/pkg/cli/client"
	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/database"
	"github.com/readnest/readnest/pkg/cli/infra"
	"github.com/readnest/readnest/pkg/cli/log"
	"github.com/readnest/readnest/pkg/cli/output"
	"github.com/readnest/readnest/pkg/cli/store"
)

// ErrBookNotOnShelf is an error for referencing a book that is not on
// the shelf
var ErrBookNotOnShelf = errors.New("book not found on the shelf")

var example = `
 * List the bookshelf
 readnest shelf

 * View a book on the shelf in detail
 readnest shelf view "left hand of darkness"`

// NewCmd returns a new shelf command
func NewCmd(rn clictx.ReadnestCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "shelf",
		Aliases: []string{"ls", "books"},
		Short:   "List the books on your shelf",
		Example: example,
		RunE:    newRun(rn),
	}

	cmd.AddCommand(newViewCmd(rn))

	return cmd
}

// Refresh fetches the bookshelf and replaces the cached copy with it
func Refresh(ctx context.Context, rn clictx.ReadnestCtx) error {
	entries, err := client.GetBookshelf(ctx, rn)
	if err != nil {
		return err
	}

	if err := store.ReplaceShelf(rn.DB, entries); err != nil {
		return errors.Wrap(err, "caching the bookshelf")
	}

	return nil
}

// FindEntry looks up an entry on the cached shelf by its ISBN-13 or by a
// case-insensitive match on the title. It returns ErrBookNotOnShelf if
// nothing matches.
func FindEntry(db *database.DB, q string) (database.ShelfEntry, error) {
	entries, err := database.GetShelfEntries(db)
	if err != nil {
		return database.ShelfEntry{}, err
	}

	for _, e := range entries {
		if e.ISBN13 == q {
			return e, nil
		}
	}

	needle := strings.ToLower(q)
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), needle) {
			return e, nil
		}
	}

	return database.ShelfEntry{}, ErrBookNotOnShelf
}

func newRun(rn clictx.ReadnestCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := Refresh(cmd.Context(), rn); err != nil {
			log.Warnf("could not reach the server: %s\n", err)
			log.Warnf("showing the last known copy\n")
		}

		entries, err := store.ShelfEntries(rn.DB)
		if err != nil {
			return errors.Wrap(err, "reading the cached shelf")
		}

		output.ShelfEntryList(entries)

		return nil
	}
}

func newViewCmd(rn clictx.ReadnestCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <isbn13 or title>",
		Short: "View a book on the shelf in detail",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("Incorrect number of argument")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := FindEntry(rn.DB, args[0])
			if errors.Is(err, ErrBookNotOnShelf) {
				if err := Refresh(cmd.Context(), rn); err != nil {
					log.Warnf("could not reach the server: %s\n", err)
				}

				entry, err = FindEntry(rn.DB, args[0])
				if errors.Is(err, ErrBookNotOnShelf) {
					log.Errorf("no book matching %s on the shelf\n", args[0])
					return nil
				}
				if err != nil {
					return errors.Wrap(err, "finding the entry")
				}
			} else if err != nil {
				return errors.Wrap(err, "finding the entry")
			}

			fresh, err := client.GetShelfEntry(cmd.Context(), rn, entry.BookID)
			if err != nil {
				log.Warnf("could not reach the server: %s\n", err)
				log.Warnf("showing the last known copy\n")
			} else {
				if err := store.ApplyShelfEntry(rn.DB, fresh); err != nil {
					return errors.Wrap(err, "caching the entry")
				}
				cached, ok, err := store.ShelfEntryByBookID(rn.DB, entry.BookID)
				if err != nil {
					return errors.Wrap(err, "reading the cached entry")
				}
				if ok {
					entry = cached
				}
			}

			output.ShelfEntryInfo(entry)

			return nil
		},
	}

	return cmd
}
