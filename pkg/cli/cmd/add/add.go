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
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/readnest/readnest/pkg/cli/catalog"
	"github.com/readnest/readnest/pkg/cli/client"
	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/infra"
	"github.com/readnest/readnest/pkg/cli/log"
	"github.com/readnest/readnest/pkg/cli/output"
	"github.com/readnest/readnest/pkg/cli/store"
	"github.com/readnest/readnest/pkg/cli/ui"
	"github.com/readnest/readnest/pkg/cli/utils"
)

var example = `
 * Search the catalog and pick a result
 readnest add "left hand of darkness"

 * Add by ISBN-13 directly
 readnest add 9780441478125`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new add command
func NewCmd(rn clictx.ReadnestCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <title or isbn13>",
		Short:   "Add a book to your shelf",
		Aliases: []string{"a"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(rn),
	}

	return cmd
}

// pickBook resolves the query to a single catalog book. An ISBN-13 query
// searches the catalog directly; anything else searches by title and
// asks the user to pick a result.
func pickBook(ctx context.Context, rn clictx.ReadnestCtx, query string) (catalog.Book, error) {
	books, err := catalog.Search(ctx, rn, query)
	if err != nil {
		return catalog.Book{}, errors.Wrap(err, "searching the catalog")
	}
	if len(books) == 0 {
		return catalog.Book{}, errors.Errorf("no catalog results for %s", query)
	}

	if utils.IsISBN13(query) || len(books) == 1 {
		return books[0], nil
	}

	output.CatalogBookList(books)

	var answer string
	if err := ui.PromptInput("which one?", &answer); err != nil {
		return catalog.Book{}, errors.Wrap(err, "getting user input")
	}

	idx, err := strconv.Atoi(answer)
	if err != nil || idx < 1 || idx > len(books) {
		return catalog.Book{}, errors.Errorf("invalid pick %s", answer)
	}

	return books[idx-1], nil
}

// ensureBook returns the gateway's copy of the given catalog book,
// registering it first if the gateway has never seen it
func ensureBook(ctx context.Context, rn clictx.ReadnestCtx, picked catalog.Book) (client.Book, error) {
	book, err := client.GetBookByISBN(ctx, rn, picked.ISBN13)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, client.ErrBookNotFound) {
		return client.Book{}, errors.Wrap(err, "looking up the book")
	}

	book, err = client.CreateBook(ctx, rn, client.CreateBookPayload{
		ISBN13:        picked.ISBN13,
		Title:         picked.Title,
		Authors:       picked.Authors,
		Pages:         picked.Pages,
		Image:         picked.Image,
		Synopsis:      picked.Synopsis,
		Publisher:     picked.Publisher,
		DatePublished: picked.DatePublished,
	})
	if err != nil {
		return client.Book{}, errors.Wrap(err, "registering the book")
	}

	return book, nil
}

// Do adds the given catalog book to the shelf. The confirmed entry is
// cached and the shelf is marked for a refetch so the next listing shows
// the server's ordering.
func Do(ctx context.Context, rn clictx.ReadnestCtx, picked catalog.Book) (client.ShelfEntry, error) {
	book, err := ensureBook(ctx, rn, picked)
	if err != nil {
		return client.ShelfEntry{}, err
	}

	entry, err := client.AddToBookshelf(ctx, rn, book.ID)
	if err != nil {
		return client.ShelfEntry{}, errors.Wrap(err, "adding to the bookshelf")
	}
	if entry.Book == nil {
		entry.Book = &book
	}
	if entry.AddedAt == "" {
		entry.AddedAt = rn.Clock.Now().UTC().Format(time.RFC3339)
	}

	if err := store.ApplyShelfEntry(rn.DB, entry); err != nil {
		return client.ShelfEntry{}, errors.Wrap(err, "caching the entry")
	}
	if err := store.Invalidate(rn.DB, rn.Notifier, store.TopicShelf); err != nil {
		return client.ShelfEntry{}, err
	}

	return entry, nil
}

func newRun(rn clictx.ReadnestCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		picked, err := pickBook(cmd.Context(), rn, query)
		if err != nil {
			return err
		}

		entry, err := Do(cmd.Context(), rn, picked)
		if err != nil {
			var httpErr *client.HTTPError
			if errors.As(err, &httpErr) && httpErr.IsConflict() {
				log.Error("already on your shelf\n")
				return nil
			}

			return err
		}

		log.Successf("added %s\n", entry.Book.Title)

		return nil
	}
}
