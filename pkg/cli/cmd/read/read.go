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

package read

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/readnest/readnest/pkg/cli/client"
	"github.com/readnest/readnest/pkg/cli/cmd/shelf"
	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/database"
	"github.com/readnest/readnest/pkg/cli/infra"
	"github.com/readnest/readnest/pkg/cli/log"
	"github.com/readnest/readnest/pkg/cli/store"
	"github.com/readnest/readnest/pkg/cli/validate"
)

var undoFlag bool
var ratingFlag int

var example = `
 * Mark a book as read
 readnest read "left hand of darkness"

 * Mark as read with a rating
 readnest read "left hand of darkness" --rating 5

 * Put a book back on the unread pile
 readnest read "left hand of darkness" --undo`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new read command
func NewCmd(rn clictx.ReadnestCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "read <isbn13 or title>",
		Short:   "Mark a book as read",
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(rn),
	}

	f := cmd.Flags()
	f.BoolVarP(&undoFlag, "undo", "u", false, "mark the book as unread instead")
	f.IntVarP(&ratingFlag, "rating", "r", 0, "rate the book from 1 to 5")

	return cmd
}

// Do marks the entry read or unread and applies the confirmed copy to
// the cache. Marking read moves the bookmark to the last page; undoing
// moves it back to the start.
func Do(ctx context.Context, rn clictx.ReadnestCtx, entry database.ShelfEntry, read bool, rating int) (client.ShelfEntry, error) {
	page := 0
	if read {
		page = entry.Pages
	}

	payload := client.UpdateShelfEntryPayload{
		Read:        &read,
		CurrentPage: &page,
	}
	if rating != 0 {
		payload.Rating = &rating
	}

	updated, err := client.UpdateShelfEntry(ctx, rn, entry.EntryID, payload)
	if err != nil {
		return client.ShelfEntry{}, errors.Wrap(err, "updating the entry")
	}

	if err := store.ApplyShelfEntry(rn.DB, updated); err != nil {
		return client.ShelfEntry{}, errors.Wrap(err, "caching the entry")
	}

	return updated, nil
}

func newRun(rn clictx.ReadnestCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if ratingFlag != 0 {
			if err := validate.Rating(ratingFlag); err != nil {
				return err
			}
		}

		entry, err := shelf.FindEntry(rn.DB, args[0])
		if errors.Is(err, shelf.ErrBookNotOnShelf) {
			log.Errorf("no book matching %s on the shelf\n", args[0])
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "finding the entry")
		}

		if _, err := Do(cmd.Context(), rn, entry, !undoFlag, ratingFlag); err != nil {
			return err
		}

		if undoFlag {
			log.Successf("%s is back on the unread pile\n", entry.Title)
		} else {
			log.Successf("finished %s\n", entry.Title)
		}

		return nil
	}
}
