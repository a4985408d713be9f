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

package progress

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/readnest/readnest/pkg/cli/client"
	"github.com/readnest/readnest/pkg/cli/cmd/shelf"
	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/database"
	"github.com/readnest/readnest/pkg/cli/infra"
	"github.com/readnest/readnest/pkg/cli/log"
	"github.com/readnest/readnest/pkg/cli/store"
	"github.com/readnest/readnest/pkg/cli/utils"
	"github.com/readnest/readnest/pkg/cli/validate"
)

var example = `
 * Record being on page 120
 readnest progress "left hand of darkness" 120`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errors.New("Incorrect number of argument")
	}
	if !utils.IsNumber(args[1]) {
		return errors.New("page must be a number")
	}

	return nil
}

// NewCmd returns a new progress command
func NewCmd(rn clictx.ReadnestCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "progress <isbn13 or title> <page>",
		Short:   "Record where you are in a book",
		Aliases: []string{"p"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(rn),
	}

	return cmd
}

// Do sends the new page number and applies the confirmed entry to the
// cache. The page is kept within the covers before it is sent.
func Do(ctx context.Context, rn clictx.ReadnestCtx, entry database.ShelfEntry, page int) (client.ShelfEntry, error) {
	page = validate.ClampPage(page, entry.Pages)

	updated, err := client.UpdateShelfEntry(ctx, rn, entry.EntryID, client.UpdateShelfEntryPayload{
		CurrentPage: &page,
	})
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
		entry, err := shelf.FindEntry(rn.DB, args[0])
		if errors.Is(err, shelf.ErrBookNotOnShelf) {
			log.Errorf("no book matching %s on the shelf\n", args[0])
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "finding the entry")
		}

		page, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrap(err, "parsing the page number")
		}
		if err := validate.Page(page); err != nil {
			return err
		}

		updated, err := Do(cmd.Context(), rn, entry, page)
		if err != nil {
			return err
		}

		log.Successf("page %d of %d\n", updated.CurrentPage, entry.Pages)

		return nil
	}
}
