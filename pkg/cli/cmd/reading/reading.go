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

package reading

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/readnest/readnest/pkg/cli/client"
	"github.com/readnest/readnest/pkg/cli/cmd/shelf"
	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/infra"
	"github.com/readnest/readnest/pkg/cli/log"
	"github.com/readnest/readnest/pkg/cli/output"
	"github.com/readnest/readnest/pkg/cli/store"
)

var example = `
 * Show what you are currently reading
 readnest reading

 * Start reading a book on your shelf
 readnest reading start "left hand of darkness"

 * Stop reading it
 readnest reading stop "left hand of darkness"`

// NewCmd returns a new reading command
func NewCmd(rn clictx.ReadnestCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reading",
		Short:   "Show or change what you are currently reading",
		Example: example,
		RunE:    newRun(rn),
	}

	cmd.AddCommand(newStartCmd(rn))
	cmd.AddCommand(newStopCmd(rn))

	return cmd
}

// Start marks the given book as currently reading. Only one book is
// read at a time; any previous one is stopped first so the server never
// sees two. The server remains the arbiter either way.
func Start(ctx context.Context, rn clictx.ReadnestCtx, bookID int) (client.ShelfEntry, error) {
	entries, err := store.ShelfEntries(rn.DB)
	if err != nil {
		return client.ShelfEntry{}, errors.Wrap(err, "reading the cached shelf")
	}

	for _, e := range entries {
		if !e.CurrentlyReading || e.BookID == bookID {
			continue
		}

		stopped, err := client.UnmarkCurrentlyReading(ctx, rn, e.BookID)
		if err != nil {
			return client.ShelfEntry{}, errors.Wrapf(err, "stopping %s", e.Title)
		}
		if err := store.ApplyShelfEntry(rn.DB, stopped); err != nil {
			return client.ShelfEntry{}, errors.Wrap(err, "caching the stopped entry")
		}
	}

	updated, err := client.MarkCurrentlyReading(ctx, rn, bookID)
	if err != nil {
		return client.ShelfEntry{}, errors.Wrap(err, "marking currently reading")
	}
	if err := store.ApplyShelfEntry(rn.DB, updated); err != nil {
		return client.ShelfEntry{}, errors.Wrap(err, "caching the entry")
	}

	return updated, nil
}

// Stop unmarks the given book as currently reading
func Stop(ctx context.Context, rn clictx.ReadnestCtx, bookID int) (client.ShelfEntry, error) {
	updated, err := client.UnmarkCurrentlyReading(ctx, rn, bookID)
	if err != nil {
		return client.ShelfEntry{}, errors.Wrap(err, "unmarking currently reading")
	}
	if err := store.ApplyShelfEntry(rn.DB, updated); err != nil {
		return client.ShelfEntry{}, errors.Wrap(err, "caching the entry")
	}

	return updated, nil
}

func newRun(rn clictx.ReadnestCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := shelf.Refresh(cmd.Context(), rn); err != nil {
			log.Warnf("could not reach the server: %s\n", err)
			log.Warnf("showing the last known copy\n")
		}

		entries, err := store.ShelfEntries(rn.DB)
		if err != nil {
			return errors.Wrap(err, "reading the cached shelf")
		}

		var found bool
		for _, e := range entries {
			if e.CurrentlyReading {
				output.ShelfEntryInfo(e)
				found = true
			}
		}
		if !found {
			log.Plain("not reading anything right now\n")
		}

		return nil
	}
}

func runWithEntry(rn clictx.ReadnestCtx, run func(cmd *cobra.Command, bookID int, title string) error) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		entry, err := shelf.FindEntry(rn.DB, args[0])
		if errors.Is(err, shelf.ErrBookNotOnShelf) {
			log.Errorf("no book matching %s on the shelf\n", args[0])
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "finding the entry")
		}

		return run(cmd, entry.BookID, entry.Title)
	}
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

func newStartCmd(rn clictx.ReadnestCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "start <isbn13 or title>",
		Short:   "Start reading a book on your shelf",
		PreRunE: preRun,
		RunE: runWithEntry(rn, func(cmd *cobra.Command, bookID int, title string) error {
			if _, err := Start(cmd.Context(), rn, bookID); err != nil {
				return err
			}

			log.Successf("now reading %s\n", title)

			return nil
		}),
	}
}

func newStopCmd(rn clictx.ReadnestCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "stop <isbn13 or title>",
		Short:   "Stop reading a book",
		PreRunE: preRun,
		RunE: runWithEntry(rn, func(cmd *cobra.Command, bookID int, title string) error {
			if _, err := Stop(cmd.Context(), rn, bookID); err != nil {
				return err
			}

			log.Successf("stopped reading %s\n", title)

			return nil
		}),
	}
}
