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

package club

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/readnest/readnest/pkg/cli/client"
	"github.com/readnest/readnest/pkg/cli/cmd/shelf"
	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/database"
	"github.com/readnest/readnest/pkg/cli/infra"
	"github.com/readnest/readnest/pkg/cli/log"
	"github.com/readnest/readnest/pkg/cli/output"
	"github.com/readnest/readnest/pkg/cli/store"
	"github.com/readnest/readnest/pkg/cli/validate"
)

// ErrClubNotFound is an error for referencing a club the user does not
// belong to
var ErrClubNotFound = errors.New("club not found")

var example = `
 * List your clubs
 readnest club

 * Create a club
 readnest club create "Sci-Fi Sundays"

 * View a club with its members
 readnest club view "Sci-Fi Sundays"

 * Invite a user by email
 readnest club invite "Sci-Fi Sundays" alice@example.com

 * Set the club's current book from your shelf (owner only)
 readnest club setbook "Sci-Fi Sundays" "left hand of darkness"`

// NewCmd returns a new club command
func NewCmd(rn clictx.ReadnestCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "club",
		Aliases: []string{"clubs"},
		Short:   "List and manage your book clubs",
		Example: example,
		RunE:    newRun(rn),
	}

	cmd.AddCommand(newCreateCmd(rn))
	cmd.AddCommand(newViewCmd(rn))
	cmd.AddCommand(newInviteCmd(rn))
	cmd.AddCommand(newSetBookCmd(rn))

	return cmd
}

// Refresh fetches the club list and replaces the cached copy with it
func Refresh(ctx context.Context, rn clictx.ReadnestCtx) error {
	clubs, err := client.GetClubs(ctx, rn)
	if err != nil {
		return err
	}

	if err := store.ReplaceClubs(rn.DB, clubs); err != nil {
		return errors.Wrap(err, "caching the clubs")
	}

	return nil
}

// FindClub looks up a club in the cache by a case-insensitive match on
// its name. It returns ErrClubNotFound if nothing matches.
func FindClub(db *database.DB, name string) (database.Club, error) {
	clubs, err := database.GetClubs(db)
	if err != nil {
		return database.Club{}, err
	}

	needle := strings.ToLower(name)
	for _, c := range clubs {
		if strings.ToLower(c.Name) == needle {
			return c, nil
		}
	}
	for _, c := range clubs {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return c, nil
		}
	}

	return database.Club{}, ErrClubNotFound
}

// Create creates a club and caches the confirmed copy
func Create(ctx context.Context, rn clictx.ReadnestCtx, name string) (client.Club, error) {
	created, err := client.CreateClub(ctx, rn, name)
	if err != nil {
		return client.Club{}, errors.Wrap(err, "creating the club")
	}

	if err := store.ApplyClub(rn.DB, created); err != nil {
		return client.Club{}, errors.Wrap(err, "caching the club")
	}
	if err := store.Invalidate(rn.DB, rn.Notifier, store.TopicClubs); err != nil {
		return client.Club{}, err
	}

	return created, nil
}

// Invite invites the user with the given email to the club. The email
// must match a registered user exactly.
func Invite(ctx context.Context, rn clictx.ReadnestCtx, clubID int, email string) (client.Invite, error) {
	user, err := client.SearchUserByEmail(ctx, rn, email)
	if err != nil {
		return client.Invite{}, errors.Wrap(err, "finding the user")
	}

	invite, err := client.SendInvite(ctx, rn, clubID, user.ID)
	if err != nil {
		return client.Invite{}, errors.Wrap(err, "sending the invite")
	}

	return invite, nil
}

// SetBook sets the club's current book and caches the confirmed copy
func SetBook(ctx context.Context, rn clictx.ReadnestCtx, clubID, bookID int) (client.Club, error) {
	updated, err := client.SetClubCurrentBook(ctx, rn, clubID, bookID)
	if err != nil {
		return client.Club{}, errors.Wrap(err, "setting the club book")
	}

	if err := store.ApplyClub(rn.DB, updated); err != nil {
		return client.Club{}, errors.Wrap(err, "caching the club")
	}

	return updated, nil
}

func newRun(rn clictx.ReadnestCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := Refresh(cmd.Context(), rn); err != nil {
			log.Warnf("could not reach the server: %s\n", err)
			log.Warnf("showing the last known copy\n")
		}

		clubs, err := store.Clubs(rn.DB)
		if err != nil {
			return errors.Wrap(err, "reading the cached clubs")
		}

		output.ClubList(clubs)

		return nil
	}
}

func exactArgs(n int) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.New("Incorrect number of argument")
		}

		return nil
	}
}

func newCreateCmd(rn clictx.ReadnestCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "create <name>",
		Short:   "Create a book club",
		PreRunE: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := validate.ClubName(name); err != nil {
				return err
			}

			created, err := Create(cmd.Context(), rn, name)
			if err != nil {
				return err
			}

			log.Successf("created %s\n", created.Name)

			return nil
		},
	}
}

func newViewCmd(rn clictx.ReadnestCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "view <name>",
		Short:   "View a club with its members and current book",
		PreRunE: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cached, err := FindClub(rn.DB, args[0])
			if errors.Is(err, ErrClubNotFound) {
				log.Errorf("no club matching %s\n", args[0])
				return nil
			}
			if err != nil {
				return errors.Wrap(err, "finding the club")
			}

			club, err := client.GetClubDetails(cmd.Context(), rn, cached.ClubID)
			if err != nil {
				return errors.Wrap(err, "getting the club details")
			}

			if err := store.ApplyClub(rn.DB, club); err != nil {
				return errors.Wrap(err, "caching the club")
			}

			output.ClubInfo(club)

			return nil
		},
	}
}

func newInviteCmd(rn clictx.ReadnestCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "invite <name> <email>",
		Short:   "Invite a user to a club by email",
		PreRunE: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.Email(args[1]); err != nil {
				return err
			}

			cached, err := FindClub(rn.DB, args[0])
			if errors.Is(err, ErrClubNotFound) {
				log.Errorf("no club matching %s\n", args[0])
				return nil
			}
			if err != nil {
				return errors.Wrap(err, "finding the club")
			}

			if _, err := Invite(cmd.Context(), rn, cached.ClubID, args[1]); err != nil {
				var httpErr *client.HTTPError
				if errors.As(err, &httpErr) && httpErr.IsNotFound() {
					log.Errorf("no user with email %s\n", args[1])
					return nil
				}

				return err
			}

			log.Successf("invited %s to %s\n", args[1], cached.Name)

			return nil
		},
	}
}

func newSetBookCmd(rn clictx.ReadnestCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "setbook <name> <isbn13 or title>",
		Short:   "Set the book a club is currently reading",
		PreRunE: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cached, err := FindClub(rn.DB, args[0])
			if errors.Is(err, ErrClubNotFound) {
				log.Errorf("no club matching %s\n", args[0])
				return nil
			}
			if err != nil {
				return errors.Wrap(err, "finding the club")
			}

			entry, err := shelf.FindEntry(rn.DB, args[1])
			if errors.Is(err, shelf.ErrBookNotOnShelf) {
				log.Errorf("no book matching %s on the shelf\n", args[1])
				return nil
			}
			if err != nil {
				return errors.Wrap(err, "finding the book")
			}

			updated, err := SetBook(cmd.Context(), rn, cached.ClubID, entry.BookID)
			if err != nil {
				var httpErr *client.HTTPError
				if errors.As(err, &httpErr) && httpErr.StatusCode == 403 {
					log.Error("only the club owner can set the current book\n")
					return nil
				}

				return err
			}

			log.Successf("%s is now reading %s\n", updated.Name, entry.Title)

			return nil
		},
	}
}
