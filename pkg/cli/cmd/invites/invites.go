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

package invites

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

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
 * List pending invites
 readnest invites

 * Accept an invite
 readnest invites accept 9

 * Decline an invite
 readnest invites decline 9`

// NewCmd returns a new invites command
func NewCmd(rn clictx.ReadnestCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invites",
		Short:   "List and respond to book club invites",
		Example: example,
		RunE:    newRun(rn),
	}

	cmd.AddCommand(newAcceptCmd(rn))
	cmd.AddCommand(newDeclineCmd(rn))

	return cmd
}

// Refresh fetches the invites and replaces the cached copy with them
func Refresh(ctx context.Context, rn clictx.ReadnestCtx) error {
	invites, err := client.GetInvites(ctx, rn)
	if err != nil {
		return err
	}

	if err := store.ReplaceInvites(rn.DB, invites); err != nil {
		return errors.Wrap(err, "caching the invites")
	}

	return nil
}

// Accept accepts the invite. Joining a club makes the cached club list
// out of date, so it is marked for a refetch.
func Accept(ctx context.Context, rn clictx.ReadnestCtx, inviteID int) (client.Invite, error) {
	invite, err := client.AcceptInvite(ctx, rn, inviteID)
	if err != nil {
		return client.Invite{}, errors.Wrap(err, "accepting the invite")
	}

	if err := store.ApplyInvite(rn.DB, invite); err != nil {
		return client.Invite{}, errors.Wrap(err, "caching the invite")
	}
	if err := store.Invalidate(rn.DB, rn.Notifier, store.TopicClubs); err != nil {
		return client.Invite{}, err
	}

	return invite, nil
}

// Decline declines the invite
func Decline(ctx context.Context, rn clictx.ReadnestCtx, inviteID int) (client.Invite, error) {
	invite, err := client.DeclineInvite(ctx, rn, inviteID)
	if err != nil {
		return client.Invite{}, errors.Wrap(err, "declining the invite")
	}

	if err := store.ApplyInvite(rn.DB, invite); err != nil {
		return client.Invite{}, errors.Wrap(err, "caching the invite")
	}

	return invite, nil
}

func newRun(rn clictx.ReadnestCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := Refresh(cmd.Context(), rn); err != nil {
			log.Warnf("could not reach the server: %s\n", err)
			log.Warnf("showing the last known copy\n")
		}

		invites, err := store.PendingInvites(rn.DB)
		if err != nil {
			return errors.Wrap(err, "reading the cached invites")
		}

		output.InviteList(invites)

		return nil
	}
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}
	if !utils.IsNumber(args[0]) {
		return errors.New("invite id must be a number")
	}

	return nil
}

func newAcceptCmd(rn clictx.ReadnestCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "accept <invite id>",
		Short:   "Accept a pending invite",
		PreRunE: preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			inviteID, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrap(err, "parsing the invite id")
			}

			invite, err := Accept(cmd.Context(), rn, inviteID)
			if err != nil {
				return err
			}

			log.Successf("joined %s\n", invite.ClubName)

			return nil
		},
	}
}

func newDeclineCmd(rn clictx.ReadnestCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "decline <invite id>",
		Short:   "Decline a pending invite",
		PreRunE: preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			inviteID, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrap(err, "parsing the invite id")
			}

			ok, err := ui.Confirm("decline this invite?", false)
			if err != nil {
				return errors.Wrap(err, "getting confirmation")
			}
			if !ok {
				log.Error("Aborted\n")
				return nil
			}

			invite, err := Decline(cmd.Context(), rn, inviteID)
			if err != nil {
				return err
			}

			log.Successf("declined the invite to %s\n", invite.ClubName)

			return nil
		},
	}
}
