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

package profile

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
	"github.com/readnest/readnest/pkg/cli/utils"
	"github.com/readnest/readnest/pkg/cli/validate"
)

var example = `
 * View your profile
 readnest profile

 * Set a yearly reading goal
 readnest profile goal 24`

// NewCmd returns a new profile command
func NewCmd(rn clictx.ReadnestCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Short:   "View your profile and reading goal",
		Example: example,
		RunE:    newRun(rn),
	}

	cmd.AddCommand(newGoalCmd(rn))

	return cmd
}

// Refresh fetches the profile and replaces the saved copy with it
func Refresh(ctx context.Context, rn clictx.ReadnestCtx) (client.User, error) {
	user, err := client.GetUserProfile(ctx, rn)
	if err != nil {
		return client.User{}, err
	}

	if err := store.UpdateSessionUser(rn.DB, user); err != nil {
		return client.User{}, errors.Wrap(err, "saving the profile")
	}

	return user, nil
}

// SetGoal sets the yearly reading goal and saves the confirmed profile
func SetGoal(ctx context.Context, rn clictx.ReadnestCtx, goal int) (client.User, error) {
	user, err := client.UpdateReadingGoal(ctx, rn, goal)
	if err != nil {
		return client.User{}, errors.Wrap(err, "updating the reading goal")
	}

	if err := store.UpdateSessionUser(rn.DB, user); err != nil {
		return client.User{}, errors.Wrap(err, "saving the profile")
	}

	return user, nil
}

func newRun(rn clictx.ReadnestCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		user, err := Refresh(cmd.Context(), rn)
		if err != nil {
			log.Warnf("could not reach the server: %s\n", err)
			log.Warnf("showing the last known copy\n")

			user, err = store.SessionUser(rn.DB)
			if errors.Is(err, store.ErrNoSession) {
				log.Error("not logged in\n")
				return nil
			}
			if err != nil {
				return errors.Wrap(err, "reading the saved profile")
			}
		}

		output.Profile(user)

		return nil
	}
}

func newGoalCmd(rn clictx.ReadnestCtx) *cobra.Command {
	return &cobra.Command{
		Use:   "goal <books per year>",
		Short: "Set your yearly reading goal",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("Incorrect number of argument")
			}
			if !utils.IsNumber(args[0]) {
				return errors.New("goal must be a number")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			goal, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrap(err, "parsing the goal")
			}
			if err := validate.ReadingGoal(goal); err != nil {
				return err
			}

			user, err := SetGoal(cmd.Context(), rn, goal)
			if err != nil {
				return err
			}

			log.Successf("reading goal set to %d books\n", user.ReadingGoal)

			return nil
		},
	}
}
