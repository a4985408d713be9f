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

package register

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/readnest/readnest/pkg/cli/client"
	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/infra"
	"github.com/readnest/readnest/pkg/cli/log"
	"github.com/readnest/readnest/pkg/cli/store"
	"github.com/readnest/readnest/pkg/cli/ui"
	"github.com/readnest/readnest/pkg/cli/validate"
)

var example = `
  readnest register`

// NewCmd returns a new register command
func NewCmd(rn clictx.ReadnestCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "register",
		Short:   "Create a Readnest account",
		Example: example,
		RunE:    newRun(rn),
	}

	return cmd
}

// Do creates an account and saves the resulting session. A successful
// registration leaves the user logged in.
func Do(ctx context.Context, rn clictx.ReadnestCtx, username, email, password string) error {
	session, err := client.Register(ctx, rn, username, email, password)
	if err != nil {
		return err
	}

	if err := store.SaveSession(rn.DB, session); err != nil {
		return errors.Wrap(err, "saving the session")
	}

	return nil
}

func newRun(rn clictx.ReadnestCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		var username, email, password, passwordConfirm string
		if err := ui.PromptInput("username", &username); err != nil {
			return errors.Wrap(err, "getting username input")
		}
		if err := ui.PromptInput("email", &email); err != nil {
			return errors.Wrap(err, "getting email input")
		}
		if err := ui.PromptPassword("password", &password); err != nil {
			return errors.Wrap(err, "getting password input")
		}
		if err := ui.PromptPassword("confirm password", &passwordConfirm); err != nil {
			return errors.Wrap(err, "getting password confirmation input")
		}

		if err := validate.Registration(username, email, password, passwordConfirm); err != nil {
			return err
		}

		if err := Do(cmd.Context(), rn, username, email, password); err != nil {
			return errors.Wrap(err, "registering")
		}

		log.Successf("welcome to readnest, %s\n", username)

		return nil
	}
}
