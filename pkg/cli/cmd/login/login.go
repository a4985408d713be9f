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

package login

import (
	"context"
	"net/url"

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
  readnest login`

// NewCmd returns a new login command
func NewCmd(rn clictx.ReadnestCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Login to the Readnest server",
		Example: example,
		RunE:    newRun(rn),
	}

	return cmd
}

// getServerDisplayURL returns the origin of the configured API endpoint
// for display purposes
func getServerDisplayURL(rn clictx.ReadnestCtx) string {
	u, err := url.Parse(rn.APIEndpoint)
	if err != nil {
		return ""
	}
	if u.Scheme == "" || u.Host == "" {
		return ""
	}

	return u.Scheme + "://" + u.Host
}

// Do performs login with the given credentials and saves the resulting
// session
func Do(ctx context.Context, rn clictx.ReadnestCtx, email, password string) error {
	session, err := client.Login(ctx, rn, email, password)
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
		if displayURL := getServerDisplayURL(rn); displayURL != "" {
			log.Plainf("logging in to %s\n", displayURL)
		}

		var email, password string
		if err := ui.PromptInput("email", &email); err != nil {
			return errors.Wrap(err, "getting email input")
		}
		if err := ui.PromptPassword("password", &password); err != nil {
			return errors.Wrap(err, "getting password input")
		}

		if err := validate.Login(email, password); err != nil {
			return err
		}

		err := Do(cmd.Context(), rn, email, password)
		if errors.Is(err, client.ErrInvalidLogin) {
			log.Error("wrong email or password\n")
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "logging in")
		}

		log.Success("logged in\n")

		return nil
	}
}
