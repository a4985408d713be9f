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

package logout

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/infra"
	"github.com/readnest/readnest/pkg/cli/log"
	"github.com/readnest/readnest/pkg/cli/store"
)

// ErrNotLoggedIn is an error for logging out when not logged in
var ErrNotLoggedIn = errors.New("not logged in")

var example = `
  readnest logout`

// NewCmd returns a new logout command
func NewCmd(rn clictx.ReadnestCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logout",
		Short:   "Logout and clear the local state",
		Example: example,
		RunE:    newRun(rn),
	}

	return cmd
}

// Do removes the session and everything cached under it. The token is
// simply discarded; the server invalidates it on expiry.
func Do(rn clictx.ReadnestCtx) error {
	_, err := store.SessionToken(rn.DB)
	if errors.Is(err, store.ErrNoSession) {
		return ErrNotLoggedIn
	}
	if err != nil {
		return errors.Wrap(err, "getting session token")
	}

	if err := store.ClearSession(rn.DB); err != nil {
		return errors.Wrap(err, "clearing the session")
	}

	return nil
}

func newRun(rn clictx.ReadnestCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		err := Do(rn)
		if errors.Is(err, ErrNotLoggedIn) {
			log.Error("not logged in\n")
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "logging out")
		}

		log.Success("logged out\n")

		return nil
	}
}
