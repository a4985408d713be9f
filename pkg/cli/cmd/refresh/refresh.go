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

package refresh

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/readnest/readnest/pkg/cli/cmd/club"
	"github.com/readnest/readnest/pkg/cli/cmd/invites"
	"github.com/readnest/readnest/pkg/cli/cmd/shelf"
	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/infra"
	"github.com/readnest/readnest/pkg/cli/log"
	"github.com/readnest/readnest/pkg/cli/store"
)

var allFlag bool

var example = `
 * Refetch the caches that mutations have invalidated
 readnest refresh

 * Refetch everything
 readnest refresh --all`

// NewCmd returns a new refresh command
func NewCmd(rn clictx.ReadnestCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "refresh",
		Short:   "Refetch cached data from the server",
		Example: example,
		RunE:    newRun(rn),
	}

	f := cmd.Flags()
	f.BoolVarP(&allFlag, "all", "a", false, "refetch everything, stale or not")

	return cmd
}

func refreshTopic(ctx context.Context, rn clictx.ReadnestCtx, topic store.Topic) error {
	switch topic {
	case store.TopicShelf:
		return shelf.Refresh(ctx, rn)
	case store.TopicClubs:
		return club.Refresh(ctx, rn)
	case store.TopicInvites:
		return invites.Refresh(ctx, rn)
	default:
		return errors.Errorf("unknown topic %s", topic)
	}
}

// Do refetches the given topics, replacing their cached copies
func Do(ctx context.Context, rn clictx.ReadnestCtx, topics []store.Topic) error {
	for _, topic := range topics {
		if err := refreshTopic(ctx, rn, topic); err != nil {
			return errors.Wrapf(err, "refreshing %s", topic)
		}

		log.Debug("refreshed %s\n", topic)
	}

	return nil
}

func newRun(rn clictx.ReadnestCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		var topics []store.Topic
		if allFlag {
			topics = []store.Topic{store.TopicShelf, store.TopicClubs, store.TopicInvites}
		} else {
			var err error
			topics, err = store.StaleTopics(rn.DB)
			if err != nil {
				return errors.Wrap(err, "finding stale topics")
			}
		}

		if len(topics) == 0 {
			log.Plain("everything is up to date\n")
			return nil
		}

		if err := Do(cmd.Context(), rn, topics); err != nil {
			return err
		}

		log.Successf("refreshed %d topic(s)\n", len(topics))

		return nil
	}
}
