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

package store

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/readnest/readnest/pkg/cli/consts"
	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/database"
)

// Topic identifies a cached data set that can go stale when a mutation
// elsewhere invalidates it
type Topic = clictx.Topic

// Topics for the cached data sets
const (
	TopicShelf   Topic = "shelf"
	TopicClubs   Topic = "clubs"
	TopicInvites Topic = "invites"
)

func staleKey(topic Topic) (string, error) {
	switch topic {
	case TopicShelf:
		return consts.SystemStaleShelf, nil
	case TopicClubs:
		return consts.SystemStaleClubs, nil
	case TopicInvites:
		return consts.SystemStaleInvites, nil
	default:
		return "", errors.Errorf("unknown topic %s", topic)
	}
}

// MarkStale records that the given cached data sets no longer reflect
// the server and need a refetch before they are shown again. The marks
// are persisted so that they survive process exits.
func MarkStale(db *database.DB, topics ...Topic) error {
	for _, topic := range topics {
		key, err := staleKey(topic)
		if err != nil {
			return err
		}
		if err := database.UpsertSystem(db, key, "1"); err != nil {
			return errors.Wrapf(err, "marking %s stale", topic)
		}
	}

	return nil
}

// ClearStale removes the stale mark for the given data set
func ClearStale(db *database.DB, topic Topic) error {
	key, err := staleKey(topic)
	if err != nil {
		return err
	}
	if err := database.DeleteSystem(db, key); err != nil {
		return errors.Wrapf(err, "clearing the %s stale mark", topic)
	}

	return nil
}

// IsStale reports whether the given cached data set is marked stale
func IsStale(db *database.DB, topic Topic) (bool, error) {
	key, err := staleKey(topic)
	if err != nil {
		return false, err
	}

	var val string
	err = database.GetSystem(db, key, &val)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "checking the %s stale mark", topic)
	}

	return val == "1", nil
}

// StaleTopics returns the topics currently marked stale
func StaleTopics(db *database.DB) ([]Topic, error) {
	var ret []Topic
	for _, topic := range []Topic{TopicShelf, TopicClubs, TopicInvites} {
		stale, err := IsStale(db, topic)
		if err != nil {
			return nil, err
		}
		if stale {
			ret = append(ret, topic)
		}
	}

	return ret, nil
}

// Invalidate marks the topics stale and notifies in-process subscribers
func Invalidate(db *database.DB, notifier *clictx.Notifier, topics ...Topic) error {
	if err := MarkStale(db, topics...); err != nil {
		return err
	}
	if notifier != nil {
		for _, topic := range topics {
			notifier.Notify(topic)
		}
	}

	return nil
}
