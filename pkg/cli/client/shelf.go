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

package client

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	clictx "github.com/readnest/readnest/pkg/cli/context"
)

// GetBookshelf gets the full bookshelf of the authenticated user
func GetBookshelf(ctx context.Context, rn clictx.ReadnestCtx) ([]ShelfEntry, error) {
	res, err := doAuthorizedReq(ctx, rn, "GET", "/bookshelf", "", nil)
	if err != nil {
		return nil, errors.Wrap(err, "making http request")
	}

	var resp []ShelfEntry
	if err := decodeInto(res, "bookshelf", &resp); err != nil {
		return nil, err
	}

	for _, entry := range resp {
		if err := entry.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid bookshelf response")
		}
	}

	return resp, nil
}

// GetShelfEntry gets the authenticated user's shelf entry for the given book
func GetShelfEntry(ctx context.Context, rn clictx.ReadnestCtx, bookID int) (ShelfEntry, error) {
	path := fmt.Sprintf("/bookshelf/%d", bookID)
	res, err := doAuthorizedReq(ctx, rn, "GET", path, "", nil)
	if err != nil {
		return ShelfEntry{}, errors.Wrap(err, "making http request")
	}

	var resp ShelfEntry
	if err := decodeInto(res, "shelf entry", &resp); err != nil {
		return ShelfEntry{}, err
	}

	return resp, nil
}

type addToBookshelfPayload struct {
	BookID int `json:"bookId"`
}

// AddToBookshelf adds the given book to the authenticated user's shelf.
// The operation is idempotent per user and book on the server side.
func AddToBookshelf(ctx context.Context, rn clictx.ReadnestCtx, bookID int) (ShelfEntry, error) {
	body, err := marshalPayload("add to bookshelf", addToBookshelfPayload{BookID: bookID})
	if err != nil {
		return ShelfEntry{}, err
	}

	res, err := doAuthorizedReq(ctx, rn, "POST", "/bookshelf", body, nil)
	if err != nil {
		return ShelfEntry{}, errors.Wrap(err, "making http request")
	}

	var resp ShelfEntry
	if err := decodeInto(res, "add to bookshelf", &resp); err != nil {
		return ShelfEntry{}, err
	}

	return resp, nil
}

// UpdateShelfEntryPayload is a partial update of a shelf entry. Nil fields
// are left untouched by the server.
type UpdateShelfEntryPayload struct {
	CurrentPage *int  `json:"currentPage,omitempty"`
	Read        *bool `json:"read,omitempty"`
	Rating      *int  `json:"rating,omitempty"`
}

// UpdateShelfEntry applies a partial update to a shelf entry and returns the
// full updated entity echoed by the server
func UpdateShelfEntry(ctx context.Context, rn clictx.ReadnestCtx, entryID int, payload UpdateShelfEntryPayload) (ShelfEntry, error) {
	body, err := marshalPayload("shelf entry update", payload)
	if err != nil {
		return ShelfEntry{}, err
	}

	path := fmt.Sprintf("/bookshelf/%d", entryID)
	res, err := doAuthorizedReq(ctx, rn, "PUT", path, body, nil)
	if err != nil {
		return ShelfEntry{}, errors.Wrap(err, "making http request")
	}

	var resp ShelfEntry
	if err := decodeInto(res, "shelf entry update", &resp); err != nil {
		return ShelfEntry{}, err
	}

	return resp, nil
}

// MarkCurrentlyReading marks the given book as currently being read
func MarkCurrentlyReading(ctx context.Context, rn clictx.ReadnestCtx, bookID int) (ShelfEntry, error) {
	path := fmt.Sprintf("/bookshelf/%d/currentlyReading", bookID)
	res, err := doAuthorizedReq(ctx, rn, "POST", path, "{}", nil)
	if err != nil {
		return ShelfEntry{}, errors.Wrap(err, "making http request")
	}

	var resp ShelfEntry
	if err := decodeInto(res, "currently reading", &resp); err != nil {
		return ShelfEntry{}, err
	}

	return resp, nil
}

// UnmarkCurrentlyReading clears the currently-reading flag on the given book
func UnmarkCurrentlyReading(ctx context.Context, rn clictx.ReadnestCtx, bookID int) (ShelfEntry, error) {
	path := fmt.Sprintf("/bookshelf/%d/currentlyReading", bookID)
	res, err := doAuthorizedReq(ctx, rn, "DELETE", path, "", nil)
	if err != nil {
		return ShelfEntry{}, errors.Wrap(err, "making http request")
	}

	var resp ShelfEntry
	if err := decodeInto(res, "currently reading", &resp); err != nil {
		return ShelfEntry{}, err
	}

	return resp, nil
}
