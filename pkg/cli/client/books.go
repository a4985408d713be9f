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

// GetBookByISBN looks up a book in the gateway's own catalog by its ISBN-13.
// It returns ErrBookNotFound if the gateway has never seen the book.
func GetBookByISBN(ctx context.Context, rn clictx.ReadnestCtx, isbn13 string) (Book, error) {
	path := fmt.Sprintf("/books/isbn/%s", isbn13)
	res, err := doAuthorizedReq(ctx, rn, "GET", path, "", nil)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return Book{}, ErrBookNotFound
		}

		return Book{}, errors.Wrap(err, "making http request")
	}

	var resp Book
	if err := decodeInto(res, "book lookup", &resp); err != nil {
		return Book{}, err
	}

	return resp, nil
}

// CreateBookPayload is the payload for registering a book with the gateway
type CreateBookPayload struct {
	ISBN13        string   `json:"isbn13"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Pages         int      `json:"pages"`
	Image         string   `json:"image,omitempty"`
	Synopsis      string   `json:"synopsis,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	DatePublished string   `json:"datePublished,omitempty"`
}

// CreateBook registers a book with the gateway so that it can be shelved
func CreateBook(ctx context.Context, rn clictx.ReadnestCtx, payload CreateBookPayload) (Book, error) {
	body, err := marshalPayload("book creation", payload)
	if err != nil {
		return Book{}, err
	}

	res, err := doAuthorizedReq(ctx, rn, "POST", "/books", body, nil)
	if err != nil {
		return Book{}, errors.Wrap(err, "making http request")
	}

	var resp Book
	if err := decodeInto(res, "book creation", &resp); err != nil {
		return Book{}, err
	}

	return resp, nil
}

// GetRecommendations gets books the gateway recommends for the user
func GetRecommendations(ctx context.Context, rn clictx.ReadnestCtx) ([]Book, error) {
	res, err := doAuthorizedReq(ctx, rn, "GET", "/recommendations", "", nil)
	if err != nil {
		return nil, errors.Wrap(err, "making http request")
	}

	var resp []Book
	if err := decodeInto(res, "recommendations", &resp); err != nil {
		return nil, err
	}

	for _, book := range resp {
		if err := book.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid recommendations response")
		}
	}

	return resp, nil
}
