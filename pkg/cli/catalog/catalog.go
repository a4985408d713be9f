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

// Package catalog provides a client for the external book catalog service.
// The catalog is a third-party lookup index. It knows about books in
// print; it knows nothing about users, shelves or clubs.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	clictx "github.com/readnest/readnest/pkg/cli/context"
	"github.com/readnest/readnest/pkg/cli/log"
)

// ErrMissingAPIKey is an error for a catalog request attempted without
// an API key configured
var ErrMissingAPIKey = errors.New("no catalog API key configured")

// UpstreamError is an error containing the status code and the body of
// a failed catalog response, kept verbatim for diagnosis
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("catalog responded with %d: %s", e.StatusCode, e.Body)
}

// Book is a book as the catalog describes it
type Book struct {
	ISBN13        string   `json:"isbn13"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Pages         int      `json:"pages"`
	Image         string   `json:"image"`
	Synopsis      string   `json:"synopsis"`
	Publisher     string   `json:"publisher"`
	DatePublished string   `json:"date_published"`
}

type searchResponse struct {
	Total int    `json:"total"`
	Books []Book `json:"books"`
}

// Search queries the catalog for books matching the given query. A query
// that matches nothing returns an empty result, not an error.
func Search(ctx context.Context, rn clictx.ReadnestCtx, query string) ([]Book, error) {
	if rn.CatalogAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	endpoint := fmt.Sprintf("%s/books/%s", rn.CatalogEndpoint, url.PathEscape(query))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}
	req.Header.Set("Authorization", rn.CatalogAPIKey)

	log.Debug("catalog request: GET %s\n", endpoint)

	res, err := rn.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "making http request")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading the response body")
	}

	if res.StatusCode == http.StatusNotFound {
		return []Book{}, nil
	}
	if res.StatusCode >= 400 {
		return nil, &UpstreamError{StatusCode: res.StatusCode, Body: string(body)}
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "unmarshalling the catalog response")
	}

	if resp.Books == nil {
		return []Book{}, nil
	}

	return resp.Books, nil
}
