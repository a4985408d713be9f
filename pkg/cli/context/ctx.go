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

// Package context defines the readnest runtime context
package context

import (
	"net/http"

	"github.com/readnest/readnest/pkg/clock"

	"github.com/readnest/readnest/pkg/cli/database"
)

// Paths contain directory definitions
type Paths struct {
	Home   string
	Config string
	Data   string
	Cache  string
}

// ReadnestCtx is a context holding the information of the current runtime
type ReadnestCtx struct {
	Paths           Paths
	APIEndpoint     string
	CatalogEndpoint string
	CatalogAPIKey   string
	Version         string
	ClientID        string
	DB              *database.DB
	SessionToken    string
	Clock           clock.Clock
	Notifier        *Notifier
	HTTPClient      *http.Client
}

// Redact replaces private information from the context with a set of
// placeholder values.
func Redact(ctx ReadnestCtx) ReadnestCtx {
	if ctx.SessionToken != "" {
		ctx.SessionToken = "1"
	} else {
		ctx.SessionToken = "0"
	}
	if ctx.CatalogAPIKey != "" {
		ctx.CatalogAPIKey = "1"
	} else {
		ctx.CatalogAPIKey = "0"
	}

	return ctx
}
