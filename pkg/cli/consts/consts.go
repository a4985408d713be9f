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

// Package consts provides definitions of constants
package consts

var (
	// ReadnestDirName is the name of the directory containing readnest files
	ReadnestDirName = "readnest"
	// ReadnestDBFileName is a filename for the readnest SQLite database
	ReadnestDBFileName = "readnest.db"
	// ConfigFilename is the name of the config file
	ConfigFilename = "readnestrc"

	// SystemSchema is the key for schema in the system table
	SystemSchema = "schema"
	// SystemSessionToken is the key for the bearer token of the current session
	SystemSessionToken = "session_token"
	// SystemSessionUser is the key for the JSON-serialized user of the current session
	SystemSessionUser = "session_user"
	// SystemClientID is the key for the per-install client instance id
	SystemClientID = "client_id"

	// SystemStaleShelf marks the cached bookshelf as needing a re-fetch
	SystemStaleShelf = "stale_shelf"
	// SystemStaleClubs marks the cached club list as needing a re-fetch
	SystemStaleClubs = "stale_clubs"
	// SystemStaleInvites marks the cached invite list as needing a re-fetch
	SystemStaleInvites = "stale_invites"
)
