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

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/readnest/readnest/pkg/cli/infra"
	"github.com/readnest/readnest/pkg/cli/log"

	// commands
	"github.com/readnest/readnest/pkg/cli/cmd/add"
	"github.com/readnest/readnest/pkg/cli/cmd/club"
	"github.com/readnest/readnest/pkg/cli/cmd/invites"
	"github.com/readnest/readnest/pkg/cli/cmd/login"
	"github.com/readnest/readnest/pkg/cli/cmd/logout"
	"github.com/readnest/readnest/pkg/cli/cmd/profile"
	"github.com/readnest/readnest/pkg/cli/cmd/progress"
	"github.com/readnest/readnest/pkg/cli/cmd/read"
	"github.com/readnest/readnest/pkg/cli/cmd/reading"
	"github.com/readnest/readnest/pkg/cli/cmd/recommend"
	"github.com/readnest/readnest/pkg/cli/cmd/refresh"
	"github.com/readnest/readnest/pkg/cli/cmd/register"
	"github.com/readnest/readnest/pkg/cli/cmd/root"
	"github.com/readnest/readnest/pkg/cli/cmd/shelf"
	"github.com/readnest/readnest/pkg/cli/cmd/version"
)

// apiEndpoint and versionTag are populated during link time
var apiEndpoint string
var versionTag = "master"

// parseDBPath extracts --dbPath flag value from command line arguments
// regardless of where it appears (before or after subcommand).
// Returns empty string if not found.
func parseDBPath(args []string) string {
	for i, arg := range args {
		if strings.HasPrefix(arg, "--dbPath=") {
			return strings.TrimPrefix(arg, "--dbPath=")
		}
		if arg == "--dbPath" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func main() {
	dbPath := parseDBPath(os.Args[1:])

	rn, err := infra.Init(versionTag, apiEndpoint, dbPath)
	if err != nil {
		panic(errors.Wrap(err, "initializing context"))
	}
	defer rn.DB.Close()

	root.Register(login.NewCmd(*rn))
	root.Register(register.NewCmd(*rn))
	root.Register(logout.NewCmd(*rn))
	root.Register(shelf.NewCmd(*rn))
	root.Register(add.NewCmd(*rn))
	root.Register(progress.NewCmd(*rn))
	root.Register(read.NewCmd(*rn))
	root.Register(reading.NewCmd(*rn))
	root.Register(club.NewCmd(*rn))
	root.Register(invites.NewCmd(*rn))
	root.Register(profile.NewCmd(*rn))
	root.Register(recommend.NewCmd(*rn))
	root.Register(refresh.NewCmd(*rn))
	root.Register(version.NewCmd(*rn))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Execute(ctx); err != nil {
		log.Errorf("%s\n", err.Error())
		os.Exit(1)
	}
}
