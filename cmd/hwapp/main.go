// Copyright 2026 BapanBigData
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	hwapp "github.com/BapanBigData/hwapp"
	"github.com/BapanBigData/hwapp/pkg/logger"
)

func main() {
	app := &cli.Command{
		Name:                   "hwapp",
		Usage:                  "Bootstrap and run the health & wellness agents server",
		Description:            "Provisions a host for the multi-agents health & wellness app: installs build dependencies, compiles the required Python from source, fetches the application checkout, provisions its virtual environment, and launches the uvicorn server detached with its output in a log file.",
		Version:                hwapp.Version,
		EnableShellCompletion:  true,
		Suggest:                true,
		HideHelpCommand:        true,
		UseShortOptionHandling: true,
		Flags:                  globalFlags,
		Before:                 initLogger,
	}

	app.Commands = append(app.Commands, SetupCommands...)
	app.Commands = append(app.Commands, EnvCommands...)
	app.Commands = append(app.Commands, ServerCommands...)

	// Cancel in-flight external commands on SIGINT, SIGTERM, SIGQUIT. The
	// launched server itself is detached and unaffected.
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logger.Init("hwapp", cmd.Bool("verbose"))
	return nil, nil
}
