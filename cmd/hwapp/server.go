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
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/BapanBigData/hwapp/pkg/bootstrap"
	"github.com/BapanBigData/hwapp/pkg/config"
	"github.com/BapanBigData/hwapp/pkg/launcher"
	"github.com/BapanBigData/hwapp/pkg/util"
)

const readyTimeout = 30 * time.Second

var ServerCommands = []*cli.Command{
	{
		Name:  "server",
		Usage: "Manage the launched wellness app server",
		Commands: []*cli.Command{
			{
				Name:   "start",
				Usage:  "Launch the server detached from this terminal",
				Action: startServer,
				Flags: []cli.Flag{
					noWaitFlag,
					portFlag,
				},
			},
			{
				Name:   "stop",
				Usage:  "Stop the tracked server process",
				Action: stopServer,
			},
			{
				Name:   "status",
				Usage:  "Report whether the server process is alive",
				Action: serverStatus,
			},
			{
				Name:   "logs",
				Usage:  "Print the server log",
				Action: serverLogs,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "follow",
						Aliases: []string{"f"},
						Usage:   "Keep printing new log output",
					},
				},
			},
		},
	},
}

func startServer(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The configuration gate applies to direct starts too: never launch
	// without the secrets file in place.
	b := bootstrap.New(cfg, bootstrap.WithVerbose(verbose))
	if err := b.Preflight(ctx); err != nil {
		return err
	}

	return launchServer(ctx, cmd, cfg)
}

func launchServer(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	l := launcher.New(cfg)
	pid, err := l.Start()
	if err != nil {
		return err
	}

	fmt.Printf("Server started with pid %d on port %d\n", pid, cfg.Server.Port)
	fmt.Printf("Follow logs with [%s]\n", util.Accented("hwapp server logs -f"))
	fmt.Println(util.Dimmed("log file: " + cfg.LogFilePath()))

	if cmd.Bool("no-wait") {
		return nil
	}

	if err := util.Await("Waiting for the server to accept connections...", ctx, func(ctx context.Context) error {
		return l.WaitReady(ctx, pid, readyTimeout)
	}); err != nil {
		return err
	}

	fmt.Printf("Server ready at [%s]\n", util.Accented(fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)))
	return nil
}

func stopServer(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := launcher.New(cfg).Stop(); err != nil {
		if errors.Is(err, launcher.ErrNotRunning) {
			fmt.Println("Server is not running")
			return nil
		}
		return err
	}
	fmt.Println("Server stopped")
	return nil
}

func serverStatus(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	pid, running, err := launcher.New(cfg).Status()
	if err != nil {
		return err
	}
	if !running {
		fmt.Println("Server is not running")
		return nil
	}
	fmt.Printf("Server running with pid %d on port %d\n", pid, cfg.Server.Port)
	return nil
}

func serverLogs(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	err = launcher.New(cfg).TailLogs(ctx, os.Stdout, cmd.Bool("follow"))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
