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

	"github.com/urfave/cli/v3"

	"github.com/BapanBigData/hwapp/pkg/bootstrap"
	"github.com/BapanBigData/hwapp/pkg/util"
)

var SetupCommands = []*cli.Command{
	{
		Name:   "setup",
		Usage:  "Provision the host and launch the wellness app server",
		Action: runSetup,
		Flags: []cli.Flag{
			noWaitFlag,
			portFlag,
		},
		Commands: []*cli.Command{
			{
				Name:   "packages",
				Usage:  "Install the OS build dependencies",
				Action: runStep("packages"),
			},
			{
				Name:   "python",
				Usage:  "Build and altinstall the required Python from source",
				Action: runStep("python"),
			},
			{
				Name:   "fetch",
				Usage:  "Clone the application repository if not present",
				Action: runStep("fetch"),
			},
			{
				Name:   "venv",
				Usage:  "Create the virtualenv and install dependencies",
				Action: runStep("venv"),
			},
		},
	},
}

// runSetup executes the full provisioning pipeline and, on success,
// launches the server. Each step must succeed before the next runs.
func runSetup(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	b := bootstrap.New(cfg, bootstrap.WithVerbose(verbose))
	steps := b.Steps()
	wrapped := make([]bootstrap.Step, 0, len(steps))
	for _, step := range steps {
		title, run := step.Title, step.Run
		wrapped = append(wrapped, bootstrap.Step{
			Name: step.Name,
			Run: func(ctx context.Context) error {
				return util.Await(title, ctx, run)
			},
		})
	}
	if err := bootstrap.RunSteps(ctx, wrapped); err != nil {
		return err
	}

	return launchServer(ctx, cmd, cfg)
}

func runStep(name string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		b := bootstrap.New(cfg, bootstrap.WithVerbose(verbose))
		for _, step := range b.Steps() {
			if step.Name != name {
				continue
			}
			if err := util.Await(step.Title, ctx, step.Run); err != nil {
				return fmt.Errorf("%s: %w", step.Name, err)
			}
			fmt.Printf("Step [%s] complete\n", util.Accented(step.Name))
			return nil
		}
		return fmt.Errorf("unknown setup step %q", name)
	}
}
