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
	"github.com/urfave/cli/v3"

	"github.com/BapanBigData/hwapp/pkg/config"
)

var (
	verbose    bool
	configPath string
	workDir    string

	noWaitFlag = &cli.BoolFlag{
		Name:  "no-wait",
		Usage: "Do not wait for the server to accept connections after launch",
	}
	portFlag = &cli.IntFlag{
		Name:    "port",
		Aliases: []string{"p"},
		Usage:   "`PORT` the server binds to",
	}

	globalFlags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Config `YAML` to use instead of ~/.hwapp/config.yaml",
			Sources:     cli.EnvVars("HWAPP_CONFIG"),
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "workdir",
			Aliases:     []string{"w"},
			Usage:       "Working `DIR` holding the interpreter build and the app checkout",
			Destination: &workDir,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "Stream external command output instead of spinners",
			Destination: &verbose,
		},
	}
)

// loadConfig resolves the effective config: file (flag or default location),
// then flag overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.LoadOrCreate()
	}
	if err != nil {
		return nil, err
	}
	// Write normalized defaults back before flag overrides are applied, so
	// one-off flags never end up persisted.
	if configPath == "" {
		if err := cfg.PersistIfNeeded(); err != nil {
			return nil, err
		}
	}

	if workDir != "" {
		cfg.WorkDir = workDir
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Server.Port = int(port)
	}

	return cfg, cfg.Validate()
}
