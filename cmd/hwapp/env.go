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

	"github.com/charmbracelet/huh"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/BapanBigData/hwapp/pkg/bootstrap"
	"github.com/BapanBigData/hwapp/pkg/util"
)

var EnvCommands = []*cli.Command{
	{
		Name:  "env",
		Usage: "Manage the app's environment file",
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "Verify the environment file exists and is readable",
				Action: checkEnv,
			},
			{
				Name:   "init",
				Usage:  "Interactively create or update the environment file",
				Action: initEnv,
			},
		},
	},
}

func checkEnv(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	b := bootstrap.New(cfg, bootstrap.WithVerbose(verbose))
	if err := b.Preflight(ctx); err != nil {
		return err
	}

	fmt.Printf("Environment file [%s] OK\n", util.Accented(cfg.EnvFilePath()))
	return nil
}

func initEnv(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !util.DirExists(cfg.AppPath()) {
		return fmt.Errorf("no checkout at %s: run `hwapp setup fetch` first", cfg.AppPath())
	}
	if !util.Interactive() {
		return errors.New("`env init` needs a terminal to prompt for credentials")
	}

	envPath := cfg.EnvFilePath()

	// keep whatever is already configured as defaults
	existing, err := godotenv.Read(envPath)
	if err != nil {
		existing = map[string]string{}
	}

	values := make([]string, len(bootstrap.RequiredEnvKeys))
	var fields []huh.Field
	for i, key := range bootstrap.RequiredEnvKeys {
		values[i] = existing[key]
		fields = append(fields, huh.NewInput().
			Title(key).
			Placeholder("unset").
			Value(&values[i]))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(util.Theme).
		RunWithContext(ctx); err != nil {
		return err
	}

	for i, key := range bootstrap.RequiredEnvKeys {
		if values[i] != "" {
			existing[key] = values[i]
		}
	}

	if err := bootstrap.WriteEnvFile(envPath, existing); err != nil {
		return err
	}
	fmt.Printf("Wrote environment file [%s]\n", util.Accented(envPath))
	if missing := bootstrap.MissingEnvKeys(existing); len(missing) > 0 {
		fmt.Println(util.Dimmed(fmt.Sprintf("still unset: %v", missing)))
	}
	return nil
}
