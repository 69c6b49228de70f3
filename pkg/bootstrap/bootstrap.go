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

// Package bootstrap implements the host provisioning pipeline for the
// wellness app: OS build dependencies, a source-built Python interpreter,
// the application checkout, its virtualenv, and the pre-launch
// configuration check. Steps run strictly in order and the pipeline stops
// at the first failure.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"

	"github.com/go-logr/logr"

	"github.com/BapanBigData/hwapp/pkg/config"
	"github.com/BapanBigData/hwapp/pkg/logger"
)

type Step struct {
	Name  string
	Title string
	Run   func(ctx context.Context) error
}

// RunSteps executes steps in order, stopping at the first failure. The
// returned error carries the name of the failing step.
func RunSteps(ctx context.Context, steps []Step) error {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.Name, err)
		}
	}
	return nil
}

type Bootstrap struct {
	cfg    *config.Config
	runner CommandRunner
	client *http.Client
	log    logr.Logger
}

type Option func(*Bootstrap)

func WithRunner(r CommandRunner) Option {
	return func(b *Bootstrap) { b.runner = r }
}

func WithVerbose(verbose bool) Option {
	return func(b *Bootstrap) {
		if r, ok := b.runner.(*execRunner); ok {
			r.verbose = verbose
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(b *Bootstrap) { b.client = client }
}

func New(cfg *config.Config, opts ...Option) *Bootstrap {
	b := &Bootstrap{
		cfg:    cfg,
		runner: &execRunner{},
		client: http.DefaultClient,
		log:    logger.GetLogger().WithName("bootstrap"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Steps returns the provisioning pipeline in execution order.
func (b *Bootstrap) Steps() []Step {
	return []Step{
		{"packages", "Installing build dependencies...", b.InstallPackages},
		{"python", "Building Python " + b.cfg.Python.Version + " from source...", b.BuildPython},
		{"fetch", "Fetching application source...", b.FetchSource},
		{"venv", "Provisioning virtual environment...", b.ProvisionEnv},
		{"preflight", "Checking configuration...", b.Preflight},
	}
}

// privileged runs a command through sudo when the process is not root.
func (b *Bootstrap) privileged(ctx context.Context, dir, name string, args ...string) error {
	if os.Geteuid() != 0 && CommandExists("sudo") {
		args = append([]string{name}, args...)
		name = "sudo"
	}
	return b.runner.Run(ctx, dir, name, args...)
}

// Determine if `cmd` is a binary in PATH
func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}
