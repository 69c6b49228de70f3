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

package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
)

// ProvisionEnv creates the app's virtualenv with the source-built
// interpreter, upgrades pip, and installs the declared dependencies. The
// venv's own binaries are invoked by path, which replaces the shell's
// `source activate` environment mutation.
func (b *Bootstrap) ProvisionEnv(ctx context.Context) error {
	appDir, err := filepath.Abs(b.cfg.AppPath())
	if err != nil {
		return err
	}

	manifest, manifestFile, err := DetectManifest(appDir, b.cfg.App.Requirements)
	if err != nil {
		return err
	}

	if err := b.runner.Run(ctx, appDir, b.cfg.PythonCommand(), "-m", "venv", b.cfg.App.VenvDir); err != nil {
		return err
	}

	pip := filepath.Join(appDir, b.cfg.App.VenvDir, "bin", "pip")
	if err := b.runner.Run(ctx, appDir, pip, "install", "--upgrade", "pip"); err != nil {
		return err
	}

	b.log.V(1).Info("installing dependencies", "manifest", manifestFile)
	switch manifest {
	case ManifestRequirements:
		return b.runner.Run(ctx, appDir, pip, "install", "-r", manifestFile)
	case ManifestPyproject:
		return b.runner.Run(ctx, appDir, pip, "install", ".")
	default:
		return fmt.Errorf("unsupported manifest type %q", manifest)
	}
}
