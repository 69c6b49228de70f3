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
	"errors"
)

// InstallPackages refreshes the package index and installs every configured
// build dependency. A single missing package fails the whole step.
func (b *Bootstrap) InstallPackages(ctx context.Context) error {
	if len(b.cfg.Packages) == 0 {
		return errors.New("no packages configured")
	}
	if !CommandExists("apt-get") {
		return errors.New("apt-get not found: package installation requires a Debian-like host")
	}

	b.log.V(1).Info("updating package index")
	if err := b.privileged(ctx, "", "apt-get", "update"); err != nil {
		return err
	}

	b.log.V(1).Info("installing packages", "count", len(b.cfg.Packages))
	args := append([]string{"install", "-y"}, b.cfg.Packages...)
	return b.privileged(ctx, "", "apt-get", args...)
}
