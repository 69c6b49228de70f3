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

	"github.com/BapanBigData/hwapp/pkg/util"
)

// FetchSource clones the application repository into the working directory.
// An existing checkout is left untouched so reruns are safe; the clone
// always tracks the remote's default branch.
func (b *Bootstrap) FetchSource(ctx context.Context) error {
	appDir := b.cfg.AppPath()
	if util.DirExists(appDir) {
		b.log.V(1).Info("checkout already present, skipping clone", "dir", appDir)
		fmt.Printf("Using existing checkout at [%s]\n", util.Accented(appDir))
		return nil
	}

	b.log.V(1).Info("cloning repository", "url", b.cfg.App.RepoURL, "dir", appDir)
	return b.runner.Run(ctx, b.cfg.WorkDir, "git", "clone", b.cfg.App.RepoURL, b.cfg.App.Dir)
}
