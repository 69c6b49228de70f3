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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BapanBigData/hwapp/pkg/config"
)

func TestFetchSourceSkipsExistingCheckout(t *testing.T) {
	cfg := config.Default()
	cfg.WorkDir = t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(cfg.WorkDir, cfg.App.Dir), 0755))

	runner := &fakeRunner{}
	b := New(cfg, WithRunner(runner))

	require.NoError(t, b.FetchSource(context.Background()))
	assert.Empty(t, runner.calls, "clone must be skipped when the checkout exists")
}

func TestFetchSourceClonesWhenAbsent(t *testing.T) {
	cfg := config.Default()
	cfg.WorkDir = t.TempDir()

	runner := &fakeRunner{}
	b := New(cfg, WithRunner(runner))

	require.NoError(t, b.FetchSource(context.Background()))
	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0], "git clone "+cfg.App.RepoURL)
}
