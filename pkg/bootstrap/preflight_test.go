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

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BapanBigData/hwapp/pkg/config"
)

func preflightFixture(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.WorkDir = t.TempDir()
	require.NoError(t, os.Mkdir(cfg.AppPath(), 0755))
	return cfg
}

func TestPreflightMissingEnvFile(t *testing.T) {
	cfg := preflightFixture(t)
	b := New(cfg, WithRunner(&fakeRunner{}))

	err := b.Preflight(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingEnvFile)
	assert.ErrorContains(t, err, cfg.EnvFilePath())
}

func TestPreflightWithEnvFile(t *testing.T) {
	cfg := preflightFixture(t)
	require.NoError(t, os.WriteFile(cfg.EnvFilePath(), []byte("OPENAI_API_KEY=sk-test\n"), 0600))

	b := New(cfg, WithRunner(&fakeRunner{}))
	assert.NoError(t, b.Preflight(context.Background()))
}

func TestMissingEnvKeys(t *testing.T) {
	envMap := map[string]string{
		"OPENAI_API_KEY":         "sk-test",
		"GEOLOCATION_IQ_API_KEY": "",
	}
	missing := MissingEnvKeys(envMap)
	assert.NotContains(t, missing, "OPENAI_API_KEY")
	assert.Contains(t, missing, "GEOLOCATION_IQ_API_KEY")
	assert.Contains(t, missing, "MONGO_USERNAME")
	assert.Contains(t, missing, "MONGO_PASSWORD")
	assert.Contains(t, missing, "DB_NAME")
	assert.Contains(t, missing, "COLLECTION_NAME")
	assert.NotContains(t, missing, "SUPABASE_URL")
}

func TestWriteEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	require.NoError(t, WriteEnvFile(path, map[string]string{
		"OPENAI_API_KEY": "sk-test",
		"MONGO_USERNAME": "wellness",
	}))

	envMap, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", envMap["OPENAI_API_KEY"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// overwrite creates a backup of the previous contents
	require.NoError(t, WriteEnvFile(path, map[string]string{"OPENAI_API_KEY": "sk-new"}))
	backup, err := godotenv.Read(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", backup["OPENAI_API_KEY"])
}
