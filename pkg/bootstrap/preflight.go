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
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/BapanBigData/hwapp/pkg/util"
)

var ErrMissingEnvFile = errors.New("missing environment file")

// Keys the app reads at runtime. Their absence only warns; the existence
// of the env file is the hard launch gate.
var RequiredEnvKeys = []string{
	"OPENAI_API_KEY",
	"GEOLOCATION_IQ_API_KEY",
	"AIR_QUALITY_API_KEY",
	"MONGO_USERNAME",
	"MONGO_PASSWORD",
	"DB_NAME",
	"COLLECTION_NAME",
}

// Preflight verifies the secrets file exists before committing to a launch.
// This is the one deliberate early-exit gate in the pipeline: starting the
// server without credentials would only fail later and less clearly.
func (b *Bootstrap) Preflight(ctx context.Context) error {
	envPath := b.cfg.EnvFilePath()
	if !util.FileExists(b.cfg.AppPath(), b.cfg.App.EnvFile) {
		return fmt.Errorf("%w at %s: supply the required API credentials (run `hwapp env init`) and retry",
			ErrMissingEnvFile, envPath)
	}

	envMap, err := godotenv.Read(envPath)
	if err != nil {
		return fmt.Errorf("unreadable environment file %s: %w", envPath, err)
	}
	for _, key := range MissingEnvKeys(envMap) {
		fmt.Fprintln(os.Stderr, util.WarnStyle.Render("WARNING: "+key+" is not set in "+envPath))
	}
	return nil
}

// MissingEnvKeys returns the required keys that are absent or empty.
func MissingEnvKeys(envMap map[string]string) []string {
	var missing []string
	for _, key := range RequiredEnvKeys {
		if envMap[key] == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// WriteEnvFile marshals values into dotenv format at path. An existing file
// is backed up alongside first.
func WriteEnvFile(path string, values map[string]string) error {
	contents, err := godotenv.Marshal(values)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		if err := util.CopyFile(path, path+".bak"); err != nil {
			return fmt.Errorf("failed to back up existing env file: %w", err)
		}
	}
	return os.WriteFile(path, []byte(contents+"\n"), 0600)
}
