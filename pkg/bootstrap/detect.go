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
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/BapanBigData/hwapp/pkg/util"
)

type Manifest string

const (
	ManifestRequirements Manifest = "requirements"
	ManifestPyproject    Manifest = "pyproject"
	ManifestUnknown      Manifest = "unknown"
)

// DetectManifest determines how the checkout declares its dependencies.
// A requirements file wins over pyproject.toml, matching what the app
// actually ships.
func DetectManifest(dir, requirementsName string) (Manifest, string, error) {
	if util.FileExists(dir, requirementsName) {
		return ManifestRequirements, requirementsName, nil
	}

	if util.FileExists(dir, "pyproject.toml") {
		data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
		if err != nil {
			return ManifestUnknown, "", err
		}
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return ManifestUnknown, "", fmt.Errorf("invalid pyproject.toml: %w", err)
		}
		if _, ok := doc["project"]; ok {
			return ManifestPyproject, "pyproject.toml", nil
		}
		if tool, ok := doc["tool"].(map[string]any); ok {
			if _, hasPoetry := tool["poetry"]; hasPoetry {
				return ManifestPyproject, "pyproject.toml", nil
			}
		}
		return ManifestUnknown, "", fmt.Errorf("pyproject.toml declares no project or poetry section")
	}

	return ManifestUnknown, "", fmt.Errorf("no %s or pyproject.toml found in %s", requirementsName, dir)
}
