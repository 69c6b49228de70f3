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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectManifest(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		want     Manifest
		wantFile string
		wantErr  bool
	}{
		{
			name:     "requirements file",
			files:    map[string]string{"requirements.txt": "fastapi\nuvicorn\n"},
			want:     ManifestRequirements,
			wantFile: "requirements.txt",
		},
		{
			name: "requirements wins over pyproject",
			files: map[string]string{
				"requirements.txt": "fastapi\n",
				"pyproject.toml":   "[project]\nname = \"app\"\n",
			},
			want:     ManifestRequirements,
			wantFile: "requirements.txt",
		},
		{
			name:     "pep 621 pyproject",
			files:    map[string]string{"pyproject.toml": "[project]\nname = \"app\"\ndependencies = [\"fastapi\"]\n"},
			want:     ManifestPyproject,
			wantFile: "pyproject.toml",
		},
		{
			name:     "poetry pyproject",
			files:    map[string]string{"pyproject.toml": "[tool.poetry]\nname = \"app\"\n"},
			want:     ManifestPyproject,
			wantFile: "pyproject.toml",
		},
		{
			name:    "uninformative pyproject",
			files:   map[string]string{"pyproject.toml": "[tool.black]\nline-length = 88\n"},
			wantErr: true,
		},
		{
			name:    "invalid toml",
			files:   map[string]string{"pyproject.toml": "not [ valid"},
			wantErr: true,
		},
		{
			name:    "empty dir",
			files:   map[string]string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, contents := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644))
			}

			manifest, file, err := DetectManifest(dir, "requirements.txt")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, manifest)
			assert.Equal(t, tt.wantFile, file)
		})
	}
}
