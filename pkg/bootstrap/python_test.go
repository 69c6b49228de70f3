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
	"archive/tar"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BapanBigData/hwapp/pkg/config"
)

func TestParsePythonVersion(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    string
		wantErr bool
	}{
		{"standard", "Python 3.10.12", "3.10.12", false},
		{"newer patch", "Python 3.10.14", "3.10.14", false},
		{"empty", "", "", true},
		{"not python", "OpenSSL 3.0.2", "", true},
		{"garbage version", "Python three", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := parsePythonVersion(tt.out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestVerifyPython(t *testing.T) {
	cfg := config.Default()

	t.Run("exact version", func(t *testing.T) {
		runner := &fakeRunner{outputs: map[string]string{"python3.10 --version": "Python 3.10.12"}}
		b := New(cfg, WithRunner(runner))
		require.NoError(t, b.VerifyPython(context.Background()))
	})

	t.Run("newer patch accepted", func(t *testing.T) {
		runner := &fakeRunner{outputs: map[string]string{"python3.10 --version": "Python 3.10.14"}}
		b := New(cfg, WithRunner(runner))
		require.NoError(t, b.VerifyPython(context.Background()))
	})

	t.Run("older rejected", func(t *testing.T) {
		runner := &fakeRunner{outputs: map[string]string{"python3.10 --version": "Python 3.10.4"}}
		b := New(cfg, WithRunner(runner))
		assert.Error(t, b.VerifyPython(context.Background()))
	})
}

func writeTarball(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for name, contents := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0644,
			Size:     int64(len(contents)),
			Typeflag: tar.TypeReg,
		}))
		_, err = tw.Write([]byte(contents))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
}

func TestExtractTarball(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "src.tgz")
	writeTarball(t, archive, map[string]string{
		"Python-3.10.12/README":    "readme",
		"Python-3.10.12/Lib/os.py": "# os",
		"Python-3.10.12/configure": "#!/bin/sh",
	})

	require.NoError(t, extractTarball(archive, dir))

	data, err := os.ReadFile(filepath.Join(dir, "Python-3.10.12", "Lib", "os.py"))
	require.NoError(t, err)
	assert.Equal(t, "# os", string(data))
}

func TestExtractTarballRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.tgz")
	writeTarball(t, archive, map[string]string{
		"../escape.txt": "nope",
	})

	err := extractTarball(archive, filepath.Join(dir, "out"))
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "escape.txt"))
}

func writeSymlinkTarball(t *testing.T, path, name, linkname string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     name,
		Linkname: linkname,
		Mode:     0777,
		Typeflag: tar.TypeSymlink,
	}))
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
}

func TestExtractTarballSymlinks(t *testing.T) {
	t.Run("relative link inside tree", func(t *testing.T) {
		dir := t.TempDir()
		archive := filepath.Join(dir, "src.tgz")
		writeSymlinkTarball(t, archive, "bin/python3", "python3.10")

		require.NoError(t, extractTarball(archive, dir))
		link, err := os.Readlink(filepath.Join(dir, "bin", "python3"))
		require.NoError(t, err)
		assert.Equal(t, "python3.10", link)
	})

	t.Run("escaping link rejected", func(t *testing.T) {
		dir := t.TempDir()
		archive := filepath.Join(dir, "evil.tgz")
		writeSymlinkTarball(t, archive, "lib/evil", "../../outside")

		assert.Error(t, extractTarball(archive, filepath.Join(dir, "out")))
	})

	t.Run("absolute link rejected", func(t *testing.T) {
		dir := t.TempDir()
		archive := filepath.Join(dir, "evil.tgz")
		writeSymlinkTarball(t, archive, "bin/sh", "/bin/sh")

		err := extractTarball(archive, filepath.Join(dir, "out"))
		assert.ErrorContains(t, err, "absolute")
	})
}

func TestSafeJoin(t *testing.T) {
	_, err := safeJoin("/tmp/work", "/etc/passwd")
	assert.Error(t, err)

	_, err = safeJoin("/tmp/work", "../../etc/passwd")
	assert.Error(t, err)

	p, err := safeJoin("/tmp/work", "Python-3.10.12/setup.py")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/work", "Python-3.10.12", "setup.py"), p)
}
