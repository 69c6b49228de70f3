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
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// BuildPython downloads the configured CPython source archive, compiles it
// with optimizations on all cores, and installs it via `make altinstall` so
// the system interpreter is never replaced. Reruns rebuild from scratch;
// there is no skip-if-installed shortcut, only the same artifact again.
func (b *Bootstrap) BuildPython(ctx context.Context) error {
	version, err := b.cfg.PythonVersion()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(b.cfg.WorkDir, 0755); err != nil {
		return err
	}

	srcDir, err := filepath.Abs(filepath.Join(b.cfg.WorkDir, "Python-"+version.String()))
	if err != nil {
		return err
	}
	archivePath := srcDir + ".tgz"

	b.log.V(1).Info("downloading interpreter source", "url", b.cfg.PythonDownloadURL())
	if err := b.downloadArchive(ctx, b.cfg.PythonDownloadURL(), archivePath); err != nil {
		return fmt.Errorf("failed to download interpreter source: %w", err)
	}

	if err := extractTarball(archivePath, filepath.Dir(srcDir)); err != nil {
		return fmt.Errorf("failed to extract %s: %w", archivePath, err)
	}

	// exec resolves relative binaries against the process cwd, not cmd.Dir,
	// so the configure script needs its full path.
	configure := filepath.Join(srcDir, "configure")
	if err := b.runner.Run(ctx, srcDir, configure, "--enable-optimizations"); err != nil {
		return err
	}
	if err := b.runner.Run(ctx, srcDir, "make", "-j"+strconv.Itoa(runtime.NumCPU())); err != nil {
		return err
	}
	if err := b.privileged(ctx, srcDir, "make", "altinstall"); err != nil {
		return err
	}

	return b.VerifyPython(ctx)
}

// VerifyPython checks that the altinstall binary is on PATH and reports at
// least the configured version.
func (b *Bootstrap) VerifyPython(ctx context.Context) error {
	required, err := b.cfg.PythonVersion()
	if err != nil {
		return err
	}
	out, err := b.runner.Output(ctx, "", b.cfg.PythonCommand(), "--version")
	if err != nil {
		return fmt.Errorf("%s not runnable after install: %w", b.cfg.PythonCommand(), err)
	}
	installed, err := parsePythonVersion(out)
	if err != nil {
		return err
	}
	if installed.LessThan(required) {
		return fmt.Errorf("%s reports %s, need at least %s", b.cfg.PythonCommand(), installed, required)
	}
	b.log.V(1).Info("interpreter verified", "command", b.cfg.PythonCommand(), "version", installed.String())
	return nil
}

// parsePythonVersion extracts the semantic version from `python --version`
// output, e.g. "Python 3.10.12".
func parsePythonVersion(out string) (*semver.Version, error) {
	fields := strings.Fields(out)
	if len(fields) < 2 || fields[0] != "Python" {
		return nil, fmt.Errorf("unexpected interpreter version output %q", out)
	}
	v, err := semver.StrictNewVersion(fields[1])
	if err != nil {
		return nil, fmt.Errorf("unexpected interpreter version %q: %w", fields[1], err)
	}
	return v, nil
}

func (b *Bootstrap) downloadArchive(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return err
	}
	return out.Close()
}

// extractTarball unpacks a .tgz archive under dest, refusing entries that
// would escape it.
func extractTarball(archivePath, dest string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode).Perm()); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode).Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if filepath.IsAbs(hdr.Linkname) {
				return fmt.Errorf("archive entry %q links to absolute path %q", hdr.Name, hdr.Linkname)
			}
			if _, err := safeJoin(dest, filepath.Join(filepath.Dir(hdr.Name), hdr.Linkname)); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			_ = os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		}
	}
}

func safeJoin(dest, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("archive entry %q has an absolute path", name)
	}
	target := filepath.Join(dest, name)
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes the extraction directory", name)
	}
	return target, nil
}
