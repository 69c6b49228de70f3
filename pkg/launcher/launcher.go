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

// Package launcher starts and manages the uvicorn server process. The
// server is detached from the launching terminal and tracked through a pid
// file; combined stdout/stderr goes to a single log file.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-logr/logr"

	"github.com/BapanBigData/hwapp/pkg/config"
	"github.com/BapanBigData/hwapp/pkg/logger"
)

var ErrNotRunning = errors.New("server is not running")

type Launcher struct {
	cfg *config.Config
	log logr.Logger
}

func New(cfg *config.Config) *Launcher {
	return &Launcher{
		cfg: cfg,
		log: logger.GetLogger().WithName("launcher"),
	}
}

// Command returns the uvicorn binary path and arguments used to launch the
// server, without running anything.
func (l *Launcher) Command() (string, []string, error) {
	appDir, err := filepath.Abs(l.cfg.AppPath())
	if err != nil {
		return "", nil, err
	}
	uvicorn := filepath.Join(appDir, l.cfg.App.VenvDir, "bin", "uvicorn")
	args := []string{
		l.cfg.Server.AppModule,
		"--host", l.cfg.Server.Host,
		"--port", strconv.Itoa(l.cfg.Server.Port),
	}
	return uvicorn, args, nil
}

// Start launches the server detached from the controlling terminal, with
// stdout and stderr redirected into a freshly truncated log file. It does
// not take a context: the child must outlive the invoking process, so
// cancellation never applies to it. Returns the child pid.
func (l *Launcher) Start() (int, error) {
	if pid, running, _ := l.Status(); running {
		return pid, fmt.Errorf("server already running with pid %d", pid)
	}

	uvicorn, args, err := l.Command()
	if err != nil {
		return 0, err
	}
	if _, err := os.Stat(uvicorn); err != nil {
		return 0, fmt.Errorf("uvicorn not found at %s: run `hwapp setup venv` first", uvicorn)
	}

	logFile, err := os.Create(l.cfg.LogFilePath())
	if err != nil {
		return 0, fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	appDir, err := filepath.Abs(l.cfg.AppPath())
	if err != nil {
		return 0, err
	}
	cmd := exec.Command(uvicorn, args...)
	cmd.Dir = appDir
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = detachAttr()

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start server: %w", err)
	}

	pid := cmd.Process.Pid
	if err := writePidFile(l.cfg.PidFilePath(), pid); err != nil {
		return pid, err
	}
	// Drop the handle so the child is fully detached; we never wait on it.
	if err := cmd.Process.Release(); err != nil {
		return pid, err
	}

	l.log.V(1).Info("server started", "pid", pid, "log", l.cfg.LogFilePath())
	return pid, nil
}

// Stop signals the tracked server process with SIGTERM and removes the pid
// file. A stale pid file (process already gone) is cleaned up.
func (l *Launcher) Stop() error {
	pid, err := readPidFile(l.cfg.PidFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotRunning
		}
		return err
	}

	if !processAlive(pid) {
		_ = os.Remove(l.cfg.PidFilePath())
		return fmt.Errorf("%w: removed stale pid file for pid %d", ErrNotRunning, pid)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal pid %d: %w", pid, err)
	}
	return os.Remove(l.cfg.PidFilePath())
}

// Status reports the tracked pid and whether that process is alive.
func (l *Launcher) Status() (int, bool, error) {
	pid, err := readPidFile(l.cfg.PidFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return pid, processAlive(pid), nil
}

// TailLogs copies the server log to w. With follow set it keeps polling the
// file for new output until ctx is done.
func (l *Launcher) TailLogs(ctx context.Context, w io.Writer, follow bool) error {
	f, err := os.Open(l.cfg.LogFilePath())
	if err != nil {
		return fmt.Errorf("no log file yet at %s: %w", l.cfg.LogFilePath(), err)
	}
	defer f.Close()

	for {
		if _, err := io.Copy(w, f); err != nil {
			return err
		}
		if !follow {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0644)
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid pid file %s: %w", path, err)
	}
	return pid, nil
}
