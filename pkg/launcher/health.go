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

package launcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	probeInterval = 500 * time.Millisecond
	watchInterval = time.Second
)

// WaitReady polls the server port until it accepts a TCP connection,
// racing against the launched process exiting early. It returns nil once
// the port is reachable, an explanatory error if the process died or the
// timeout elapsed.
func (l *Launcher) WaitReady(parent context.Context, pid int, timeout time.Duration) error {
	addr := net.JoinHostPort(l.probeHost(), strconv.Itoa(l.cfg.Server.Port))

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		ticker := time.NewTicker(probeInterval)
		defer ticker.Stop()
		for {
			conn, err := net.DialTimeout("tcp", addr, probeInterval)
			if err == nil {
				conn.Close()
				cancel()
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	})
	eg.Go(func() error {
		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()
		for {
			if !processAlive(pid) {
				return fmt.Errorf("server process %d exited during startup, check %s", pid, l.cfg.LogFilePath())
			}
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})

	err := eg.Wait()
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("server did not accept connections on %s within %s, check %s", addr, timeout, l.cfg.LogFilePath())
	}
	return err
}

// probeHost maps the wildcard bind address to loopback for dialing.
func (l *Launcher) probeHost() string {
	host := l.cfg.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		return "127.0.0.1"
	}
	return host
}
