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

// Package logger provides a process-wide logr.Logger writing to stderr.
// User-facing CLI output goes through fmt directly; this logger carries
// diagnostic detail enabled by the --verbose flag.
package logger

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

const debugLevel = 1

var log = logr.Discard()

// Init configures the package logger. When verbose is false only warnings
// and errors are emitted.
func Init(name string, verbose bool) {
	verbosity := 0
	if verbose {
		verbosity = debugLevel
	}
	log = funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
		} else {
			fmt.Fprintln(os.Stderr, args)
		}
	}, funcr.Options{Verbosity: verbosity}).WithName(name)
}

func GetLogger() logr.Logger {
	return log
}
