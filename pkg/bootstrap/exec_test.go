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

//go:build !windows

package bootstrap

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both streams of a child process feed the same tail buffer from separate
// copy goroutines. Interleave heavy stdout and stderr output to catch
// unsynchronized writes under the race detector.
func TestRunVerboseInterleavedStreams(t *testing.T) {
	r := &execRunner{verbose: true}
	script := `for i in $(seq 1 200); do echo out$i; echo err$i 1>&2; done; exit 3`

	err := r.Run(context.Background(), t.TempDir(), "sh", "-c", script)
	require.Error(t, err)
	assert.ErrorContains(t, err, "exit status 3")
}

func TestTailBufferConcurrentWrites(t *testing.T) {
	tail := &tailBuffer{}
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				_, err := tail.Write([]byte("0123456789abcdef\n"))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	out := tail.String()
	assert.LessOrEqual(t, len(out), tailLimit)
	assert.True(t, strings.HasSuffix(out, "0123456789abcdef"))
}

func TestRunErrorCarriesTail(t *testing.T) {
	r := &execRunner{}
	err := r.Run(context.Background(), t.TempDir(), "sh", "-c", "echo it broke 1>&2; exit 1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "it broke")
	assert.ErrorContains(t, err, "sh -c")
}
