/*
 * Copyright 2023 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ringlog

import "sync"

// memChannel is a heap-backed Channel for same-process producer/consumer
// pairs and tests, where there is no real privilege boundary to cross.
// It implements the exact same byte layout a real mmap'd channel would,
// so producer and consumer code paths are identical either way.
type memChannel struct {
	mu     sync.Mutex
	mem    []byte
	closed bool
}

// newMemChannel allocates size zero-filled bytes.
func newMemChannel(size int) *memChannel {
	return &memChannel{mem: make([]byte, size)}
}

func (c *memChannel) Bytes() []byte {
	return c.mem
}

func (c *memChannel) Size() int {
	return len(c.mem)
}

func (c *memChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrChannelClosed
	}
	c.closed = true
	return nil
}
