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

//go:build linux || darwin

package ringlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// shmChannel maps a file under a shared-memory-backed filesystem
// (typically /dev/shm on Linux) that both producer and consumer
// processes open by path, following a create-vs-attach split and
// unmap/remove sequencing like the create/open queue-manager pair for a
// shared-memory-backed transport.
type shmChannel struct {
	mu      sync.Mutex
	path    string
	owner   bool // true if this side created (and removes) the backing file
	file    *os.File
	mem     []byte
	closed  bool
}

// createShmChannel creates and zero-fills a new backing file of size
// bytes at path. The caller is the ring's creator and owns removing the
// file on Close.
func createShmChannel(path string, size int) (*shmChannel, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ringlog: create channel dir: %w", err)
	}
	if pathExists(path) {
		return nil, fmt.Errorf("ringlog: channel path already exists: %s", path)
	}
	if !canCreateOnDevShm(uint64(size), path) {
		return nil, fmt.Errorf("%w: path=%s size=%d", ErrNoSpaceLeft, path, size)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("ringlog: open channel file: %w", err)
	}
	if err := unix.Ftruncate(int(f.Fd()), int64(size)); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("ringlog: truncate channel file: %w", err)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("ringlog: mmap channel file: %w", err)
	}
	for i := range mem {
		mem[i] = 0
	}

	return &shmChannel{path: path, owner: true, file: f, mem: mem}, nil
}

// openShmChannel maps an existing backing file created by
// createShmChannel elsewhere.
func openShmChannel(path string) (*shmChannel, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("ringlog: open channel file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ringlog: stat channel file: %w", err)
	}
	size := int(info.Size())
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ringlog: mmap channel file: %w", err)
	}
	return &shmChannel{path: path, owner: false, file: f, mem: mem}, nil
}

func (c *shmChannel) Bytes() []byte {
	return c.mem
}

func (c *shmChannel) Size() int {
	return len(c.mem)
}

func (c *shmChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrChannelClosed
	}
	c.closed = true

	var firstErr error
	if err := unix.Munmap(c.mem); err != nil {
		firstErr = err
		internalLogger.warnf("shmChannel munmap error: %s", err)
	}
	if err := c.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if c.owner {
		if err := os.Remove(c.path); err != nil {
			internalLogger.warnf("shmChannel remove %s failed: %s", c.path, err)
		}
	}
	return firstErr
}
