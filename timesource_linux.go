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

//go:build linux

package ringlog

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// currentCPUID returns the logical CPU the calling goroutine's underlying
// OS thread is currently running on, via sched_getcpu(2). Because Go
// goroutines migrate between OS threads, this is a best-effort hint, not
// a guarantee the producer stays pinned for the duration of Publish; it
// satisfies "the logical CPU where the producer ran" at timestamp time.
func currentCPUID() uint32 {
	var cpu int
	_, _, errno := unix.Syscall(unix.SYS_GETCPU, uintptr(unsafe.Pointer(&cpu)), 0, 0)
	if errno != 0 || cpu < 0 {
		return cpuIDUnknown
	}
	return uint32(cpu)
}
