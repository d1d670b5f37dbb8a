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

// Channel is an opaque shared-memory channel: a byte-addressable region
// visible to both producer and consumer. How the
// bytes are actually shared — mmap'd file, memfd, or plain process
// memory for a same-process pair — is the external collaborator the core
// ring protocol does not concern itself with.
type Channel interface {
	// Bytes returns the mapped region. The returned slice is valid until
	// Close.
	Bytes() []byte
	// Size returns len(Bytes()).
	Size() int
	// Close releases the channel's resources. Safe to call more than
	// once; calls after the first return ErrChannelClosed.
	Close() error
}
