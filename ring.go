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

import "fmt"

// ring binds a Channel's bytes to the header/entry layout described in
// layout.go. It has no notion of "producer" or "consumer" role; those
// live in producer.go/consumer.go as thin wrappers that call through a
// ring's headerView.
type ring struct {
	channel Channel
	hdr     *headerView
}

// shmSize computes the unaligned and cache-line-aligned total byte size
// of a ring with the given capacity.
func shmSize(capacity uint64) (unaligned, aligned uint64) {
	unaligned = uint64(controlHeaderSize) + capacity*uint64(entrySize)
	aligned = uint64(alignUp(uintptr(unaligned), cacheLineSize))
	return unaligned, aligned
}

// newRing creates a fresh ring of the given capacity inside channel,
// which must already be sized to at least the aligned size shmSize
// reports. The region is assumed zero-filled; newRing writes the
// once-only geometry fields.
func newRing(channel Channel, capacity uint64) (*ring, error) {
	if !isPowerOfTwo(capacity) {
		return nil, ErrCapacityInvalid
	}
	unaligned, aligned := shmSize(capacity)
	if uint64(channel.Size()) < aligned {
		return nil, fmt.Errorf("%w: have %d want %d", ErrChannelTooSmall, channel.Size(), aligned)
	}
	hdr := newHeaderView(channel.Bytes())
	hdr.initGeometry(capacity, unaligned, aligned)
	return &ring{channel: channel, hdr: hdr}, nil
}

// openRing maps an existing ring's already-initialized geometry out of
// channel without rewriting it.
func openRing(channel Channel) (*ring, error) {
	if channel.Size() < int(controlHeaderSize) {
		return nil, ErrChannelTooSmall
	}
	hdr := newHeaderView(channel.Bytes())
	cap := hdr.capacity()
	if !isPowerOfTwo(cap) {
		return nil, fmt.Errorf("%w: capacity=%d", ErrGeometryMismatch, cap)
	}
	_, aligned := shmSize(cap)
	if uint64(channel.Size()) < aligned {
		return nil, fmt.Errorf("%w: have %d want %d", ErrChannelTooSmall, channel.Size(), aligned)
	}
	return &ring{channel: channel, hdr: hdr}, nil
}

func (r *ring) geometry() Geometry {
	return r.hdr.geometry()
}

func (r *ring) close() error {
	return r.channel.Close()
}
