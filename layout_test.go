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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_IsPowerOfTwo(t *testing.T) {
	assert.False(t, isPowerOfTwo(0))
	assert.False(t, isPowerOfTwo(1))
	assert.True(t, isPowerOfTwo(2))
	assert.True(t, isPowerOfTwo(1024))
	assert.False(t, isPowerOfTwo(1023))
}

func Test_AlignUp(t *testing.T) {
	assert.Equal(t, uintptr(64), alignUp(1, 64))
	assert.Equal(t, uintptr(64), alignUp(64, 64))
	assert.Equal(t, uintptr(128), alignUp(65, 64))
}

func Test_HeaderViewInitAndGeometry(t *testing.T) {
	capacity := uint64(64)
	unaligned, aligned := shmSize(capacity)
	mem := make([]byte, aligned)
	hdr := newHeaderView(mem)
	hdr.initGeometry(capacity, unaligned, aligned)

	g := hdr.geometry()
	assert.Equal(t, capacity, g.Capacity)
	assert.Equal(t, capacity-1, g.IdxMask)
	assert.Equal(t, unaligned, g.ShmSizeUnaligned)
	assert.Equal(t, aligned, g.ShmSizeAligned)
}

func Test_HeaderViewHeadTail(t *testing.T) {
	capacity := uint64(8)
	_, aligned := shmSize(capacity)
	mem := make([]byte, aligned)
	hdr := newHeaderView(mem)
	hdr.initGeometry(capacity, 0, aligned)

	assert.Equal(t, uint64(0), hdr.loadHead())
	prev := hdr.addHead(1)
	assert.Equal(t, uint64(0), prev)
	assert.Equal(t, uint64(1), hdr.loadHead())

	hdr.storeTail(1)
	assert.Equal(t, uint64(1), hdr.loadTail())
}

func Test_SlotPublishAndRead(t *testing.T) {
	capacity := uint64(4)
	_, aligned := shmSize(capacity)
	mem := make([]byte, aligned)
	hdr := newHeaderView(mem)
	hdr.initGeometry(capacity, 0, aligned)

	slot := hdr.slot(0)
	assert.Equal(t, uint32(0), slot.loadFlags())

	slot.publish(rawEntry{timestamp: 100, eventID: 7, cpuID: 1, data1: 2, data2: 3}, flagValid)
	assert.Equal(t, flagValid, slot.loadFlags())

	raw := slot.read()
	assert.Equal(t, uint64(100), raw.timestamp)
	assert.Equal(t, uint32(7), raw.eventID)

	slot.clearValid()
	assert.Equal(t, uint32(0), slot.loadFlags())
}

func Test_HeaderViewReset(t *testing.T) {
	capacity := uint64(4)
	_, aligned := shmSize(capacity)
	mem := make([]byte, aligned)
	hdr := newHeaderView(mem)
	hdr.initGeometry(capacity, 0, aligned)

	hdr.addHead(3)
	hdr.storeTail(1)
	hdr.incDropped()
	hdr.slot(0).publish(rawEntry{}, flagValid)

	hdr.reset()
	assert.Equal(t, uint64(0), hdr.loadHead())
	assert.Equal(t, uint64(0), hdr.loadTail())
	assert.Equal(t, uint64(0), hdr.droppedCount())
	assert.Equal(t, uint32(0), hdr.slot(0).loadFlags())
}
