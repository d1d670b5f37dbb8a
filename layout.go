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
	"sync/atomic"
	"unsafe"
)

// Geometry describes a ring's shape as reported by the control sideband's
// GetGeometry call. It is read once per connection and cached by the
// producer/consumer handle.
type Geometry struct {
	Capacity          uint64
	IdxMask           uint64
	ShmSizeUnaligned  uint64
	ShmSizeAligned    uint64
}

// ringHeader is overlaid on the first controlHeaderSize bytes of the
// mapped region via unsafe.Pointer, the way
// markrussinovich-grpc-go-shmem's SegmentHeader/ringView overlay a typed
// struct on raw mmap'd bytes. head, tail and the metadata quintet each
// live on their own cache line to avoid false sharing between the
// producer-hot, consumer-hot and mostly-read-metadata regions.
type ringHeader struct {
	head uint64
	_    [cacheLineSize - 8]byte

	tail uint64
	_    [cacheLineSize - 8]byte

	shmSizeUnaligned uint64
	shmSizeAligned   uint64
	capacity         uint64
	idxMask          uint64
	droppedCount     uint64
	_                [cacheLineSize - 5*8]byte
}

// controlHeaderSize is the byte offset at which the entry array begins;
// it is already a multiple of the cache line by construction above.
const controlHeaderSize = unsafe.Sizeof(ringHeader{})

// headerView overlays a ringHeader on top of a mapped byte slice and
// exposes atomic accessors. All fields underneath are plain integers in
// the layout: atomicity is imposed by the accessors, not by the type
// declaration in the shared struct.
type headerView struct {
	hdr *ringHeader
	mem []byte
}

func newHeaderView(mem []byte) *headerView {
	if len(mem) < int(controlHeaderSize) {
		panic("ringlog: mapped region smaller than control header")
	}
	return &headerView{
		hdr: (*ringHeader)(unsafe.Pointer(&mem[0])),
		mem: mem,
	}
}

func (h *headerView) loadHead() uint64 { return atomic.LoadUint64(&h.hdr.head) }
func (h *headerView) addHead(delta uint64) uint64 {
	return atomic.AddUint64(&h.hdr.head, delta) - delta
}
func (h *headerView) loadTail() uint64          { return atomic.LoadUint64(&h.hdr.tail) }
func (h *headerView) storeTail(v uint64)        { atomic.StoreUint64(&h.hdr.tail, v) }
func (h *headerView) capacity() uint64          { return atomic.LoadUint64(&h.hdr.capacity) }
func (h *headerView) idxMask() uint64           { return atomic.LoadUint64(&h.hdr.idxMask) }
func (h *headerView) shmSizeUnaligned() uint64  { return atomic.LoadUint64(&h.hdr.shmSizeUnaligned) }
func (h *headerView) shmSizeAligned() uint64    { return atomic.LoadUint64(&h.hdr.shmSizeAligned) }
func (h *headerView) droppedCount() uint64      { return atomic.LoadUint64(&h.hdr.droppedCount) }
func (h *headerView) incDropped()               { atomic.AddUint64(&h.hdr.droppedCount, 1) }

func (h *headerView) geometry() Geometry {
	return Geometry{
		Capacity:         h.capacity(),
		IdxMask:          h.idxMask(),
		ShmSizeUnaligned: h.shmSizeUnaligned(),
		ShmSizeAligned:   h.shmSizeAligned(),
	}
}

// initGeometry writes the once-only metadata fields; the caller must hold
// exclusive access (ring creation, before any producer attaches).
func (h *headerView) initGeometry(capacity uint64, shmSizeUnaligned, shmSizeAligned uint64) {
	atomic.StoreUint64(&h.hdr.capacity, capacity)
	atomic.StoreUint64(&h.hdr.idxMask, capacity-1)
	atomic.StoreUint64(&h.hdr.shmSizeUnaligned, shmSizeUnaligned)
	atomic.StoreUint64(&h.hdr.shmSizeAligned, shmSizeAligned)
}

// reset atomically re-zeroes head, tail, dropped count and every slot's
// VALID bit. Callers must externally quiesce producers first; this
// function does not attempt to detect a live producer, that check lives
// in Sideband.Reset.
func (h *headerView) reset() {
	atomic.StoreUint64(&h.hdr.head, 0)
	atomic.StoreUint64(&h.hdr.tail, 0)
	atomic.StoreUint64(&h.hdr.droppedCount, 0)
	cap := h.capacity()
	for i := uint64(0); i < cap; i++ {
		h.slot(i).clearValid()
	}
}

// slot returns an accessor for the entry at ring index i (already masked
// by the caller, or in [0, capacity)).
func (h *headerView) slot(i uint64) *slotView {
	off := controlHeaderSize + uintptr(i)*entrySize
	return &slotView{raw: (*rawEntry)(unsafe.Pointer(&h.mem[off]))}
}

// slotView is an accessor for one entry's storage inside the mapped
// region. Payload fields are written with plain stores; the flags word
// is the sole atomically-accessed field, carrying the single
// release-store publication contract.
type slotView struct {
	raw *rawEntry
}

func (s *slotView) loadFlags() uint32 { return atomic.LoadUint32(&s.raw.flags) }

// publish writes the payload with plain stores and then release-stores
// the flags word in one atomic operation, so that a reader observing
// FlagValid via an acquire load also observes every prior payload write,
// and never observes a stale flags word from a previous generation,
// since a single atomic store replaces all 32 bits at once rather than
// merging with the old value.
func (s *slotView) publish(e rawEntry, flags uint32) {
	s.raw.timestamp = e.timestamp
	s.raw.eventID = e.eventID
	s.raw.cpuID = e.cpuID
	s.raw.data1 = e.data1
	s.raw.data2 = e.data2
	atomic.StoreUint32(&s.raw.flags, flags&^flagsReservedMask)
}

// clearValid advisory-clears the VALID bit after consumption; optional
// but kept for debuggability.
func (s *slotView) clearValid() {
	atomic.StoreUint32(&s.raw.flags, 0)
}

// read copies the payload fields out by value. Callers must have already
// confirmed FlagValid via loadFlags with acquire semantics.
func (s *slotView) read() rawEntry {
	return rawEntry{
		timestamp: s.raw.timestamp,
		eventID:   s.raw.eventID,
		cpuID:     s.raw.cpuID,
		flags:     atomic.LoadUint32(&s.raw.flags),
		data1:     s.raw.data1,
		data2:     s.raw.data2,
	}
}

// isPowerOfTwo reports whether n is a power of two and at least 2, the
// required shape for a ring's capacity.
func isPowerOfTwo(n uint64) bool {
	return n >= 2 && n&(n-1) == 0
}

// alignUp rounds size up to the next multiple of align, which must be a
// power of two.
func alignUp(size, align uintptr) uintptr {
	return (size + align - 1) &^ (align - 1)
}
