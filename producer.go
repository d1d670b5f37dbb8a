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

// PublishResult is the outcome of one Publish call. It is a value, not an
// error, because Dropped is a normal steady-state outcome that must not
// allocate or log.
type PublishResult uint8

const (
	// Published means the entry was reserved and published successfully.
	Published PublishResult = iota
	// Dropped means the ring was full at reservation time; the slot was
	// abandoned and DroppedCount was incremented.
	Dropped
)

// ProducerHandle is a live connection to a ring's producer side.
// Producer handles are safe to share across goroutines: the fetch-add
// reservation in publish gives every caller wait-free, non-blocking
// progress regardless of contention.
type ProducerHandle struct {
	r        *ring
	geometry Geometry
	kernel   bool
}

// Publish reserves a slot, timestamps and writes the payload, and
// publishes it with a release store. It never blocks and never
// allocates.
func (p *ProducerHandle) Publish(eventID uint32, data1, data2 uint64) (PublishResult, error) {
	h := p.r.hdr
	head := h.addHead(1)

	tail := h.loadTail()
	if head-tail >= p.geometry.Capacity {
		h.incDropped()
		return Dropped, nil
	}

	idx := head & p.geometry.IdxMask
	cycles, cpuID := nowCyclesSerialized()

	flags := flagValid
	if p.kernel {
		flags |= flagKernel
	}

	h.slot(idx).publish(rawEntry{
		timestamp: cycles,
		eventID:   eventID,
		cpuID:     cpuID,
		data1:     data1,
		data2:     data2,
	}, flags)

	return Published, nil
}

// DroppedCount returns the ring's monotonic total of dropped publishes;
// the producer's caller is responsible for polling this if it wants to
// observe loss.
func (p *ProducerHandle) DroppedCount() uint64 {
	return p.r.hdr.droppedCount()
}

// Geometry returns the cached geometry recorded at attach time.
func (p *ProducerHandle) Geometry() Geometry {
	return p.geometry
}
