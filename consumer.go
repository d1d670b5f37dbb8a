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
	"context"
	"runtime"
	"time"

	"github.com/bytedance/gopkg/lang/dirtmake"
	"github.com/bytedance/gopkg/util/gopool"
)

// metricsEmitInterval is how often Run samples and reports metrics to a
// configured Monitor.
const metricsEmitInterval = time.Second

// ConsumerHandle is a live connection to a ring's consumer side. There is
// exactly one consumer per ring; ConsumerHandle is not safe to share
// across goroutines.
type ConsumerHandle struct {
	r          *ring
	geometry   Geometry
	spinBudget int
	monitor    Monitor
	stats      consumerStats
}

// Pop drains the next entry, if any. It returns (Entry{}, false) if the
// ring is empty or if a reserved-but-not-yet-published slot did not
// become valid within the bounded spin; in the latter case tail is left
// unchanged so a later Pop can still find it.
func (c *ConsumerHandle) Pop() (Entry, bool) {
	h := c.r.hdr
	tail := h.loadTail()
	head := h.loadHead()
	if tail == head {
		c.stats.recordEmptyPoll()
		return Entry{}, false
	}

	idx := tail & c.geometry.IdxMask
	slot := h.slot(idx)

	flags := slot.loadFlags()
	if flags&flagValid == 0 {
		spins := c.spinBudget
		if spins <= 0 {
			spins = defaultSpinBudget
		}
		for i := 0; i < spins; i++ {
			runtime.Gosched()
			flags = slot.loadFlags()
			if flags&flagValid != 0 {
				break
			}
		}
		if flags&flagValid == 0 {
			c.stats.recordEmptyPoll()
			return Entry{}, false
		}
	}

	raw := slot.read()
	slot.clearValid()
	h.storeTail(tail + 1)
	c.stats.recordConsumed()

	return Entry{
		Timestamp: raw.timestamp,
		EventID:   raw.eventID,
		CPUID:     raw.cpuID,
		Flags:     uint16(raw.flags),
		Data1:     raw.data1,
		Data2:     raw.data2,
	}, true
}

// PopBatch drains up to n ready entries at once, returning them as
// wire-format bytes rather than Entry values, for callers forwarding
// batches onward (a log shipper, a metrics aggregator) without needing
// to re-encode. The backing buffer is allocated with dirtmake.Bytes to
// skip the zero-fill Go normally performs, since every byte is about to
// be overwritten by appendBinary.
func (c *ConsumerHandle) PopBatch(n int) [][]byte {
	batch := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		e, ok := c.Pop()
		if !ok {
			break
		}
		buf := dirtmake.Bytes(0, int(entrySize))
		buf, _ = e.appendBinary(buf)
		batch = append(batch, buf)
	}
	return batch
}

// Run drains the ring in a background goroutine, calling fn for every
// entry popped, until ctx is done. It is a convenience loop built on Pop,
// supplementing the bare Pop primitive with the draining shape a real
// consumer actually uses.
func (c *ConsumerHandle) Run(ctx context.Context, fn func(Entry)) error {
	done := make(chan struct{})
	gopool.Go(func() {
		defer close(done)
		var lastEmit time.Time
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			e, ok := c.Pop()
			if !ok {
				runtime.Gosched()
			} else {
				fn(e)
			}
			if c.monitor != nil && time.Since(lastEmit) >= metricsEmitInterval {
				c.monitor.OnEmitConsumerMetrics(c.sample(), c)
				lastEmit = time.Now()
			}
		}
	})
	<-done
	if c.monitor != nil {
		if err := c.monitor.Flush(); err != nil {
			internalLogger.warnf("ringlog: monitor flush failed: %s", err)
		}
	}
	return ctx.Err()
}

// Geometry returns the cached geometry recorded at attach time.
func (c *ConsumerHandle) Geometry() Geometry {
	return c.geometry
}
