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

import "sync/atomic"

// Monitor could emit some metrics with periodically. A ConsumerHandle's
// Run loop calls OnEmitConsumerMetrics on its first iteration and then at
// most once per metricsEmitInterval when a Config.Monitor is set.
type Monitor interface {
	// OnEmitConsumerMetrics was called by ConsumerHandle periodically.
	OnEmitConsumerMetrics(ConsumerMetrics, *ConsumerHandle)
	// Flush flushes any buffered metrics.
	Flush() error
}

// ConsumerMetrics is the metrics a consumer can observe about ring
// health without coordinating with producers, trimmed from the
// teacher's much larger session-level metrics down to what an MPSC
// ring exposes: throughput, loss, and occupancy.
type ConsumerMetrics struct {
	// PublishedCount is the ring-wide total of reservations that were not
	// dropped (head minus DroppedCount). A slot that is reserved but not
	// yet flagged valid is already counted.
	PublishedCount uint64
	// ConsumedCount is this consumer's running total of entries popped.
	ConsumedCount uint64
	// DroppedCount is the ring-wide total of publishes that found the
	// ring full at reservation time.
	DroppedCount uint64
	// EmptyPollCount is this consumer's running total of Pop calls that
	// found no entry ready.
	EmptyPollCount uint64
	// Occupancy is head - tail at the moment the metrics were sampled.
	Occupancy uint64
	// Capacity is the ring's fixed slot count.
	Capacity uint64
}

// consumerStats accumulates the counters a ConsumerHandle tracks
// locally (ConsumedCount, EmptyPollCount); PublishedCount and
// DroppedCount are read directly off the shared header at sample time.
type consumerStats struct {
	consumedCount  uint64
	emptyPollCount uint64
}

func (s *consumerStats) recordConsumed() {
	atomic.AddUint64(&s.consumedCount, 1)
}

func (s *consumerStats) recordEmptyPoll() {
	atomic.AddUint64(&s.emptyPollCount, 1)
}

func (s *consumerStats) snapshot() (consumed, emptyPolls uint64) {
	return atomic.LoadUint64(&s.consumedCount), atomic.LoadUint64(&s.emptyPollCount)
}

// sample builds a ConsumerMetrics from the ring's current header state
// and this consumer's local counters.
func (c *ConsumerHandle) sample() ConsumerMetrics {
	// dropped is loaded before head: a drop advances head before it bumps
	// the counter, so every drop counted here is already included in head.
	dropped := c.r.hdr.droppedCount()
	head := c.r.hdr.loadHead()
	tail := c.r.hdr.loadTail()
	consumed, emptyPolls := c.stats.snapshot()
	return ConsumerMetrics{
		PublishedCount: head - dropped,
		ConsumedCount:  consumed,
		DroppedCount:   dropped,
		EmptyPollCount: emptyPolls,
		Occupancy:      head - tail,
		Capacity:       c.geometry.Capacity,
	}
}
