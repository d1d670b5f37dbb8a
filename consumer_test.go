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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_ConsumerRunDrainsUntilCancel(t *testing.T) {
	producer, consumer, err := newInProcessPair(64, false, 10)
	assert.NoError(t, err)

	const total = 50
	for i := 0; i < total; i++ {
		_, err := producer.Publish(uint32(i), 0, 0)
		assert.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var got []uint32
	err = consumer.Run(ctx, func(e Entry) {
		got = append(got, e.EventID)
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, total, len(got))
	for i, id := range got {
		assert.Equal(t, uint32(i), id)
	}
}

func Test_PopBatchStopsAtFirstEmpty(t *testing.T) {
	producer, consumer, err := newInProcessPair(16, false, 10)
	assert.NoError(t, err)

	_, err = producer.Publish(1, 0, 0)
	assert.NoError(t, err)
	_, err = producer.Publish(2, 0, 0)
	assert.NoError(t, err)

	batch := consumer.PopBatch(5)
	assert.Len(t, batch, 2)
	for _, b := range batch {
		assert.Len(t, b, int(entrySize))
	}
}

func Test_PopSpinsOnReservedButUnpublishedSlot(t *testing.T) {
	producer, consumer, err := newInProcessPair(4, false, 5)
	assert.NoError(t, err)

	// Reserve slot 0 the way Publish's fetch-add does, but stop short of
	// calling publish, simulating a producer paused between reservation
	// and release-store.
	head := producer.r.hdr.addHead(1)
	assert.Equal(t, uint64(0), head)

	e, ok := consumer.Pop()
	assert.False(t, ok)
	assert.Equal(t, Entry{}, e)
	assert.Equal(t, uint64(0), consumer.r.hdr.loadTail())

	// Publish the reserved slot now; a later Pop must find it and advance
	// tail, since the earlier spin-and-give-up left tail untouched.
	idx := head & consumer.geometry.IdxMask
	consumer.r.hdr.slot(idx).publish(rawEntry{timestamp: 1, eventID: 42, data1: 7}, flagValid)

	e, ok = consumer.Pop()
	assert.True(t, ok)
	assert.Equal(t, uint32(42), e.EventID)
	assert.Equal(t, uint64(7), e.Data1)
	assert.Equal(t, uint64(1), consumer.r.hdr.loadTail())
}

func Test_ConsumerMetricsSample(t *testing.T) {
	producer, consumer, err := newInProcessPair(16, false, 10)
	assert.NoError(t, err)

	_, err = producer.Publish(1, 0, 0)
	assert.NoError(t, err)
	_, ok := consumer.Pop()
	assert.True(t, ok)
	_, ok = consumer.Pop()
	assert.False(t, ok)

	m := consumer.sample()
	assert.Equal(t, uint64(1), m.PublishedCount)
	assert.Equal(t, uint64(1), m.ConsumedCount)
	assert.Equal(t, uint64(1), m.EmptyPollCount)
	assert.Equal(t, uint64(0), m.Occupancy)
	assert.Equal(t, uint64(16), m.Capacity)
}
