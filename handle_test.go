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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.ChannelPath = filepath.Join(t.TempDir(), "ring")
	cfg.Capacity = 64
	cfg.CalibrationInterval = 5 * time.Millisecond
	return cfg
}

func Test_CreateThenAttachProducer(t *testing.T) {
	cfg := testConfig(t)

	consumer, err := CreateConsumer(cfg)
	assert.NoError(t, err)
	defer consumer.Detach()

	producer, err := AttachProducer(cfg)
	assert.NoError(t, err)
	defer producer.Detach()

	result, err := producer.Publish(7, 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, Published, result)

	e, ok := consumer.Pop()
	assert.True(t, ok)
	assert.Equal(t, uint32(7), e.EventID)
}

func Test_AttachProducerFailsWithoutExistingRing(t *testing.T) {
	cfg := testConfig(t)
	_, err := AttachProducer(cfg)
	assert.ErrorIs(t, err, ErrAttachFailed)
}

func Test_CreateProducerRejectsBadCapacity(t *testing.T) {
	cfg := testConfig(t)
	cfg.Capacity = 100
	_, err := CreateProducer(cfg)
	assert.ErrorIs(t, err, ErrAttachFailed)
}

func Test_DoubleDetachReturnsErrChannelClosed(t *testing.T) {
	cfg := testConfig(t)
	producer, err := CreateProducer(cfg)
	assert.NoError(t, err)

	assert.NoError(t, producer.Detach())
	assert.ErrorIs(t, producer.Detach(), ErrChannelClosed)
}
