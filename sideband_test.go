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

func Test_SidebandGetGeometry(t *testing.T) {
	producer, _, err := newInProcessPair(32, false, 10)
	assert.NoError(t, err)

	sb := newRingSideband(producer.r, 1000)
	g, err := sb.GetGeometry()
	assert.NoError(t, err)
	assert.Equal(t, uint64(32), g.Capacity)
}

func Test_SidebandGetCyclesPerMicrosecondUncalibrated(t *testing.T) {
	producer, _, err := newInProcessPair(32, false, 10)
	assert.NoError(t, err)

	sb := newRingSideband(producer.r, 0)
	_, err = sb.GetCyclesPerMicrosecond()
	assert.ErrorIs(t, err, ErrCalibrationFailed)
}

func Test_SidebandGetCyclesPerMicrosecondCalibrated(t *testing.T) {
	producer, _, err := newInProcessPair(32, false, 10)
	assert.NoError(t, err)

	sb := newRingSideband(producer.r, 2500)
	v, err := sb.GetCyclesPerMicrosecond()
	assert.NoError(t, err)
	assert.Equal(t, uint64(2500), v)
}

func Test_SidebandResetClean(t *testing.T) {
	producer, consumer, err := newInProcessPair(8, false, 10)
	assert.NoError(t, err)

	_, err = producer.Publish(1, 0, 0)
	assert.NoError(t, err)
	_, ok := consumer.Pop()
	assert.True(t, ok)

	sb := consumer.Sideband()
	_, err = sb.GetGeometry()
	assert.NoError(t, err)

	err = sb.Reset()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), producer.r.hdr.loadHead())
}

func Test_SidebandResetDetectsLiveProducer(t *testing.T) {
	producer, consumer, err := newInProcessPair(8, false, 10)
	assert.NoError(t, err)

	sb := consumer.Sideband()
	_, err = sb.GetGeometry()
	assert.NoError(t, err)

	// simulate a producer publishing after the caller believed it had quiesced
	_, err = producer.Publish(1, 0, 0)
	assert.NoError(t, err)

	err = sb.Reset()
	assert.ErrorIs(t, err, ErrResetWithLiveProducers)
}
