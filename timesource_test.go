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
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_NowCyclesMonotonic(t *testing.T) {
	a := nowCycles()
	time.Sleep(time.Millisecond)
	b := nowCycles()
	assert.Greater(t, b, a)
}

func Test_Calibrate(t *testing.T) {
	cyclesPerUs, err := Calibrate(20 * time.Millisecond)
	assert.NoError(t, err)
	// with nanoseconds-as-cycles, cyclesPerUs is always 1000
	assert.Equal(t, uint64(1000), cyclesPerUs)
}

func Test_CyclesToMicrosRoundTrip(t *testing.T) {
	cyclesPerUs := uint64(1000)
	micros := uint64(42)
	cycles := MicrosToCycles(micros, cyclesPerUs)
	assert.Equal(t, micros, CyclesToMicros(cycles, cyclesPerUs))
}

func Test_CyclesToNanos(t *testing.T) {
	cyclesPerUs := uint64(1000)
	assert.Equal(t, uint64(5), CyclesToNanos(5, cyclesPerUs))
}

func Test_CyclesToSeconds(t *testing.T) {
	cyclesPerUs := uint64(1000)
	d := CyclesToSeconds(1_000_000_000, cyclesPerUs)
	assert.Equal(t, time.Second, d)
}

func Test_CurrentCPUIDNeverPanics(t *testing.T) {
	// on unsupported platforms this returns cpuIDUnknown; on Linux it
	// returns a real logical CPU id or cpuIDUnknown on error, but must
	// never panic either way.
	assert.NotPanics(t, func() { currentCPUID() })
}
