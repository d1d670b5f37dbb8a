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
	"time"
)

// processStart anchors nowCycles' monotonic counter; every reading is a
// nanosecond offset from this instant, so it never wraps within any
// realistic process lifetime and never requires reading a hardware
// register.
var processStart = time.Now()

// nowCycles reads the "cycle counter" with no serialization: a monotonic
// nanosecond count since process start. This is the "always cycles"
// time-source policy, a single simpler alternative to raw TSC reads, as
// long as producer and consumer agree; see DESIGN.md for why this module
// picks nanoseconds over hand-rolled RDTSC assembly.
func nowCycles() uint64 {
	return uint64(time.Since(processStart))
}

// nowCyclesSerialized reads the cycle counter together with the calling
// producer's logical CPU id; calibration and every Publish use it.
// cpuID resolution is
// platform-specific; see timesource_linux.go / timesource_other.go.
func nowCyclesSerialized() (cycles uint64, cpuID uint32) {
	return nowCycles(), currentCPUID()
}

// Calibrate measures cyclesPerUs by sleeping for interval and comparing
// cycle-counter deltas against the wall clock. It returns
// ErrCalibrationFailed if the measured interval was non-positive.
func Calibrate(interval time.Duration) (uint64, error) {
	if interval <= 0 {
		interval = defaultCalibrationInterval
	}
	startCycles, _ := nowCyclesSerialized()
	startWall := time.Now()
	time.Sleep(interval)
	endCycles, _ := nowCyclesSerialized()
	endWall := time.Now()

	elapsedNs := endWall.Sub(startWall).Nanoseconds()
	if elapsedNs <= 0 {
		return 0, ErrCalibrationFailed
	}
	elapsedCycles := endCycles - startCycles
	elapsedUs := float64(elapsedNs) / 1000.0
	cyclesPerUs := uint64(roundNearest(float64(elapsedCycles) / elapsedUs))
	if cyclesPerUs == 0 {
		return 0, ErrCalibrationFailed
	}
	return cyclesPerUs, nil
}

func roundNearest(f float64) float64 {
	if f < 0 {
		return -roundNearest(-f)
	}
	return float64(int64(f + 0.5))
}

// CyclesToNanos converts a cycle-counter delta to nanoseconds given a
// calibrated cyclesPerUs, rounding to nearest. Monotonic in cycles for a
// fixed cyclesPerUs.
func CyclesToNanos(cycles, cyclesPerUs uint64) uint64 {
	if cyclesPerUs == 0 {
		return 0
	}
	return uint64(roundNearest(float64(cycles) * 1000.0 / float64(cyclesPerUs)))
}

// CyclesToMicros converts a cycle-counter delta to microseconds given a
// calibrated cyclesPerUs, rounding to nearest.
func CyclesToMicros(cycles, cyclesPerUs uint64) uint64 {
	if cyclesPerUs == 0 {
		return 0
	}
	return uint64(roundNearest(float64(cycles) / float64(cyclesPerUs)))
}

// MicrosToCycles is the inverse of CyclesToMicros.
func MicrosToCycles(micros, cyclesPerUs uint64) uint64 {
	return micros * cyclesPerUs
}

// CyclesToSeconds converts a cycle-counter delta to a time.Duration.
func CyclesToSeconds(cycles, cyclesPerUs uint64) time.Duration {
	return time.Duration(CyclesToNanos(cycles, cyclesPerUs))
}
