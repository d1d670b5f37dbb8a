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

import "time"

const (
	// cacheLineSize is the assumed line size on common x86_64/arm64 targets.
	cacheLineSize = 64

	// flagValid marks an entry as fully published and safe to read.
	flagValid uint32 = 1 << 0
	// flagKernel marks an entry as originating from a privileged producer.
	flagKernel uint32 = 1 << 1
	// flagsReservedMask covers everything outside the 16-bit wire contract;
	// must always be written as zero.
	flagsReservedMask uint32 = 0xFFFF0000

	// cpuIDUnknown is the sentinel written when the logical CPU id of the
	// calling producer could not be determined.
	cpuIDUnknown uint32 = 0xFFFF

	// defaultCapacity is used by DefaultConfig; must be a power of two.
	defaultCapacity uint32 = 8192

	// defaultCalibrationInterval is the wall-clock window used to compute
	// cyclesPerUs at ring creation.
	defaultCalibrationInterval = 500 * time.Millisecond

	// defaultSpinBudget bounds the consumer's yield-spin while waiting for
	// a reserved-but-not-yet-published slot.
	defaultSpinBudget = 100

	// shmPathPrefix is the default directory for the /dev/shm-backed channel.
	shmPathPrefix = "/dev/shm"
)
