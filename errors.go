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
	"errors"
)

var (
	// ErrAttachFailed is returned by Attach when the channel could not be
	// opened, geometry did not match, or calibration did not complete.
	// The returned error wraps ErrAttachFailed with %w; the underlying
	// cause is appended as text only, so errors.Is matches ErrAttachFailed
	// but not the cause.
	ErrAttachFailed = errors.New("ringlog: attach failed")

	// ErrCalibrationFailed means the calibration interval measured a
	// non-positive elapsed time. At the attach boundary its message is
	// included in an ErrAttachFailed error.
	ErrCalibrationFailed = errors.New("ringlog: cycle calibration failed")

	// ErrGeometryMismatch means a peer's cached Geometry no longer
	// matches what GetGeometry reports for the ring it is attached to.
	ErrGeometryMismatch = errors.New("ringlog: ring geometry mismatch")

	// ErrCapacityInvalid means a requested ring capacity was not a power
	// of two >= 2.
	ErrCapacityInvalid = errors.New("ringlog: capacity must be a power of two >= 2")

	// ErrChannelClosed is returned by channel operations performed after
	// Close.
	ErrChannelClosed = errors.New("ringlog: channel closed")

	// ErrResetWithLiveProducers is returned by Sideband.Reset when head
	// advanced between the caller's last GetGeometry call and the Reset
	// call, which means producers were not actually quiesced. The reset
	// still happens; this only reports that the caller's contract was
	// violated, an undefined-behavior condition that is detectable after
	// the fact.
	ErrResetWithLiveProducers = errors.New("ringlog: reset invoked without quiescing producers")

	// ErrChannelTooSmall means a mapped region is smaller than the
	// control header plus at least one entry.
	ErrChannelTooSmall = errors.New("ringlog: mapped region too small for ring layout")

	// ErrNoSpaceLeft means the shared-memory filesystem does not have
	// room for the requested ring.
	ErrNoSpaceLeft = errors.New("ringlog: shared memory has no space left")
)
