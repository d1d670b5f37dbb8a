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

func Test_DefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func Test_ValidateRejectsNonPowerOfTwoCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = 100
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrCapacityInvalid)
}

func Test_ValidateRejectsEmptyChannelPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChannelPath = ""
	assert.Error(t, cfg.Validate())
}

func Test_ValidateRejectsNegativeCalibrationInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CalibrationInterval = -1
	assert.Error(t, cfg.Validate())
}

func Test_RoundCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = 100
	cfg.RoundCapacity()
	assert.Equal(t, uint32(128), cfg.Capacity)
	assert.NoError(t, cfg.Validate())
}
