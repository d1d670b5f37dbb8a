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
	"io"
	"os"
	"time"
)

// Config tunes a ring's creation and the handles attached to it.
type Config struct {
	// Capacity is the number of entries the ring holds; must be a power
	// of two >= 2. Default is defaultCapacity (8192).
	Capacity uint32

	// ChannelPath is the shared-memory-backed file path a producer and
	// consumer in different processes rendezvous on. Ignored when
	// attaching with an in-process Channel (e.g. in tests).
	ChannelPath string

	// CalibrationInterval is how long CreateProducer, CreateConsumer,
	// AttachProducer and AttachConsumer sleep to compute cyclesPerUs. A
	// recommended floor is 500ms.
	CalibrationInterval time.Duration

	// ConsumerSpinBudget bounds how many scheduler yields Pop performs
	// while waiting for a reserved-but-not-yet-published slot. A
	// recommended value is ~100.
	ConsumerSpinBudget int

	// KernelProducer marks entries published through this handle with
	// FlagKernel, marking them as coming from a privileged producer. It
	// does not change how Timestamp is taken.
	KernelProducer bool

	// LogOutput controls where the internal logger writes; default is
	// os.Stdout. It is applied by CreateProducer and CreateConsumer;
	// AttachProducer and AttachConsumer do not read it.
	LogOutput io.Writer

	// Monitor, if set, receives periodic metrics from a ConsumerHandle's
	// Run loop.
	Monitor Monitor
}

// DefaultConfig returns a Config with sane recommended defaults.
func DefaultConfig() *Config {
	return &Config{
		Capacity:            defaultCapacity,
		ChannelPath:         shmPathPrefix + "/ringlog",
		CalibrationInterval: defaultCalibrationInterval,
		ConsumerSpinBudget:  defaultSpinBudget,
		LogOutput:           os.Stdout,
	}
}

// RoundCapacity rounds Capacity up to the nearest valid power of two.
// Callers that computed a desired capacity arithmetically (e.g. "hold
// one second of events at N events/s") can call this before Validate
// instead of hand-rolling the rounding themselves.
func (c *Config) RoundCapacity() {
	c.Capacity = uint32(nextPowerOfTwo(uint64(c.Capacity)))
}

// Validate checks the sanity of a Config before it is used to create or
// attach to a ring.
func (c *Config) Validate() error {
	if !isPowerOfTwo(uint64(c.Capacity)) {
		return ErrCapacityInvalid
	}
	if c.ChannelPath == "" {
		return errors.New("ringlog: ChannelPath must not be empty")
	}
	if c.CalibrationInterval < 0 {
		return errors.New("ringlog: CalibrationInterval must not be negative")
	}
	if c.ConsumerSpinBudget < 0 {
		return errors.New("ringlog: ConsumerSpinBudget must not be negative")
	}
	return nil
}
