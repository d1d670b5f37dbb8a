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

import "fmt"

// CreateProducer creates a brand new ring backed by a /dev/shm file at
// cfg.ChannelPath, calibrates the cycle counter, and returns a producer
// handle attached to it. The caller that creates the ring owns tearing
// it down via ProducerHandle.Detach, which removes the backing file.
func CreateProducer(cfg *Config) (*ProducerHandle, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAttachFailed, err)
	}
	if cfg.LogOutput != nil {
		SetLogOutput(cfg.LogOutput)
	}

	unaligned, aligned := shmSize(uint64(cfg.Capacity))
	_ = unaligned
	ch, err := createShmChannel(cfg.ChannelPath, int(aligned))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAttachFailed, err)
	}
	r, err := newRing(ch, uint64(cfg.Capacity))
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("%w: %s", ErrAttachFailed, err)
	}

	cyclesPerUs, err := Calibrate(cfg.CalibrationInterval)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("%w: %s", ErrAttachFailed, err)
	}

	sb := newRingSideband(r, cyclesPerUs)
	geometry, _ := sb.GetGeometry()

	return &ProducerHandle{r: r, geometry: geometry, kernel: cfg.KernelProducer}, nil
}

// AttachProducer opens an existing ring at cfg.ChannelPath (created
// elsewhere by CreateProducer or AttachConsumer's counterpart) and
// returns a producer handle attached to it, caching its geometry. It
// runs a calibration, but the handle does not keep the resulting
// cyclesPerUs.
func AttachProducer(cfg *Config) (*ProducerHandle, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ch, err := openShmChannel(cfg.ChannelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAttachFailed, err)
	}
	r, err := openRing(ch)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("%w: %s", ErrAttachFailed, err)
	}

	cyclesPerUs, err := Calibrate(cfg.CalibrationInterval)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("%w: %s", ErrAttachFailed, err)
	}
	sb := newRingSideband(r, cyclesPerUs)
	geometry, _ := sb.GetGeometry()

	return &ProducerHandle{r: r, geometry: geometry, kernel: cfg.KernelProducer}, nil
}

// Detach releases the producer's mapping. If this handle's ring owns the
// backing file (it was the CreateProducer caller), the file is removed.
func (p *ProducerHandle) Detach() error {
	return p.r.close()
}

// CreateConsumer is the consumer-side counterpart of CreateProducer: it
// creates the ring and attaches the single consumer to it. Exactly one
// ConsumerHandle should exist per ring.
func CreateConsumer(cfg *Config) (*ConsumerHandle, error) {
	p, err := CreateProducer(cfg)
	if err != nil {
		return nil, err
	}
	spin := cfg.ConsumerSpinBudget
	if spin <= 0 {
		spin = defaultSpinBudget
	}
	return &ConsumerHandle{r: p.r, geometry: p.geometry, spinBudget: spin, monitor: cfg.Monitor}, nil
}

// AttachConsumer opens an existing ring and attaches the consumer side.
func AttachConsumer(cfg *Config) (*ConsumerHandle, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ch, err := openShmChannel(cfg.ChannelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAttachFailed, err)
	}
	r, err := openRing(ch)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("%w: %s", ErrAttachFailed, err)
	}
	cyclesPerUs, err := Calibrate(cfg.CalibrationInterval)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("%w: %s", ErrAttachFailed, err)
	}
	sb := newRingSideband(r, cyclesPerUs)
	geometry, _ := sb.GetGeometry()

	spin := cfg.ConsumerSpinBudget
	if spin <= 0 {
		spin = defaultSpinBudget
	}
	return &ConsumerHandle{r: r, geometry: geometry, spinBudget: spin, monitor: cfg.Monitor}, nil
}

// Detach releases the consumer's mapping.
func (c *ConsumerHandle) Detach() error {
	return c.r.close()
}

// Sideband returns a control-sideband view of this consumer's ring, for
// GetGeometry/GetCyclesPerMicrosecond/Reset calls.
func (c *ConsumerHandle) Sideband() Sideband {
	return newRingSideband(c.r, 0)
}

// newInProcessPair creates a ring backed by heap memory and returns
// attached producer and consumer handles sharing it, for tests and
// same-process use where there is no privilege boundary to cross.
func newInProcessPair(capacity uint64, kernel bool, spinBudget int) (*ProducerHandle, *ConsumerHandle, error) {
	if !isPowerOfTwo(capacity) {
		return nil, nil, ErrCapacityInvalid
	}
	_, aligned := shmSize(capacity)
	ch := newMemChannel(int(aligned))
	r, err := newRing(ch, capacity)
	if err != nil {
		return nil, nil, err
	}
	geometry := r.geometry()
	if spinBudget <= 0 {
		spinBudget = defaultSpinBudget
	}
	producer := &ProducerHandle{r: r, geometry: geometry, kernel: kernel}
	consumer := &ConsumerHandle{r: r, geometry: geometry, spinBudget: spinBudget}
	return producer, consumer, nil
}
