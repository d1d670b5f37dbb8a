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

// Package ringlogconf loads a ringlog.Config from a TOML file, for
// deployments that prefer a checked-in config file over constructing a
// ringlog.Config in code.
package ringlogconf

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/hires/ringlog"
)

// FileConfig is the TOML-shaped view of a ringlog.Config. Durations are
// plain strings parsed with time.ParseDuration since go-toml has no
// native duration type.
type FileConfig struct {
	Capacity             uint32 `toml:"capacity"`
	ChannelPath          string `toml:"channel_path"`
	CalibrationInterval  string `toml:"calibration_interval"`
	ConsumerSpinBudget   int    `toml:"consumer_spin_budget"`
	KernelProducer       bool   `toml:"kernel_producer"`
}

// Load reads and parses a TOML file at path into a ringlog.Config,
// filling in defaults for zero-valued fields the file didn't set.
func Load(path string) (*ringlog.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fc FileConfig
	if err := toml.Unmarshal(b, &fc); err != nil {
		return nil, err
	}

	cfg := ringlog.DefaultConfig()
	if fc.Capacity != 0 {
		cfg.Capacity = fc.Capacity
	}
	if fc.ChannelPath != "" {
		cfg.ChannelPath = fc.ChannelPath
	}
	if fc.CalibrationInterval != "" {
		d, err := time.ParseDuration(fc.CalibrationInterval)
		if err != nil {
			return nil, err
		}
		cfg.CalibrationInterval = d
	}
	if fc.ConsumerSpinBudget != 0 {
		cfg.ConsumerSpinBudget = fc.ConsumerSpinBudget
	}
	cfg.KernelProducer = fc.KernelProducer

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
