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

package main

import (
	"flag"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/bytedance/gopkg/util/gopool"

	"github.com/hires/ringlog"
)

func main() {
	path := flag.String("path", "/dev/shm/ringlog_demo", "ring channel path")
	capacity := flag.Uint("capacity", 8192, "ring capacity, must be power of two")
	eventID := flag.Uint("event", 1, "event id to publish")
	rate := flag.Duration("interval", time.Microsecond, "publish interval")
	flag.Parse()

	cfg := ringlog.DefaultConfig()
	cfg.ChannelPath = *path
	cfg.Capacity = uint32(*capacity)

	producer, err := ringlog.CreateProducer(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "create producer failed:", err)
		os.Exit(1)
	}
	defer producer.Detach()

	var published, dropped uint64
	gopool.Go(func() {
		lastPub, lastDrop := uint64(0), uint64(0)
		for range time.Tick(time.Second) {
			pub := atomic.LoadUint64(&published)
			drop := atomic.LoadUint64(&dropped)
			fmt.Printf("published=%d/s dropped=%d/s\n", pub-lastPub, drop-lastDrop)
			lastPub, lastDrop = pub, drop
		}
	})

	ticker := time.NewTicker(*rate)
	defer ticker.Stop()
	var seq uint64
	for range ticker.C {
		seq++
		result, err := producer.Publish(uint32(*eventID), seq, 0)
		if err != nil {
			fmt.Fprintln(os.Stderr, "publish failed:", err)
			os.Exit(1)
		}
		if result == ringlog.Dropped {
			atomic.AddUint64(&dropped, 1)
		} else {
			atomic.AddUint64(&published, 1)
		}
	}
}
