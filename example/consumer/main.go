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
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hires/ringlog"
)

// stdoutMonitor logs a one-line metrics summary every emit interval.
type stdoutMonitor struct{}

func (stdoutMonitor) OnEmitConsumerMetrics(m ringlog.ConsumerMetrics, _ *ringlog.ConsumerHandle) {
	fmt.Printf("consumed=%d published=%d dropped=%d empty_polls=%d occupancy=%d/%d\n",
		m.ConsumedCount, m.PublishedCount, m.DroppedCount, m.EmptyPollCount, m.Occupancy, m.Capacity)
}

func (stdoutMonitor) Flush() error { return nil }

func main() {
	path := flag.String("path", "/dev/shm/ringlog_demo", "ring channel path")
	flag.Parse()

	cfg := ringlog.DefaultConfig()
	cfg.ChannelPath = *path
	cfg.Monitor = stdoutMonitor{}

	consumer, err := ringlog.AttachConsumer(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "attach consumer failed:", err)
		os.Exit(1)
	}
	defer consumer.Detach()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := consumer.Run(ctx, func(e ringlog.Entry) {
		_ = e // real consumers would forward or aggregate the entry here
	}); err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, "consumer run exited:", err)
	}
}
