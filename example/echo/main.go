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

// Command echo is a TCP echo server that publishes an entry to a ring on
// every read and every write, the way a privileged network server times
// its own I/O hot path without adding logging logic to the ring itself.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/bytedance/gopkg/util/gopool"

	"github.com/hires/ringlog"
)

const (
	eventRead  = 1
	eventWrite = 2
)

func handleConn(conn net.Conn, producer *ringlog.ProducerHandle) {
	defer conn.Close()

	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		producer.Publish(eventRead, uint64(n), 0)

		written, err := conn.Write(buf[:n])
		if err != nil {
			return
		}
		producer.Publish(eventWrite, uint64(written), 0)
	}
}

func main() {
	addr := flag.String("addr", ":9000", "TCP listen address")
	path := flag.String("path", "/dev/shm/ringlog_echo", "ring channel path")
	capacity := flag.Uint("capacity", 4096, "ring capacity, must be power of two")
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

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "listen failed:", err)
		os.Exit(1)
	}
	defer ln.Close()
	fmt.Println("echo server listening on", *addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			fmt.Fprintln(os.Stderr, "accept error:", err)
			return
		}
		gopool.Go(func() {
			handleConn(conn, producer)
		})
	}
}
