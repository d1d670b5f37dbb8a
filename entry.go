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
	"encoding/binary"
	"unsafe"
)

// Entry is a single fixed-size record copied out of the ring by Pop. Its
// layout mirrors the wire contract written by producers, but Entry itself
// is a plain value the caller owns; it holds no reference into shared
// memory.
type Entry struct {
	// Timestamp is the producer's nowCycles reading (monotonic nanoseconds
	// since the producing process started). The same source is used
	// whether or not FlagKernel is set.
	Timestamp uint64
	// EventID is a producer-defined tag; there is no central registry.
	EventID uint32
	// CPUID is the logical CPU the producer ran on, or 0xFFFF if unknown.
	CPUID uint32
	// Flags carries FlagValid and FlagKernel; other bits are reserved.
	Flags uint16
	// Data1 and Data2 are opaque producer-defined payload words.
	Data1 uint64
	Data2 uint64
}

const (
	// FlagValid indicates the entry is fully published.
	FlagValid uint16 = 1 << 0
	// FlagKernel indicates the entry originated in a privileged producer.
	FlagKernel uint16 = 1 << 1
)

// entrySize is unsafe.Sizeof(rawEntry{}) computed once; used for offset
// math against the mapped byte slice.
const entrySize = unsafe.Sizeof(rawEntry{})

// appendBinary appends e's fixed wire encoding to buf and returns the
// extended slice, little-endian to match rawEntry's native in-memory
// layout byte for byte, padding included, so a consumer forwarding
// PopBatch output elsewhere can treat it as an opaque rawEntry-sized
// blob.
func (e Entry) appendBinary(buf []byte) ([]byte, error) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], e.Timestamp)
	buf = append(buf, tmp[:]...)
	binary.LittleEndian.PutUint32(tmp[:4], e.EventID)
	buf = append(buf, tmp[:4]...)
	binary.LittleEndian.PutUint32(tmp[:4], e.CPUID)
	buf = append(buf, tmp[:4]...)
	binary.LittleEndian.PutUint32(tmp[:4], uint32(e.Flags))
	buf = append(buf, tmp[:4]...)
	buf = append(buf, make([]byte, int(entrySize)-36)...) // struct padding before the next uint64 field
	binary.LittleEndian.PutUint64(tmp[:], e.Data1)
	buf = append(buf, tmp[:]...)
	binary.LittleEndian.PutUint64(tmp[:], e.Data2)
	buf = append(buf, tmp[:]...)
	return buf, nil
}

// rawEntry is the exact in-memory layout of one slot's payload fields,
// excluding the atomically-accessed flags word which is stored and
// accessed separately (see layout.go).
type rawEntry struct {
	timestamp uint64
	eventID   uint32
	cpuID     uint32
	flags     uint32 // low 16 bits are the wire contract; see layout.go
	data1     uint64
	data2     uint64
}
