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

// Package ringlog implements a high-resolution multi-producer/single-consumer
// event log over a shared-memory ring buffer.
//
// Many producers, privileged or not, append fixed-size timestamped entries
// through Publish. A single consumer drains them through Pop or Run. The
// ring never blocks a producer: once full, further entries are silently
// dropped and counted rather than delaying the caller. See Config and
// CreateProducer/AttachProducer/CreateConsumer/AttachConsumer for how a
// producer or consumer joins a ring.
package ringlog
