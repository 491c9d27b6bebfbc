/*
 *
 * Copyright 2025 gRPC authors.
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
 *
 */

// Package flowio implements the grain-level writer/reader API: open a
// grain, write into it, commit it visible, and on the reader side fetch
// or block-wait for grains by absolute index.
//
// The blocking wait is built the same way the teacher's ShmRing blocks a
// consumer on a byte-count sequence: a futex wait/wake pair keyed to a
// counter that only ever increases, with the waiter always re-checking
// its actual logical condition after waking since wakeups may be
// spurious or may be for an unrelated commit.
package flowio
