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

// Package shmseg maps a file into a process's address space as a shared
// memory segment and gives callers a raw byte view of it plus a
// cross-process blocking wait/wake primitive built on Linux futexes.
//
// It knows nothing about flows, grains, or any MXL-specific header
// layout; that structure is built on top by package flow. shmseg's only
// job is: create-or-open a file at a fixed size, map it, and let two or
// more processes block on and wake each other through a uint32 cell
// inside the mapping.
package shmseg
