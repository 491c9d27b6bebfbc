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

// Package flow defines the on-disk/in-memory header layouts for MXL
// flows and grains, and the two concrete flow shapes (discrete and
// continuous) built on top of package shmseg's mapped segments.
//
// Header and GrainInfo mirror the atomic-accessor-over-typed-view
// pattern of a shared-memory ring buffer header: every field that a
// writer in one process and a reader in another might observe
// concurrently is accessed through sync/atomic. The one exception is
// Header's 16-byte flow id, which is read and written with a plain copy.
package flow
