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

// Package fabric moves committed grains between hosts: a Target binds a
// passive endpoint and applies incoming remote writes into its flow's
// shared memory exactly the way a local writer would, so a reader
// downstream of a target cannot tell a grain arrived over the network
// from one written in-process. An Initiator fans a grain out to every
// target registered with it.
//
// Transport is polymorphic over a small Provider capability set
// (bind/register/write/poll), generalized from the teacher's one-sided
// shared-memory ring into one-sided remote writes over a real network
// transport. Only the TCP provider is fully wired; verbs and EFA are
// structurally present but report themselves unavailable, since real
// RDMA access needs CGo bindings this module does not carry.
package fabric
