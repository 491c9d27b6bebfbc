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

// Package domain manages flow directories under a domain root: atomic
// create/publish, open, delete, and list, plus an on-demand sweep for
// abandoned flow directories.
//
// A flow directory is built in a hidden staging directory first and
// only made visible to List by an atomic rename, so a reader can never
// observe a half-written flow.
package domain
