// Copyright 2026 Lucerna Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package chunker splits transcripts into overlapping retrieval chunks.
//
// Splitting is paragraph-aware: blank-line separated blocks are accumulated
// until the target chunk size is reached, and each new chunk carries the
// tail of the previous one so that content near a boundary remains
// retrievable from both sides.
package chunker
