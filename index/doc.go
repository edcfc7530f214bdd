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


// Package index provides a flat in-memory vector store for one transcript.
//
// An Index is built once from a transcript's chunks: every chunk is embedded
// in a single batched call, L2-normalized, and stored alongside its text in
// chunk order. Search is an exact inner-product scan over all vectors, which
// at single-transcript scale outperforms approximate structures while
// guaranteeing exact results.
//
// Once built, an Index is immutable and safe for concurrent searches.
package index
