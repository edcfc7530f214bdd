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


// Package openai provides AI service implementations backed by
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, OpenAI itself).
//
// The package implements ai.Embedder and ai.Generator on top of
// langchaingo's OpenAI client. Both services are stateless wrappers over
// HTTP APIs and are safe for concurrent use. Construct them once via
// NewProvider and inject them where needed.
package openai
