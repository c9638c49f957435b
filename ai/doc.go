// Copyright 2025 the Embedding Atlas Agent authors
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


// Package ai provides abstractions for the remote embedding services the
// pipeline talks to.
//
// The central interface is Embedder: one network round trip per EmbedTexts
// call, returning one vector per input string in input order. Implementations
// live in sub-packages:
//
//   - ai/openrouter: production client for OpenRouter and other
//     OpenAI-compatible embedding endpoints, with typed failure
//     classification (rate-limited vs transient)
//   - ai/local: client for local OpenAI-compatible services (Ollama,
//     LocalAI, vLLM) that generally need no credentials
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors (openrouter.NewEmbedder, local.NewEmbedder) return the
// ai.Embedder interface to enforce abstraction; mock constructors return
// concrete types so tests can inject behavior and make assertions.
//
// Errors returned by implementations carry a Kind (KindRateLimited or
// KindTransient) that the pipeline's retry loop uses to pick a backoff
// policy. Classify maps arbitrary errors onto a Kind, defaulting to
// transient for anything not positively identified as rate limiting.
package ai
