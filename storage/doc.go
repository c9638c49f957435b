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


// Package storage provides the checkpoint storage abstraction for embedding
// runs.
//
// A RunStore persists the raw vectors of each successfully embedded batch
// under a deterministic run identifier. When a run is interrupted (crash,
// abort, Ctrl-C mid-corpus) and started again over the same corpus, the
// pipeline reloads the stored batches and only re-requests the missing ones.
//
// Constructors in backend packages (storage/badger) return the RunStore
// interface to keep callers decoupled from the backend. Implementations must
// be safe for concurrent use; the pipeline checkpoints from worker
// goroutines.
package storage
