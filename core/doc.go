// Copyright 2025 Poiesic Systems
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

// Package core defines the domain model shared by every Sift package.
//
// It contains the search request and result types, saved searches and
// search history, the document and vector-index payload types exchanged with
// the corpus and storage layers, content-derived identifiers, and the binary
// serializers used to persist them.
//
// Types in this package carry no behavior beyond validation, defaulting and
// small accessors. Retrieval and ranking live in the search package.
package core
