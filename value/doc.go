// Copyright 2026 Blink Labs Software
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

// Package value models the untyped, self-describing value trees that a
// chain node returns for storage queries and runtime constants.
//
// A tree is built from a small set of node kinds: unsigned integers,
// booleans, text, sequences, composites (ordered, optionally named fields)
// and variants. Navigation never casts: At, Index and the As* accessors
// return an ok flag, so a missing or differently shaped field resolves to
// "not present" instead of a panic. Decoders built on top of this package
// only ever look up the fields they need, which keeps them working when a
// runtime upgrade adds new fields.
package value
