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

// Package cbor wraps github.com/fxamacker/cbor/v2 with the encoding modes
// used for cached chain data.
//
// Encoding is deterministic (core deterministic map key ordering) so that
// identical values always produce identical bytes. Decoding tolerates
// arbitrary nesting of the untyped value trees that are persisted by the
// store package.
//
// Value decodes arbitrary CBOR into plain Go values, and ByteString keeps
// byte strings comparable so they can appear as map keys.
package cbor
