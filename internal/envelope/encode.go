// Copyright 2026 Chris Waring
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

package envelope

import "github.com/fxamacker/cbor/v2"

// VarsigEdDSA returns the varsig header bytes for Ed25519 over DAG-CBOR.
func VarsigEdDSA() []byte {
	h := make([]byte, len(varsigEdDSADagCBOR))
	copy(h, varsigEdDSADagCBOR)
	return h
}

// Encode assembles envelope bytes from a signature and the exact signature
// payload encoding. The sigPayload bytes are embedded verbatim so the
// signature stays valid over them.
func Encode(signature, sigPayload []byte) ([]byte, error) {
	return cbor.Marshal([]any{signature, cbor.RawMessage(sigPayload)})
}

// EncodeSigPayload encodes the signature payload map for a given spec tag:
// {"h": varsig, "<tag>": payload}. The returned bytes are what gets signed.
func EncodeSigPayload(tag string, varsig []byte, payload any) ([]byte, error) {
	return cbor.Marshal(map[string]any{
		"h": varsig,
		tag: payload,
	})
}
