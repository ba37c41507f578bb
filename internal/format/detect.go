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

package format

import "strings"

type InputKind string

const (
	KindContainer InputKind = "container"
	KindToken     InputKind = "token"
	KindUnknown   InputKind = "unknown"
)

// containerHeaderBytes are the six header bytes of the ctn-v1 wire format.
// The table itself lives in the container package; detection only needs the
// byte set.
const containerHeaderBytes = "@BCMOP"

// Detect classifies raw input as a UCAN container, a bare token, or unknown.
//
// Detection order:
//  1. Container — first character is a ctn-v1 header byte and the rest is
//     not itself a decodable envelope (header bytes overlap the base64
//     alphabet, so a bare token starting with 'B' must win)
//  2. Token — base64/base64url text that decodes to a CBOR array start
//     (UCAN envelopes are two-element CBOR arrays)
func Detect(input string) InputKind {
	input = strings.TrimSpace(input)
	if input == "" {
		return KindUnknown
	}

	if isEnvelopeText(input) {
		return KindToken
	}

	if strings.IndexByte(containerHeaderBytes, input[0]) >= 0 {
		return KindContainer
	}

	return KindUnknown
}

// isEnvelopeText reports whether the whole input decodes as base64 or
// base64url to bytes starting with a CBOR array.
func isEnvelopeText(s string) bool {
	if b, err := DecodeBase64URL(s); err == nil && len(b) > 0 && isCBORArrayStart(b[0]) {
		return true
	}
	if b, err := DecodeBase64Std(s); err == nil && len(b) > 0 && isCBORArrayStart(b[0]) {
		return true
	}
	return false
}

// isCBORArrayStart checks if a byte starts a CBOR array (major type 4).
func isCBORArrayStart(b byte) bool {
	return b>>5 == 4
}
