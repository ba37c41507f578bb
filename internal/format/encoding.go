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

import (
	"encoding/base64"
	"strings"
)

// DecodeBase64URL decodes a base64url-encoded string (with or without padding).
func DecodeBase64URL(s string) ([]byte, error) {
	// Try without padding first (UCAN containers use unpadded base64url)
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.URLEncoding.DecodeString(s)
	}
	return b, err
}

// DecodeBase64Std decodes a standard base64-encoded string.
func DecodeBase64Std(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(s)
	}
	return b, err
}

// EncodeBase64URL encodes bytes as base64url without padding.
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// EncodeBase64Std encodes bytes as standard padded base64.
func EncodeBase64Std(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// StripWhitespace removes all ASCII whitespace from s. Container payloads
// may arrive wrapped or copy-pasted with stray line breaks.
func StripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			return -1
		}
		return r
	}, s)
}

// StripPadding removes trailing '=' characters, reporting whether any were
// present.
func StripPadding(s string) (string, bool) {
	trimmed := strings.TrimRight(s, "=")
	return trimmed, trimmed != s
}

// PadBase64 pads s with '=' to the next multiple of 4, reporting whether
// padding was added.
func PadBase64(s string) (string, bool) {
	if len(s)%4 == 0 {
		return s, false
	}
	return s + strings.Repeat("=", 4-len(s)%4), true
}
