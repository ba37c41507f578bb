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

// Package container parses the UCAN ctn-v1 container wire format: a one-byte
// header selecting encoding and compression, followed by a CBOR map holding
// the bundled token byte strings.
package container

import "fmt"

// Encoding is the payload transport encoding selected by the header byte.
type Encoding string

const (
	EncodingRaw       Encoding = "raw"
	EncodingBase64    Encoding = "base64"
	EncodingBase64URL Encoding = "base64url"
)

// Compression is the payload compression selected by the header byte.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
)

// Header is the decoded one-byte container header. The byte values are
// protocol constants of the ctn-v1 specification — changing them breaks
// wire compatibility.
type Header struct {
	Byte        byte        `json:"byte"`
	Encoding    Encoding    `json:"encoding"`
	Compression Compression `json:"compression"`
}

var headerTable = map[byte]Header{
	'@': {Byte: '@', Encoding: EncodingRaw, Compression: CompressionNone},
	'B': {Byte: 'B', Encoding: EncodingBase64, Compression: CompressionNone},
	'C': {Byte: 'C', Encoding: EncodingBase64URL, Compression: CompressionNone},
	'M': {Byte: 'M', Encoding: EncodingRaw, Compression: CompressionGzip},
	'O': {Byte: 'O', Encoding: EncodingBase64, Compression: CompressionGzip},
	'P': {Byte: 'P', Encoding: EncodingBase64URL, Compression: CompressionGzip},
}

// HeaderFor resolves a header byte against the fixed six-entry table.
func HeaderFor(b byte) (Header, bool) {
	h, ok := headerTable[b]
	return h, ok
}

// HeaderByte returns the header byte for an encoding/compression pair.
// Used by the container writer; every pair in the table round-trips.
func HeaderByte(enc Encoding, comp Compression) (byte, error) {
	for b, h := range headerTable {
		if h.Encoding == enc && h.Compression == comp {
			return b, nil
		}
	}
	return 0, fmt.Errorf("no header byte for encoding %q with compression %q", enc, comp)
}
