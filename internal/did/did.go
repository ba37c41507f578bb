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

// Package did resolves did:key identifiers and verifies UCAN envelope
// signatures against them.
package did

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-varint"
)

const keyPrefix = "did:key:"

// ed25519PubCodec is the multicodec code for Ed25519 public keys.
const ed25519PubCodec = 0xed

// Resolve extracts the Ed25519 public key from a did:key identifier.
func Resolve(didStr string) (ed25519.PublicKey, error) {
	if !strings.HasPrefix(didStr, keyPrefix) {
		method := didStr
		if parts := strings.SplitN(didStr, ":", 3); len(parts) >= 2 {
			method = parts[0] + ":" + parts[1]
		}
		return nil, fmt.Errorf("unsupported DID method %q (only did:key is resolvable offline)", method)
	}

	_, decoded, err := multibase.Decode(strings.TrimPrefix(didStr, keyPrefix))
	if err != nil {
		return nil, fmt.Errorf("decoding did:key multibase: %w", err)
	}

	code, n, err := varint.FromUvarint(decoded)
	if err != nil {
		return nil, fmt.Errorf("decoding did:key multicodec: %w", err)
	}
	if code != ed25519PubCodec {
		return nil, fmt.Errorf("unsupported key multicodec 0x%x (only ed25519 is supported)", code)
	}

	key := decoded[n:]
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("ed25519 key has %d bytes, expected %d", len(key), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(key), nil
}

// FromPublicKey builds the did:key identifier for an Ed25519 public key.
func FromPublicKey(pub ed25519.PublicKey) (string, error) {
	prefixed := append(varint.ToUvarint(ed25519PubCodec), pub...)
	encoded, err := multibase.Encode(multibase.Base58BTC, prefixed)
	if err != nil {
		return "", fmt.Errorf("encoding did:key: %w", err)
	}
	return keyPrefix + encoded, nil
}
