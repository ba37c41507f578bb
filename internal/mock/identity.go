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

// Package mock generates signed sample UCAN tokens and containers for
// exercising the inspection pipeline.
package mock

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/cwaring/ucan-inspector/internal/did"
)

// Identity is an ephemeral Ed25519 signer with its did:key form.
type Identity struct {
	DID  string
	priv ed25519.PrivateKey
}

// NewIdentity creates an ephemeral Ed25519 identity.
func NewIdentity() (*Identity, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating ed25519 key: %w", err)
	}
	didStr, err := did.FromPublicKey(pub)
	if err != nil {
		return nil, err
	}
	return &Identity{DID: didStr, priv: priv}, nil
}

// Sign signs payload bytes with the identity's private key.
func (id *Identity) Sign(payload []byte) []byte {
	return ed25519.Sign(id.priv, payload)
}
