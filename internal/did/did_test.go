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

package did

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/cwaring/ucan-inspector/internal/envelope"
)

func TestDIDKeyRoundTrip(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	didStr, err := FromPublicKey(pub)
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	if !strings.HasPrefix(didStr, "did:key:z") {
		t.Errorf("did %q lacks did:key:z prefix", didStr)
	}

	resolved, err := Resolve(didStr)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !bytes.Equal(resolved, pub) {
		t.Error("resolved key differs from original")
	}
}

func TestResolve_Failures(t *testing.T) {
	tests := []struct {
		name string
		did  string
	}{
		{"unknown method", "did:web:example.com"},
		{"not a did", "hello"},
		{"bad multibase", "did:key:!!!"},
		{"wrong codec", "did:key:zQ3shokFTS3brHcDQrn82RUDfCZESWL1ZdCEJwekUDPQiYBme"}, // secp256k1
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resolve(tt.did); err == nil {
				t.Error("expected resolve error")
			}
		})
	}
}

// signedEnvelope builds an Ed25519-signed envelope and the issuer DID.
func signedEnvelope(t *testing.T) (*envelope.Envelope, string) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	issuer, err := FromPublicKey(pub)
	if err != nil {
		t.Fatal(err)
	}

	sigPayload, err := cbor.Marshal(map[string]any{
		"h":              envelope.VarsigEdDSA(),
		"ucan/dlg@1.0.0": map[string]any{"iss": issuer, "cmd": "/crud/read"},
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := envelope.Encode(ed25519.Sign(priv, sigPayload), sigPayload)
	if err != nil {
		t.Fatal(err)
	}
	env, err := envelope.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	return env, issuer
}

func TestKeyVerifier_Verified(t *testing.T) {
	env, issuer := signedEnvelope(t)

	sig := KeyVerifier{}.Verify(context.Background(), env, issuer)
	if sig.Status != StatusVerified {
		t.Errorf("status = %q (%s), want verified", sig.Status, sig.Reason)
	}
}

func TestKeyVerifier_TamperedSignatureFails(t *testing.T) {
	env, issuer := signedEnvelope(t)
	env.Signature[0] ^= 0x01

	sig := KeyVerifier{}.Verify(context.Background(), env, issuer)
	if sig.Status != StatusFailed {
		t.Errorf("status = %q, want failed", sig.Status)
	}
	if sig.Reason == "" {
		t.Error("failed verification must carry a reason")
	}
}

func TestKeyVerifier_WrongIssuerFails(t *testing.T) {
	env, _ := signedEnvelope(t)
	_, other := signedEnvelope(t)

	sig := KeyVerifier{}.Verify(context.Background(), env, other)
	if sig.Status != StatusFailed {
		t.Errorf("status = %q, want failed", sig.Status)
	}
}

func TestKeyVerifier_Unsupported(t *testing.T) {
	env, _ := signedEnvelope(t)

	t.Run("unknown DID method", func(t *testing.T) {
		sig := KeyVerifier{}.Verify(context.Background(), env, "did:web:example.com")
		if sig.Status != StatusUnsupported {
			t.Errorf("status = %q, want unsupported", sig.Status)
		}
		if sig.Reason == "" {
			t.Error("unsupported must carry a reason")
		}
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		badEnv := *env
		badEnv.Algorithm = "0x3401"
		sig := KeyVerifier{}.Verify(context.Background(), &badEnv, "did:key:zabc")
		if sig.Status != StatusUnsupported {
			t.Errorf("status = %q, want unsupported", sig.Status)
		}
	})
}
