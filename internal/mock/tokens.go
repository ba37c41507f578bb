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

package mock

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/ipfs/go-cid"

	"github.com/cwaring/ucan-inspector/internal/envelope"
)

const (
	delegationTag = "ucan/dlg@1.0.0"
	invocationTag = "ucan/inv@1.0.0"
)

// DelegationOpts configures a sample delegation. Zero values get sensible
// defaults: a fresh audience identity, a crud command, a one-hour expiry.
type DelegationOpts struct {
	Issuer   *Identity
	Audience string
	Subject  string
	Command  string
	Policy   []any
	Exp      *int64
	Nbf      *int64
	Meta     map[string]any
}

// Delegation builds and signs a sample delegation envelope.
func Delegation(opts DelegationOpts) ([]byte, *Identity, error) {
	iss := opts.Issuer
	if iss == nil {
		var err error
		iss, err = NewIdentity()
		if err != nil {
			return nil, nil, err
		}
	}

	aud := opts.Audience
	if aud == "" {
		other, err := NewIdentity()
		if err != nil {
			return nil, nil, err
		}
		aud = other.DID
	}

	sub := opts.Subject
	if sub == "" {
		sub = iss.DID
	}

	cmd := opts.Command
	if cmd == "" {
		cmd = "/crud/read"
	}

	pol := opts.Policy
	if pol == nil {
		pol = []any{}
	}

	exp := opts.Exp
	if exp == nil {
		e := time.Now().Add(time.Hour).Unix()
		exp = &e
	}

	payload := map[string]any{
		"iss":   iss.DID,
		"aud":   aud,
		"sub":   sub,
		"cmd":   cmd,
		"pol":   pol,
		"nonce": nonce(),
		"exp":   *exp,
	}
	if opts.Nbf != nil {
		payload["nbf"] = *opts.Nbf
	}
	if opts.Meta != nil {
		payload["meta"] = opts.Meta
	}

	env, err := signEnvelope(iss, delegationTag, payload)
	if err != nil {
		return nil, nil, err
	}
	return env, iss, nil
}

// InvocationOpts configures a sample invocation.
type InvocationOpts struct {
	Issuer  *Identity
	Subject string
	Command string
	Args    map[string]any
	Proofs  []cid.Cid
	Exp     *int64
	Iat     *int64
}

// Invocation builds and signs a sample invocation envelope.
func Invocation(opts InvocationOpts) ([]byte, *Identity, error) {
	iss := opts.Issuer
	if iss == nil {
		var err error
		iss, err = NewIdentity()
		if err != nil {
			return nil, nil, err
		}
	}

	sub := opts.Subject
	if sub == "" {
		sub = iss.DID
	}

	cmd := opts.Command
	if cmd == "" {
		cmd = "/crud/read"
	}

	args := opts.Args
	if args == nil {
		args = map[string]any{"path": "/notes/demo"}
	}

	prf := make([]any, len(opts.Proofs))
	for i, c := range opts.Proofs {
		prf[i] = cborLink(c)
	}

	payload := map[string]any{
		"iss":   iss.DID,
		"sub":   sub,
		"cmd":   cmd,
		"args":  args,
		"prf":   prf,
		"nonce": nonce(),
	}
	if opts.Exp != nil {
		payload["exp"] = *opts.Exp
	}
	if opts.Iat != nil {
		payload["iat"] = *opts.Iat
	}

	env, err := signEnvelope(iss, invocationTag, payload)
	if err != nil {
		return nil, nil, err
	}
	return env, iss, nil
}

// DelegationChain builds a delegation plus an invocation whose prf
// references the delegation's CID.
func DelegationChain() (delegation, invocation []byte, err error) {
	iss, err := NewIdentity()
	if err != nil {
		return nil, nil, err
	}
	agent, err := NewIdentity()
	if err != nil {
		return nil, nil, err
	}

	delegation, _, err = Delegation(DelegationOpts{Issuer: iss, Audience: agent.DID})
	if err != nil {
		return nil, nil, err
	}

	proofCID, err := envelope.CID(delegation)
	if err != nil {
		return nil, nil, err
	}

	iat := time.Now().Unix()
	invocation, _, err = Invocation(InvocationOpts{
		Issuer:  agent,
		Subject: iss.DID,
		Proofs:  []cid.Cid{proofCID},
		Iat:     &iat,
	})
	if err != nil {
		return nil, nil, err
	}
	return delegation, invocation, nil
}

func signEnvelope(iss *Identity, tag string, payload map[string]any) ([]byte, error) {
	sigPayload, err := envelope.EncodeSigPayload(tag, envelope.VarsigEdDSA(), payload)
	if err != nil {
		return nil, fmt.Errorf("encoding signature payload: %w", err)
	}
	return envelope.Encode(iss.Sign(sigPayload), sigPayload)
}

// nonce returns 16 random bytes. UUIDs are already crypto-random and keep
// the generated tokens traceable in logs.
func nonce() []byte {
	id := uuid.New()
	return id[:]
}

// cborLink wraps a CID for CBOR encoding as tag 42 with the identity
// multibase prefix.
func cborLink(c cid.Cid) any {
	return cbor.Tag{Number: 42, Content: append([]byte{0x00}, c.Bytes()...)}
}
