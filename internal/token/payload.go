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

package token

import "github.com/ipfs/go-cid"

// delegationPayload extracts the dlg payload fields. Extraction is lenient:
// absent or mistyped fields stay at their zero values so the rest of the
// token remains inspectable.
func delegationPayload(m map[string]any) *DelegationPayload {
	return &DelegationPayload{
		Iss:   getString(m, "iss"),
		Aud:   getString(m, "aud"),
		Sub:   getString(m, "sub"),
		Cmd:   getString(m, "cmd"),
		Pol:   getSlice(m, "pol"),
		Nonce: getBytes(m, "nonce"),
		Meta:  getMap(m, "meta"),
		Nbf:   getInt64(m, "nbf"),
		Exp:   getInt64(m, "exp"),
	}
}

// invocationPayload extracts the inv payload fields. Proof references are
// resolved into CID values; aud defaults to the subject when absent.
func invocationPayload(m map[string]any) *InvocationPayload {
	p := &InvocationPayload{
		Iss:    getString(m, "iss"),
		Sub:    getString(m, "sub"),
		Aud:    getString(m, "aud"),
		Cmd:    getString(m, "cmd"),
		Args:   getMap(m, "args"),
		Proofs: getCIDs(m, "prf"),
		Meta:   getMap(m, "meta"),
		Nonce:  getBytes(m, "nonce"),
		Exp:    getInt64(m, "exp"),
		Nbf:    getInt64(m, "nbf"),
		Iat:    getInt64(m, "iat"),
	}
	if c, ok := m["cause"].(cid.Cid); ok {
		p.Cause = &c
	}
	return p
}

func getString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func getBytes(m map[string]any, key string) []byte {
	b, _ := m[key].([]byte)
	return b
}

func getSlice(m map[string]any, key string) []any {
	s, _ := m[key].([]any)
	return s
}

func getMap(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func getInt64(m map[string]any, key string) *int64 {
	switch v := m[key].(type) {
	case int64:
		return &v
	case uint64:
		n := int64(v)
		return &n
	case int:
		n := int64(v)
		return &n
	case float64:
		n := int64(v)
		return &n
	}
	return nil
}

func getCIDs(m map[string]any, key string) []cid.Cid {
	arr, ok := m[key].([]any)
	if !ok {
		return nil
	}
	var cids []cid.Cid
	for _, item := range arr {
		if c, ok := item.(cid.Cid); ok {
			cids = append(cids, c)
		}
	}
	return cids
}
