package claims

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Claim names written on the M2M token
const (
	ClaimApplicationID = "applicationId"
	ClaimOrgName       = "orgName"
	ClaimOrgCode       = "orgCode"
)

// M2MTokenClaims are the custom claims this workflow adds
type M2MTokenClaims struct {
	ApplicationID string `json:"applicationId"`
	OrgName       string `json:"orgName"`
	OrgCode       string `json:"orgCode"`
}

// TokenClaimSet is the outgoing token payload the workflow may write to
type TokenClaimSet struct {
	doc []byte
}

// NewTokenClaimSet wraps a token payload. An empty payload starts as {}.
func NewTokenClaimSet(payload []byte) (*TokenClaimSet, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return &TokenClaimSet{doc: []byte(`{}`)}, nil
	}
	if !gjson.ValidBytes(payload) || !gjson.ParseBytes(payload).IsObject() {
		return nil, ErrInvalidToken
	}
	doc := make([]byte, len(payload))
	copy(doc, payload)
	return &TokenClaimSet{doc: doc}, nil
}

// Apply writes all three claims. Nothing changes unless every write succeeds.
func (s *TokenClaimSet) Apply(c M2MTokenClaims) error {
	doc := make([]byte, len(s.doc))
	copy(doc, s.doc)

	var err error
	for _, kv := range []struct{ name, value string }{
		{ClaimApplicationID, c.ApplicationID},
		{ClaimOrgName, c.OrgName},
		{ClaimOrgCode, c.OrgCode},
	} {
		doc, err = sjson.SetBytes(doc, kv.name, kv.value)
		if err != nil {
			return fmt.Errorf("setting claim %s: %w", kv.name, err)
		}
	}
	s.doc = doc
	return nil
}

// Get returns a claim value and whether it is set
func (s *TokenClaimSet) Get(name string) (string, bool) {
	r := gjson.GetBytes(s.doc, name)
	return r.String(), r.Exists()
}

// JSON returns the token payload
func (s *TokenClaimSet) JSON() []byte {
	out := make([]byte, len(s.doc))
	copy(out, s.doc)
	return out
}
