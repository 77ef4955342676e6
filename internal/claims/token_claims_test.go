package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenClaimSet(t *testing.T) {
	for _, payload := range []string{"", "  ", "null"} {
		set, err := NewTokenClaimSet([]byte(payload))
		require.NoError(t, err)
		assert.Equal(t, "{}", string(set.JSON()))
	}

	for _, payload := range []string{`[]`, `"token"`, `{"a":`} {
		_, err := NewTokenClaimSet([]byte(payload))
		assert.ErrorIs(t, err, ErrInvalidToken, payload)
	}
}

func TestTokenClaimSet_ApplyOverridesAndKeepsOtherClaims(t *testing.T) {
	set, err := NewTokenClaimSet([]byte(`{"sub":"cid_1@clients","orgCode":"stale"}`))
	require.NoError(t, err)

	require.NoError(t, set.Apply(M2MTokenClaims{ApplicationID: "cid_1", OrgName: "Acme Inc", OrgCode: "acme"}))

	code, ok := set.Get(ClaimOrgCode)
	assert.True(t, ok)
	assert.Equal(t, "acme", code)
	assert.JSONEq(t, `{"sub":"cid_1@clients","applicationId":"cid_1","orgName":"Acme Inc","orgCode":"acme"}`, string(set.JSON()))
}

func TestTokenClaimSet_JSONIsACopy(t *testing.T) {
	set, err := NewTokenClaimSet([]byte(`{"scope":"read"}`))
	require.NoError(t, err)

	out := set.JSON()
	out[2] = 'X'
	assert.JSONEq(t, `{"scope":"read"}`, string(set.JSON()))
}
