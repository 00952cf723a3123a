package login

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCallbackParams(t *testing.T) {
	q := url.Values{}
	q.Set("code", "abc123")
	q.Set("state", "xyz")

	p := ParseCallbackParams(q)
	assert.Equal(t, "abc123", p.Code)
	assert.Equal(t, "xyz", p.State)
	assert.Empty(t, p.ErrorCode)
	assert.Empty(t, p.ErrorDescription)
}

func TestParseCallbackParams_Error(t *testing.T) {
	q := url.Values{}
	q.Set("error", "access_denied")
	q.Set("error_description", "User denied access")

	p := ParseCallbackParams(q)
	assert.Equal(t, "access_denied", p.ErrorCode)
	assert.Equal(t, "User denied access", p.ErrorDescription)
	assert.Empty(t, p.Code)
}

func TestParseCallbackParams_FirstValueWins(t *testing.T) {
	q := url.Values{"code": {"first", "second"}}

	p := ParseCallbackParams(q)
	assert.Equal(t, "first", p.Code)
}

func TestParseCallbackParams_Verbatim(t *testing.T) {
	// Values are taken as-is, no trimming or decoding beyond the
	// query parse itself.
	q := url.Values{}
	q.Set("code", "  padded  ")

	p := ParseCallbackParams(q)
	assert.Equal(t, "  padded  ", p.Code)
}

func TestParseCallbackParams_EmptyIsAbsent(t *testing.T) {
	q := url.Values{"code": {""}}

	p := ParseCallbackParams(q)
	assert.Empty(t, p.Code)
}

func TestParseCallbackParams_NilValues(t *testing.T) {
	p := ParseCallbackParams(nil)
	assert.Empty(t, p.Code)
	assert.Empty(t, p.ErrorCode)
	assert.Empty(t, p.ErrorDescription)
	assert.Empty(t, p.State)
}
