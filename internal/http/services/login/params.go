package login

import "net/url"

// CallbackParams are the query parameters ORCID sends the researcher
// back with. Either Code or ErrorCode is expected; both may be absent
// when the URL was mangled.
type CallbackParams struct {
	Code             string
	ErrorCode        string
	ErrorDescription string
	State            string
}

// ParseCallbackParams extracts the callback parameters from a query.
// First values win, taken verbatim; an empty value counts as absent.
func ParseCallbackParams(q url.Values) CallbackParams {
	return CallbackParams{
		Code:             q.Get("code"),
		ErrorCode:        q.Get("error"),
		ErrorDescription: q.Get("error_description"),
		State:            q.Get("state"),
	}
}
