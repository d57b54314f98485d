package anthropic

import (
	"net/url"
	"strconv"
)

// ListParams is the cursor pagination shared by every list endpoint.
// BeforeID and AfterID are opaque cursors; both may be set and both are
// forwarded verbatim. Limit is the page size (the server accepts 1-1000).
// The zero value requests the server's default page.
type ListParams struct {
	BeforeID string
	AfterID  string
	Limit    int
}

// Query renders the parameters as URL query values. Safe on a nil receiver.
func (p *ListParams) Query() url.Values {
	q := url.Values{}
	if p == nil {
		return q
	}
	if p.BeforeID != "" {
		q.Set("before_id", p.BeforeID)
	}
	if p.AfterID != "" {
		q.Set("after_id", p.AfterID)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}
