package util

import (
	"net/url"
	"sort"
	"strings"
)

// CleanURL canonicalizes a posting URL: lowercases scheme/host, drops the
// fragment and known tracking parameters, and emits a deterministic query
// order. The job-identifying path segment is always preserved. Unparseable
// input is returned as-is so a weird but working link is never lost.
func CleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "mc_cid" || lk == "mc_eid" ||
			lk == "mkt_tok" ||
			lk == "trk" || lk == "trkemail" || lk == "refid" || lk == "ref" ||
			lk == "midtoken" || lk == "midsig" || lk == "eid" ||
			lk == "lipi" || lk == "licu" {
			q.Del(k)
		}
	}

	// Indeed identifies the posting by jk/vjk; everything else in its query
	// string is per-recipient tracking.
	if strings.Contains(u.Host, "indeed.com") {
		keep := url.Values{}
		for _, k := range []string{"jk", "vjk"} {
			if v := q.Get(k); v != "" {
				keep.Set(k, v)
			}
		}
		q = keep
	}

	if strings.Contains(u.Host, "linkedin.com") {
		keep := url.Values{}
		if v := q.Get("currentJobId"); v != "" {
			keep.Set("currentJobId", v)
		}
		q = keep
	}

	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// ResolveRedirect unwraps common mail-client redirect wrappers (?url= and
// Google's /url?q=) so the stored URL points at the actual posting.
func ResolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}

	if raw := u.Query().Get("url"); raw != "" {
		if uu, err := url.Parse(raw); err == nil && uu.Host != "" {
			return uu.String()
		}
	}

	if strings.Contains(strings.ToLower(u.Host), "google.") && strings.HasPrefix(u.Path, "/url") {
		if q := u.Query().Get("q"); q != "" {
			if uu, err := url.Parse(q); err == nil && uu.Host != "" {
				return uu.String()
			}
		}
	}

	return href
}
