package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims and dedups list fields, then checks the result.
// Warnings never block a save; errors do.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Feeds.URLs = trimList(out.Feeds.URLs)
	out.Email.SearchSubjectAny = trimList(out.Email.SearchSubjectAny)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Polling.ScanSeconds <= 0 {
		res.addErr("polling.scan_seconds must be > 0")
	} else if out.Polling.ScanSeconds < 30 {
		res.addWarn("polling.scan_seconds is very low (%d) and may cause rate limits.", out.Polling.ScanSeconds)
	}
	if out.Polling.CleanupDays < 0 {
		res.addErr("polling.cleanup_days must be >= 0")
	}

	if out.Feeds.Enabled {
		if len(out.Feeds.URLs) == 0 {
			res.addErr("feeds.urls is required when feeds.enabled=true")
		}
		for _, u := range out.Feeds.URLs {
			if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
				res.addErr("feeds.urls entry %q must be an absolute http(s) URL", u)
			}
		}
		if out.Feeds.LookbackDays <= 0 {
			res.addWarn("feeds.lookback_days is unset; defaulting to 7.")
		}
	}

	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if out.Email.IMAPPort == 0 {
			res.addErr("email.imap_port is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Mailbox) == "" {
			res.addWarn("email.mailbox is empty; defaulting to INBOX.")
		}
		if len(out.Email.SearchSubjectAny) == 0 {
			res.addWarn("email.search_subject_any is empty; every unseen message will be scanned.")
		}
	}

	if !out.Feeds.Enabled && !out.Email.Enabled {
		res.addWarn("no sources enabled; scans will do nothing until feeds or email is turned on.")
	}

	return out, res
}
