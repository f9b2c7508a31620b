package utils

import (
	"strings"

	"github.com/likexian/whois"
)

// VerifyDomainRegistered runs a best-effort whois probe before a custom
// domain is saved. It only catches the obvious case of an unregistered
// domain; registry hiccups are reported as errors so the caller can
// decide whether to proceed anyway.
func VerifyDomainRegistered(domain string) (bool, error) {
	resp, err := whois.Whois(domain)
	if err != nil {
		return false, err
	}

	lower := strings.ToLower(resp)
	if strings.Contains(lower, "no match for") ||
		strings.Contains(lower, "domain not found") ||
		strings.Contains(lower, "no entries found") {
		return false, nil
	}
	return true, nil
}
