package subscriber

import (
	"fmt"
	"net/mail"
	"strings"
)

// NormalizeEmail validates the address and returns its canonical
// lower-cased form. Checks are syntactic plus deliverability-shape only
// (label structure, dots, TLD); nothing touches the network at
// registration time.
func NormalizeEmail(raw string) (string, error) {
	addr := strings.TrimSpace(raw)
	if addr == "" {
		return "", fmt.Errorf("address is empty")
	}
	if len(addr) > 254 {
		return "", fmt.Errorf("address exceeds 254 characters")
	}

	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return "", fmt.Errorf("malformed address")
	}
	// ParseAddress accepts "Name <a@b.c>" forms; a bare address is required.
	if parsed.Address != addr {
		return "", fmt.Errorf("address must not include a display name")
	}

	local, dom, ok := strings.Cut(parsed.Address, "@")
	if !ok || local == "" || dom == "" {
		return "", fmt.Errorf("malformed address")
	}
	if len(local) > 64 {
		return "", fmt.Errorf("local part exceeds 64 characters")
	}
	if err := checkDomainShape(dom); err != nil {
		return "", err
	}

	return strings.ToLower(parsed.Address), nil
}

// checkDomainShape rejects domains that could never receive mail: no dot
// (bare hosts like "localhost"), empty or oversized labels, hyphens at
// label edges, or a non-alphabetic/too-short TLD.
func checkDomainShape(dom string) error {
	if strings.HasPrefix(dom, "[") {
		return fmt.Errorf("address literals are not accepted")
	}

	labels := strings.Split(dom, ".")
	if len(labels) < 2 {
		return fmt.Errorf("domain %q has no top-level domain", dom)
	}

	for _, label := range labels {
		if label == "" {
			return fmt.Errorf("domain %q has an empty label", dom)
		}
		if len(label) > 63 {
			return fmt.Errorf("domain label exceeds 63 characters")
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return fmt.Errorf("domain label starts or ends with a hyphen")
		}
		for _, r := range label {
			if !isDomainChar(r) {
				return fmt.Errorf("domain %q contains invalid characters", dom)
			}
		}
	}

	tld := labels[len(labels)-1]
	if len(tld) < 2 {
		return fmt.Errorf("top-level domain is too short")
	}
	for _, r := range tld {
		if !isAlpha(r) {
			return fmt.Errorf("top-level domain must be alphabetic")
		}
	}

	return nil
}

func isDomainChar(r rune) bool {
	return isAlpha(r) || (r >= '0' && r <= '9') || r == '-'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
