package contact

import "regexp"

// emailPattern is a lexical sanity check, not an RFC 5322 parser. It wants one
// '@' with non-empty, whitespace-free segments on both sides and at least one
// '.' splitting the domain into two non-empty parts.
//
// The excluded class mirrors the JavaScript \s set (ASCII controls, Unicode
// space separators and the BOM) so what the browser's form check rejects the
// server rejects too.
var emailPattern = regexp.MustCompile(`^[^@\s\v\p{Z}\x{FEFF}]+@[^@\s\v\p{Z}\x{FEFF}]+\.[^@\s\v\p{Z}\x{FEFF}]+$`)

// IsValidEmail reports whether s looks like an email address.
//
// It is deliberately lenient: "a@b..com" passes and quoted local parts fail.
// It never checks deliverability or that the domain exists.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
