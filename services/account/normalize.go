package account

import "strings"

// NormalizeAddress lower-cases the domain of an email address and keeps the
// local part verbatim. Addresses without an "@" are returned unchanged.
func NormalizeAddress(address string) string {
	at := strings.LastIndex(address, "@")
	if at < 0 {
		return address
	}
	return address[:at+1] + strings.ToLower(address[at+1:])
}
