package keys

import (
	"strings"
)

const (
	// PfxHealthCheck is used for prefixing health check redis key
	PfxHealthCheck = "healthcheck"
	// PfxLedgerAsset is used for prefixing cached asset records
	PfxLedgerAsset = "ledger:asset"
	// PfxLedgerApp is used for prefixing cached application records
	PfxLedgerApp = "ledger:app"
)

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}

// GetPrefix extracts the prefix of a key, at most its first two components.
// It tags redis metrics.
func GetPrefix(key string) string {
	s := strings.SplitN(key, ":", 3)
	switch len(s) {
	case 3:
		return s[0] + ":" + s[1]
	case 2:
		return s[0]
	}
	return ""
}
