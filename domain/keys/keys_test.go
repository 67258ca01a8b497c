package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "ledger:asset:12", RedisKey(PfxLedgerAsset, "12"))
	assert.Equal(t, "a", RedisKey("a"))
	assert.Equal(t, "a-b", CustomKey("-", "a", "b"))
}

func TestGetPrefix(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"ledger:asset:12", "ledger:asset"},
		{"ledger:app:3:extra", "ledger:app"},
		{"healthcheck:x", "healthcheck"},
		{"plain", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetPrefix(tt.key), tt.key)
	}
}
