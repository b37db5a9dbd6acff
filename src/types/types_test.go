package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntentStatusTerminal(t *testing.T) {
	assert.False(t, INTENT_LOCKED.Terminal())
	for _, status := range []IntentStatus{INTENT_PAID, INTENT_EXPIRED, INTENT_CANCELLED, INTENT_FAILED} {
		assert.True(t, status.Terminal(), string(status))
	}
}
