package memcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarkProcessedDeduplicates(t *testing.T) {
	store := NewWebhookEvents()

	assert.True(t, store.MarkProcessed("evt_001", time.Minute))
	assert.False(t, store.MarkProcessed("evt_001", time.Minute))
	assert.True(t, store.Seen("evt_001"))

	assert.True(t, store.MarkProcessed("evt_002", time.Minute))
	assert.False(t, store.Seen("evt_999"))
}

func TestMarkProcessedExpires(t *testing.T) {
	store := NewWebhookEvents()

	assert.True(t, store.MarkProcessed("evt_001", -time.Second))
	assert.False(t, store.Seen("evt_001"))

	// An expired id can be processed again.
	assert.True(t, store.MarkProcessed("evt_001", time.Minute))
}
