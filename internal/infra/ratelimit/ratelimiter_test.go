package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestInMemoryRateLimiter_BurstPerIdentifier(t *testing.T) {
	l := NewInMemoryRateLimiter(rate.Limit(0.001), 2, time.Minute)

	assert.True(t, l.Allow("alice"))
	assert.True(t, l.Allow("alice"))
	assert.False(t, l.Allow("alice"))

	assert.True(t, l.Allow("bob"), "buckets are per identifier")
}

func TestUnlimited(t *testing.T) {
	var l Limiter = Unlimited{}
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("anyone"))
	}
}
