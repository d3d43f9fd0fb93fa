// internal/stub/ratelimit_test.go
package stub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterEnforcesLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	// Other clients have their own budget.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiterDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(5, 10*time.Millisecond)

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.2")
	rl.Allow("10.0.0.3")

	time.Sleep(20 * time.Millisecond)

	// The next call prunes every client whose window has fully expired.
	assert.True(t, rl.Allow("10.0.0.4"))

	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	assert.Len(t, rl.requests, 1, "idle clients must not accumulate")
	assert.Contains(t, rl.requests, "10.0.0.4")
}
