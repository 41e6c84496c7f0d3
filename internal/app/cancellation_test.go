package app

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancellations_ReserveThenClaim(t *testing.T) {
	c := newCancellations()

	require.True(t, c.reserve("t1"))
	assert.False(t, c.reserve("t1"))
	assert.True(t, c.request("t1"))

	flag, ok := c.claim("t1")
	require.True(t, ok)
	assert.True(t, flag.Load(), "a request made while reserved reaches the run")

	c.release("t1", flag)
	assert.False(t, c.request("t1"))
}

func TestCancellations_ClaimRejectsRunningID(t *testing.T) {
	c := newCancellations()

	first, ok := c.claim("t1")
	require.True(t, ok)

	_, ok = c.claim("t1")
	assert.False(t, ok)

	// a stale flag must not drop the running entry
	c.release("t1", &atomic.Bool{})
	assert.True(t, c.request("t1"))
	assert.True(t, first.Load())

	c.release("t1", first)
	assert.False(t, c.request("t1"))
}
