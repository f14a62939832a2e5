package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"

	authHttp "github.com/MrJamesThe3rd/finboard/internal/http/auth"
)

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = addr

	return req
}

func TestLimiter_Allow(t *testing.T) {
	clk := testclock.NewClock(epoch)
	l := authHttp.NewLimiter(6, 3, clk)

	for i := range 3 {
		ok, _ := l.Allow(requestFrom("10.0.0.1:1234"))
		assert.True(t, ok, "request %d within burst", i+1)
	}

	ok, wait := l.Allow(requestFrom("10.0.0.1:5678"))
	assert.False(t, ok)
	assert.Equal(t, 10*time.Second, wait)

	ok, _ = l.Allow(requestFrom("10.0.0.2:1234"))
	assert.True(t, ok, "other clients have their own bucket")

	clk.Advance(10 * time.Second)

	ok, _ = l.Allow(requestFrom("10.0.0.1:1234"))
	assert.True(t, ok)

	ok, _ = l.Allow(requestFrom("10.0.0.1:1234"))
	assert.False(t, ok)
}

func TestLimiter_DeniedRequestsDoNotConsume(t *testing.T) {
	clk := testclock.NewClock(epoch)
	l := authHttp.NewLimiter(60, 1, clk)

	ok, _ := l.Allow(requestFrom("10.0.0.1:1"))
	assert.True(t, ok)

	for range 5 {
		ok, _ = l.Allow(requestFrom("10.0.0.1:1"))
		assert.False(t, ok)
	}

	clk.Advance(time.Second)

	ok, _ = l.Allow(requestFrom("10.0.0.1:1"))
	assert.True(t, ok)
}
