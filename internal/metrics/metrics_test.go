package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/metrics"
)

func TestCollector(t *testing.T) {
	c := metrics.NewCollector()

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	c.Registered()
	c.Registered()
	c.LoginAttempt(metrics.OutcomeSuccess)
	c.LoginAttempt(metrics.OutcomeInvalidCredentials)
	c.LoginAttempt(metrics.OutcomeInvalidCredentials)
	c.SessionsSwept(3, 4)
	c.SessionsSwept(1, 2)

	expected := `
# HELP finboard_active_sessions The number of sessions held after the last sweep.
# TYPE finboard_active_sessions gauge
finboard_active_sessions 2
# HELP finboard_login_attempts_total The number of login attempts by outcome.
# TYPE finboard_login_attempts_total counter
finboard_login_attempts_total{outcome="invalid_credentials"} 2
finboard_login_attempts_total{outcome="success"} 1
# HELP finboard_registrations_total The number of users registered.
# TYPE finboard_registrations_total counter
finboard_registrations_total 2
# HELP finboard_swept_sessions_total The number of expired sessions removed by the sweeper.
# TYPE finboard_swept_sessions_total counter
finboard_swept_sessions_total 4
`

	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected)))
}
