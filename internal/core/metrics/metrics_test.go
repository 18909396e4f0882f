package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/coachkit/rulekeeper/internal/types"
)

func TestRecordConflictCheck(t *testing.T) {
	blockedBefore := testutil.ToFloat64(conflictChecks.WithLabelValues("blocked"))
	criticalBefore := testutil.ToFloat64(conflictEntries.WithLabelValues("critical"))
	clearBefore := testutil.ToFloat64(conflictChecks.WithLabelValues("clear"))

	RecordConflictCheck([]types.ConflictEntry{{Kind: types.ConflictCritical}, {Kind: types.ConflictInfo}}, true)
	RecordConflictCheck(nil, false)

	assert.Equal(t, blockedBefore+1, testutil.ToFloat64(conflictChecks.WithLabelValues("blocked")))
	assert.Equal(t, criticalBefore+1, testutil.ToFloat64(conflictEntries.WithLabelValues("critical")))
	assert.Equal(t, clearBefore+1, testutil.ToFloat64(conflictChecks.WithLabelValues("clear")))
}

func TestRecordResolution(t *testing.T) {
	before := testutil.ToFloat64(resolutions.WithLabelValues("fitness", "true"))
	contradictionsBefore := testutil.ToFloat64(contradictions)

	RecordResolution(types.CategoryFitness, true, 2, 0.001)

	assert.Equal(t, before+1, testutil.ToFloat64(resolutions.WithLabelValues("fitness", "true")))
	assert.Equal(t, contradictionsBefore+2, testutil.ToFloat64(contradictions))
}

func TestHandlerExposesInstruments(t *testing.T) {
	RecordRequest("CheckRule", codes.OK)
	RecordBlocked("save")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "rulekeeper_grpc_requests_total")
	assert.Contains(t, string(body), "rulekeeper_authoring_saves_blocked_total")
}
