package logschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		logType string
		fields  []string
	}{
		{EventLogs, []string{"event_type", "reason", "message", "involved_object"}},
		{AuditLogs, []string{"method_name", "resource_name", "response_status"}},
		{ApplicationLogs, []string{"severity", "message", "timestamp"}},
	}

	for _, tt := range tests {
		t.Run(tt.logType, func(t *testing.T) {
			s, err := Lookup(tt.logType)
			require.NoError(t, err)
			assert.Equal(t, tt.logType, s.LogType)
			assert.Equal(t, tt.fields, s.Fields)
			assert.NotEmpty(t, s.Filter)
			assert.NotEmpty(t, s.Description)
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("k8s_node_logs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log type")
	assert.Contains(t, err.Error(), "k8s_application_logs, k8s_audit_logs, k8s_event_logs")
}

func TestLookupReturnsCopy(t *testing.T) {
	s, err := Lookup(EventLogs)
	require.NoError(t, err)
	s.Fields[0] = "mutated"

	again, err := Lookup(EventLogs)
	require.NoError(t, err)
	assert.Equal(t, "event_type", again.Fields[0])
}

func TestTypes(t *testing.T) {
	assert.Equal(t, []string{ApplicationLogs, AuditLogs, EventLogs}, Types())
}
