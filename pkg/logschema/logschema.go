// Package logschema describes the GKE log types that query_logs can be pointed at
package logschema

import (
	"fmt"
	"sort"
	"strings"
)

// Log type identifiers
const (
	EventLogs       = "k8s_event_logs"
	AuditLogs       = "k8s_audit_logs"
	ApplicationLogs = "k8s_application_logs"
)

// Schema describes a log type
type Schema struct {
	LogType     string   `json:"log_type"`
	Description string   `json:"description"`
	Filter      string   `json:"filter"`
	Fields      []string `json:"fields"`
}

var schemas = map[string]Schema{
	EventLogs: {
		LogType:     EventLogs,
		Description: "Kubernetes events emitted by GKE clusters",
		Filter:      `log_id("events") AND resource.type="k8s_cluster"`,
		Fields:      []string{"event_type", "reason", "message", "involved_object"},
	},
	AuditLogs: {
		LogType:     AuditLogs,
		Description: "Kubernetes API server audit logs",
		Filter:      `log_id("cloudaudit.googleapis.com/activity") AND resource.type="k8s_cluster"`,
		Fields:      []string{"method_name", "resource_name", "response_status"},
	},
	ApplicationLogs: {
		LogType:     ApplicationLogs,
		Description: "stdout and stderr of containers running on GKE",
		Filter:      `resource.type="k8s_container"`,
		Fields:      []string{"severity", "message", "timestamp"},
	},
}

// Types returns the known log types in sorted order
func Types() []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the schema for logType
func Lookup(logType string) (Schema, error) {
	s, ok := schemas[strings.TrimSpace(logType)]
	if !ok {
		return Schema{}, fmt.Errorf("unknown log type %q, known types: %s", logType, strings.Join(Types(), ", "))
	}
	s.Fields = append([]string(nil), s.Fields...)
	return s, nil
}
