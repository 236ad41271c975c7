package gcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/logging"
	"cloud.google.com/go/logging/logadmin"
	"google.golang.org/api/iterator"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// LogService queries Cloud Logging
type LogService interface {
	// ListEntries returns at most limit entries of project matching filter
	ListEntries(ctx context.Context, project, filter string, limit int, newestFirst bool) ([]LogEntry, error)
}

// LogEntry is the query_logs projection of a log entry
type LogEntry struct {
	Timestamp    time.Time         `json:"timestamp"`
	Severity     string            `json:"severity"`
	LogName      string            `json:"log_name,omitempty"`
	ResourceType string            `json:"resource_type,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`
	Payload      interface{}       `json:"payload,omitempty"`
}

type logService struct {
	clients *Clients
}

func (s *logService) ListEntries(ctx context.Context, project, filter string, limit int, newestFirst bool) ([]LogEntry, error) {
	client, err := s.clients.logAdminClient(ctx, project)
	if err != nil {
		return nil, err
	}

	opts := []logadmin.EntriesOption{logadmin.Filter(filter)}
	if newestFirst {
		opts = append(opts, logadmin.NewestFirst())
	}

	it := client.Entries(ctx, opts...)
	it.PageInfo().MaxSize = limit

	entries := []LogEntry{}
	for len(entries) < limit {
		e, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query logs of project %s: %w", project, err)
		}
		entries = append(entries, ConvertLogEntry(e))
	}
	return entries, nil
}

// ConvertLogEntry projects a Cloud Logging entry
func ConvertLogEntry(e *logging.Entry) LogEntry {
	return LogEntry{
		Timestamp:    e.Timestamp,
		Severity:     e.Severity.String(),
		LogName:      e.LogName,
		ResourceType: e.Resource.GetType(),
		Labels:       e.Labels,
		Payload:      convertPayload(e.Payload),
	}
}

// convertPayload turns the text, JSON or proto payload of an entry into a JSON friendly value
func convertPayload(payload interface{}) interface{} {
	switch p := payload.(type) {
	case nil:
		return nil
	case string:
		return p
	case *structpb.Struct:
		return p.AsMap()
	case proto.Message:
		b, err := protojson.Marshal(p)
		if err != nil {
			return fmt.Sprint(p)
		}
		return string(b)
	default:
		return p
	}
}
