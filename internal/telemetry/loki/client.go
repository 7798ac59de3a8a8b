// Package loki pushes client usage events to Grafana Loki.
package loki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/telemetry"
)

// PushRequest is the Loki push API request body (v1).
type PushRequest struct {
	Streams []Stream `json:"streams"`
}

// Stream is a single stream with labels and log entries.
type Stream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"` // each entry is [timestamp_ns, log_line]
}

// labelSanitize replaces characters that are invalid in Loki label values we set.
var labelSanitize = regexp.MustCompile(`[^a-zA-Z0-9_\-:.]`)

// Emitter implements telemetry.EventEmitter by pushing each event as one JSON log line.
// Labels are low-cardinality only: job, event_type, source and role. The user id stays in the line.
type Emitter struct {
	baseURL string
	client  *http.Client
	nowF    func() time.Time
}

// NewEmitter returns an emitter for the Loki at baseURL (e.g. http://localhost:3100), or nil when baseURL is empty.
// A nil *Emitter emits nothing.
func NewEmitter(baseURL string, timeout time.Duration) *Emitter {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	return &Emitter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		nowF:    time.Now,
	}
}

// Emit pushes event to Loki.
func (e *Emitter) Emit(ctx context.Context, event *telemetry.Event) error {
	if e == nil || event == nil {
		return nil
	}
	ev := event.Stamped(e.nowF())
	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	labels := map[string]string{"job": "nexus"}
	for k, v := range map[string]string{"event_type": ev.Type, "source": ev.Source, "role": ev.Role} {
		if s := labelSanitize.ReplaceAllString(strings.TrimSpace(v), "_"); s != "" {
			labels[k] = s
		}
	}
	return e.push(ctx, PushRequest{Streams: []Stream{{
		Stream: labels,
		Values: [][]string{{fmt.Sprintf("%d", ev.CreatedAt.UnixNano()), string(line)}},
	}}})
}

func (e *Emitter) push(ctx context.Context, body PushRequest) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/loki/api/v1/push", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("loki: push returned %s", resp.Status)
	}
	return nil
}
