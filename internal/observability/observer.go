// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// OperationRecord is one timed pipeline operation, emitted as a JSON line.
type OperationRecord struct {
	Timestamp  string                 `json:"timestamp"`
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	FilePath   string                 `json:"file_path,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Success    bool                   `json:"success"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// StandardObserver records timing and debug detail for pipeline components.
// A nil writer or ObservabilityOff level makes every method a no-op.
type StandardObserver struct {
	level  ObservabilityLevel
	writer io.Writer
}

// NewStandardObserver creates observability component
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	return &StandardObserver{
		level:  level,
		writer: writer,
	}
}

// StartTiming begins timing an operation. The returned function completes
// the record and emits it.
func (o *StandardObserver) StartTiming(component, operation, filePath string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		o.LogOperation(OperationRecord{
			Component:  component,
			Operation:  operation,
			FilePath:   filePath,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation emits an operation record. Records are only written at debug
// level; the metrics level reserves the hook without output.
func (o *StandardObserver) LogOperation(record OperationRecord) {
	if o.level != ObservabilityDebug || o.writer == nil {
		return
	}
	record.Timestamp = time.Now().Format(time.RFC3339)
	_ = json.NewEncoder(o.writer).Encode(record)
}

// LogDetail writes a free-form debug line for a component
func (o *StandardObserver) LogDetail(component, detail string) {
	if o.level != ObservabilityDebug || o.writer == nil {
		return
	}
	fmt.Fprintf(o.writer, "[DEBUG] %s: %s\n", component, detail)
}
