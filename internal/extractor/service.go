// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"piiscan/internal/observability"
	"piiscan/internal/resilience"
)

// DefaultServiceEndpoint is where a locally running document extraction
// service is expected to listen.
const DefaultServiceEndpoint = "http://localhost:9998"

// serviceExtensions lists formats delegated to the extraction service.
// Everything the service's parsers understand beyond what the built-in
// extractors cover.
var serviceExtensions = []string{
	".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".odt", ".ods", ".odp", ".rtf",
	".html", ".htm", ".xml",
	".pdf",
	".msg", ".eml",
	".epub",
}

// ServiceExtractor extracts text by sending files to a Tika-compatible
// HTTP service. It can optionally manage the service process itself,
// starting it on first use and stopping it when the scan finishes.
type ServiceExtractor struct {
	endpoint string
	client   *http.Client
	observer *observability.StandardObserver

	// Managed service process, nil when attaching to an external service.
	command string
	args    []string
	mu      sync.Mutex
	proc    *exec.Cmd
	started bool
}

// ServiceOption configures a ServiceExtractor.
type ServiceOption func(*ServiceExtractor)

// WithEndpoint overrides the default service endpoint.
func WithEndpoint(endpoint string) ServiceOption {
	return func(s *ServiceExtractor) {
		s.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithManagedProcess makes the extractor launch the service itself using
// the given command. Stop must be called to shut the process down.
func WithManagedProcess(command string, args ...string) ServiceOption {
	return func(s *ServiceExtractor) {
		s.command = command
		s.args = args
	}
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) ServiceOption {
	return func(s *ServiceExtractor) {
		s.client = client
	}
}

// NewServiceExtractor creates a service-backed extractor.
func NewServiceExtractor(opts ...ServiceOption) *ServiceExtractor {
	s := &ServiceExtractor{
		endpoint: DefaultServiceEndpoint,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetObserver sets the observability component
func (s *ServiceExtractor) SetObserver(observer *observability.StandardObserver) {
	s.observer = observer
}

// Name returns the name of this extractor
func (s *ServiceExtractor) Name() string {
	return "service"
}

// SupportedExtensions returns the file extensions this extractor supports
func (s *ServiceExtractor) SupportedExtensions() []string {
	return serviceExtensions
}

// CanProcess checks if this extractor can handle the given file
func (s *ServiceExtractor) CanProcess(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, supported := range s.serviceExtensionSet() {
		if ext == supported {
			return true
		}
	}
	return false
}

func (s *ServiceExtractor) serviceExtensionSet() []string {
	return serviceExtensions
}

// Endpoint returns the configured service endpoint.
func (s *ServiceExtractor) Endpoint() string {
	return s.endpoint
}

// Health checks whether the service answers its version endpoint.
func (s *ServiceExtractor) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"/version", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return &ServiceUnavailableError{Endpoint: s.endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return &ServiceUnavailableError{
			Endpoint: s.endpoint,
			Err:      fmt.Errorf("health check returned status %d", resp.StatusCode),
		}
	}
	return nil
}

// Ensure makes the service reachable, launching the managed process when
// one is configured and the endpoint does not answer.
func (s *ServiceExtractor) Ensure(ctx context.Context) error {
	if err := s.Health(ctx); err == nil {
		return nil
	}

	if s.command == "" {
		// Not managing the process, one retry covers a service
		// that is momentarily restarting.
		err := resilience.RetryWithBackoff(ctx, resilience.ServiceRetryConfig(), func(ctx context.Context) error {
			if err := s.Health(ctx); err != nil {
				return resilience.NewTransientError("service health check failed", err)
			}
			return nil
		})
		if err != nil {
			return &ServiceUnavailableError{Endpoint: s.endpoint, Err: err}
		}
		return nil
	}

	if err := s.startProcess(); err != nil {
		return &ServiceUnavailableError{Endpoint: s.endpoint, Err: err}
	}

	// Poll until the freshly started service answers.
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		if err := s.Health(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return &ServiceUnavailableError{
		Endpoint: s.endpoint,
		Err:      fmt.Errorf("service did not become ready"),
	}
}

func (s *ServiceExtractor) startProcess() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	cmd := exec.Command(s.command, s.args...) // #nosec G204 - command comes from user configuration
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start extraction service: %w", err)
	}
	s.proc = cmd
	s.started = true
	if s.observer != nil {
		s.observer.LogDetail("service", fmt.Sprintf("started extraction service (pid %d)", cmd.Process.Pid))
	}
	return nil
}

// Stop shuts down the managed service process if one was started.
// Safe to call multiple times and when no process is managed.
func (s *ServiceExtractor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.proc == nil || s.proc.Process == nil {
		return
	}
	_ = s.proc.Process.Kill()
	_, _ = s.proc.Process.Wait()
	s.proc = nil
	s.started = false
	if s.observer != nil {
		s.observer.LogDetail("service", "stopped extraction service")
	}
}

// Extract sends the file to the service and returns the extracted text.
func (s *ServiceExtractor) Extract(filePath string) (*Document, error) {
	var finishTiming func(bool, map[string]interface{})
	if s.observer != nil {
		finishTiming = s.observer.StartTiming("service_extractor", "extract", filePath)
	}

	doc, err := s.extract(filePath)
	if finishTiming != nil {
		if err != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		} else {
			finishTiming(true, map[string]interface{}{
				"word_count": doc.WordCount,
				"char_count": doc.CharCount,
			})
		}
	}
	return doc, err
}

func (s *ServiceExtractor) extract(filePath string) (*Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	text, err := resilience.RetryWithResult(ctx, resilience.ServiceRetryConfig(), func(ctx context.Context) (string, error) {
		return s.putFile(ctx, filePath)
	})
	if err != nil {
		var classified *resilience.ClassifiedError
		if errors.As(err, &classified) && classified.Type == resilience.ErrorTypeServiceUnavailable {
			return nil, &ServiceUnavailableError{Endpoint: s.endpoint, Err: err}
		}
		return nil, &ExtractionError{Path: filePath, Extractor: s.Name(), Err: err}
	}

	doc := &Document{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          text,
		Format:        strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), "."),
		ExtractorName: s.Name(),
		Success:       true,
	}
	doc.fillCounts()
	return doc, nil
}

// putFile performs one PUT /tika request with the file body.
func (s *ServiceExtractor) putFile(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath) // #nosec G304 - path comes from the directory walk
	if err != nil {
		return "", resilience.NewPermanentError("failed to open file for extraction", err)
	}
	defer func() { _ = f.Close() }()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.endpoint+"/tika", f)
	if err != nil {
		return "", resilience.NewPermanentError("failed to build extraction request", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", resilience.ClassifyError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resilience.NewTransientError("failed to read service response", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return string(body), nil
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return "", resilience.NewPermanentError(
			fmt.Sprintf("service cannot parse document (status %d)", resp.StatusCode), nil)
	case resp.StatusCode >= 500:
		return "", resilience.NewTransientError(
			fmt.Sprintf("service returned status %d", resp.StatusCode), nil)
	default:
		return "", resilience.NewPermanentError(
			fmt.Sprintf("service returned status %d", resp.StatusCode), nil)
	}
}
