// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestServiceExtractorExtract(t *testing.T) {
	var gotAccept string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/tika" {
			gotAccept = r.Header.Get("Accept")
			gotBody, _ = io.ReadAll(r.Body)
			_, _ = w.Write([]byte("Extracted document text"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	path := writeTempFile(t, "report.docx", "binary-ish document bytes")
	s := NewServiceExtractor(WithEndpoint(server.URL))

	doc, err := s.Extract(path)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.True(t, doc.Success)
	assert.Equal(t, "Extracted document text", doc.Text)
	assert.Equal(t, "service", doc.ExtractorName)
	assert.Equal(t, "docx", doc.Format)
	assert.Equal(t, 3, doc.WordCount)
	assert.Equal(t, "text/plain", gotAccept)
	assert.Equal(t, "binary-ish document bytes", string(gotBody))
}

func TestServiceExtractorRetriesOnserver500(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("second attempt text"))
	}))
	defer server.Close()

	path := writeTempFile(t, "report.docx", "content")
	s := NewServiceExtractor(WithEndpoint(server.URL))

	doc, err := s.Extract(path)
	require.NoError(t, err)
	assert.True(t, doc.Success)
	assert.Equal(t, "second attempt text", doc.Text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestServiceExtractorUnparsableDocumentNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	path := writeTempFile(t, "broken.docx", "not really a docx")
	s := NewServiceExtractor(WithEndpoint(server.URL))

	_, err := s.Extract(path)
	require.Error(t, err)

	var extErr *ExtractionError
	assert.True(t, errors.As(err, &extErr))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "permanent failures should not be retried")
}

func TestServiceExtractorUnreachableService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	path := writeTempFile(t, "report.docx", "content")
	s := NewServiceExtractor(WithEndpoint(endpoint))

	_, err := s.Extract(path)
	require.Error(t, err)

	var svcErr *ServiceUnavailableError
	assert.True(t, errors.As(err, &svcErr), "connection refused should surface as ServiceUnavailableError, got %v", err)
}

func TestServiceExtractorHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/version" {
			_, _ = w.Write([]byte("Extraction Service 2.9"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := NewServiceExtractor(WithEndpoint(server.URL))
	assert.NoError(t, s.Health(context.Background()))

	server.Close()
	err := s.Health(context.Background())
	require.Error(t, err)
	var svcErr *ServiceUnavailableError
	assert.True(t, errors.As(err, &svcErr))
}

func TestServiceExtractorCanProcess(t *testing.T) {
	s := NewServiceExtractor()

	tests := []struct {
		path string
		want bool
	}{
		{"document.docx", true},
		{"spreadsheet.XLSX", true},
		{"slides.pptx", true},
		{"message.eml", true},
		{"scan.pdf", true},
		{"notes.txt", false},
		{"photo.jpg", false},
		{"binary.exe", false},
	}

	for _, tt := range tests {
		if got := s.CanProcess(tt.path); got != tt.want {
			t.Errorf("CanProcess(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestServiceExtractorStopWithoutProcess(t *testing.T) {
	s := NewServiceExtractor()
	// Safe no-op when no process is managed
	s.Stop()
	s.Stop()
}
