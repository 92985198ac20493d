package testinfra

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// UploadedPart is one file part received by the fake ingestion service.
type UploadedPart struct {
	Field    string
	Filename string
	Data     []byte
}

// ReceivedUpload is one multipart POST received by the fake ingestion service.
type ReceivedUpload struct {
	APIKey string
	RunID  string
	Parts  []UploadedPart
}

// Fields returns the part field names in the order they were sent.
func (u ReceivedUpload) Fields() []string {
	fields := make([]string, len(u.Parts))
	for i, p := range u.Parts {
		fields[i] = p.Field
	}
	return fields
}

// ReceivedReload is one reload GET received by the fake ingestion service.
type ReceivedReload struct {
	APIKey string
	RunID  string
}

// IngestServer is an httptest server that mimics the dataset ingestion API.
// It records everything it receives and answers with configurable statuses.
type IngestServer struct {
	*httptest.Server

	mu           sync.Mutex
	uploads      []ReceivedUpload
	reloads      []ReceivedReload
	requests     int
	uploadStatus int
	uploadBody   string
	reloadStatus int
	reloadBody   string
}

// NewIngestServer starts a server that answers 200 to both endpoints.
// The server is closed by the caller.
func NewIngestServer() *IngestServer {
	s := &IngestServer{
		uploadStatus: http.StatusOK,
		uploadBody:   `{"status":"ok"}`,
		reloadStatus: http.StatusOK,
		reloadBody:   `{"status":"reloaded"}`,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.count)
	r.Post("/upload-dataframes/", s.handleUpload)
	r.Get("/reload-resources/", s.handleReload)

	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL returns the API root with a trailing slash.
func (s *IngestServer) BaseURL() string {
	return s.URL + "/"
}

// SetUploadResponse changes the status and body returned by the upload endpoint.
func (s *IngestServer) SetUploadResponse(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadStatus, s.uploadBody = status, body
}

// SetReloadResponse changes the status and body returned by the reload endpoint.
func (s *IngestServer) SetReloadResponse(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadStatus, s.reloadBody = status, body
}

// Uploads returns a copy of the uploads received so far.
func (s *IngestServer) Uploads() []ReceivedUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ReceivedUpload(nil), s.uploads...)
}

// Reloads returns a copy of the reload calls received so far.
func (s *IngestServer) Reloads() []ReceivedReload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ReceivedReload(nil), s.reloads...)
}

// RequestCount returns the number of requests of any kind, including
// those to unknown routes.
func (s *IngestServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *IngestServer) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *IngestServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	received := ReceivedUpload{
		APIKey: r.Header.Get("api_key"),
		RunID:  r.Header.Get("X-Run-ID"),
	}

	mr, err := r.MultipartReader()
	if err != nil {
		http.Error(w, "expected multipart body: "+err.Error(), http.StatusBadRequest)
		return
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			http.Error(w, "bad multipart body: "+err.Error(), http.StatusBadRequest)
			return
		}
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, part); err != nil {
			http.Error(w, "read part: "+err.Error(), http.StatusBadRequest)
			return
		}
		received.Parts = append(received.Parts, UploadedPart{
			Field:    part.FormName(),
			Filename: part.FileName(),
			Data:     buf.Bytes(),
		})
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, received)
	status, body := s.uploadStatus, s.uploadBody
	s.mu.Unlock()

	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (s *IngestServer) handleReload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.reloads = append(s.reloads, ReceivedReload{
		APIKey: r.Header.Get("api_key"),
		RunID:  r.Header.Get("X-Run-ID"),
	})
	status, body := s.reloadStatus, s.reloadBody
	s.mu.Unlock()

	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
