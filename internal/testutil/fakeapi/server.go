// Package fakeapi is a scriptable stand-in for the download server, used by tests.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Reply is one scripted HTTP answer. Body is JSON-encoded unless Raw is set.
// Abort drops the connection without a response, which the client sees as a
// transport failure. Every answer closes its connection, so the client never
// replays an aborted request on a fresh one.
type Reply struct {
	Status int
	Body   any
	Raw    string
	Abort  bool
}

// File is served by the file endpoint
type File struct {
	Name string
	Data []byte
}

// DownloadRequest is what the client posted to the download endpoint
type DownloadRequest struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
}

// Server records calls and replies from scripts
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	info          Reply
	infoGate      chan struct{}
	download      Reply
	downloadGate  chan struct{}
	statuses      map[string][]Reply
	files         map[string]File
	health        Reply
	infoCalls     int
	downloadCalls int
	statusCalls   map[string]int
	fileCalls     map[string]int
	lastInfoURL   string
	lastDownload  DownloadRequest
}

// New starts a server and closes it when the test ends
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		info:        Reply{Body: map[string]any{"success": false, "error": "not scripted"}},
		download:    Reply{Body: map[string]any{"success": false, "error": "not scripted"}},
		health:      Reply{Body: map[string]any{"status": "healthy"}},
		statuses:    make(map[string][]Reply),
		files:       make(map[string]File),
		statusCalls: make(map[string]int),
		fileCalls:   make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(closeConnection)
	r.Post("/api/info", s.handleInfo)
	r.Post("/api/download", s.handleDownload)
	r.Get("/api/status/{jobID}", s.handleStatus)
	r.Get("/api/file/{token}", s.handleFile)
	r.Get("/health", s.handleHealth)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Info scripts the info endpoint
func (s *Server) Info(r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = r
}

// VideoInfo scripts a successful info response
func (s *Server) VideoInfo(title, uploader string, duration int, thumbnail string) {
	s.Info(Reply{Body: map[string]any{
		"success":   true,
		"title":     title,
		"uploader":  uploader,
		"duration":  duration,
		"thumbnail": thumbnail,
	}})
}

// HoldInfo makes the info handler wait until the returned channel is closed
func (s *Server) HoldInfo() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infoGate = make(chan struct{})
	return s.infoGate
}

// Download scripts the download endpoint
func (s *Server) Download(r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.download = r
}

// JobID scripts a successful submit returning id
func (s *Server) JobID(id string) {
	s.Download(Reply{Body: map[string]any{"success": true, "job_id": id, "message": "Download started"}})
}

// HoldDownload makes the download handler wait until the returned channel is closed
func (s *Server) HoldDownload() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloadGate = make(chan struct{})
	return s.downloadGate
}

// Statuses scripts successive poll answers for a job. The last one repeats.
func (s *Server) Statuses(jobID string, replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[jobID] = append([]Reply(nil), replies...)
}

// Status builds a status reply body
func Status(status string, progress int, token, errMsg string) Reply {
	body := map[string]any{"status": status, "progress": progress}
	if token != "" {
		body["token"] = token
	}
	if errMsg != "" {
		body["error"] = errMsg
	}
	return Reply{Body: body}
}

// AddFile registers a file for token
func (s *Server) AddFile(token string, f File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[token] = f
}

// Health scripts the health endpoint
func (s *Server) Health(r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = r
}

// InfoCalls returns how many info requests arrived
func (s *Server) InfoCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.infoCalls
}

// LastInfoURL returns the url of the latest info request
func (s *Server) LastInfoURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastInfoURL
}

// DownloadCalls returns how many submit requests arrived
func (s *Server) DownloadCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downloadCalls
}

// LastDownload returns the body of the latest submit request
func (s *Server) LastDownload() DownloadRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDownload
}

// StatusCalls returns how many polls arrived for jobID
func (s *Server) StatusCalls(jobID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusCalls[jobID]
}

// FileCalls returns how many fetches arrived for token
func (s *Server) FileCalls(token string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileCalls[token]
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	s.infoCalls++
	s.lastInfoURL = body.URL
	reply, gate := s.info, s.infoGate
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	write(w, reply)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var body DownloadRequest
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	s.downloadCalls++
	s.lastDownload = body
	reply, gate := s.download, s.downloadGate
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	write(w, reply)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	s.mu.Lock()
	n := s.statusCalls[jobID]
	s.statusCalls[jobID] = n + 1
	script := s.statuses[jobID]
	s.mu.Unlock()

	if len(script) == 0 {
		write(w, Reply{Status: http.StatusNotFound, Body: map[string]any{"detail": "Job not found"}})
		return
	}
	if n >= len(script) {
		n = len(script) - 1
	}
	write(w, script[n])
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	s.mu.Lock()
	s.fileCalls[token]++
	f, ok := s.files[token]
	// one-time links, like the real server
	delete(s.files, token)
	s.mu.Unlock()

	if !ok {
		write(w, Reply{Status: http.StatusNotFound, Body: map[string]any{"detail": "File not found or link expired"}})
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.Name+`"`)
	_, _ = w.Write(f.Data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	reply := s.health
	s.mu.Unlock()
	write(w, reply)
}

func closeConnection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Connection", "close")
		next.ServeHTTP(w, r)
	})
}

func write(w http.ResponseWriter, r Reply) {
	if r.Abort {
		panic(http.ErrAbortHandler)
	}
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if r.Raw != "" {
		_, _ = w.Write([]byte(r.Raw))
		return
	}
	_ = json.NewEncoder(w).Encode(r.Body)
}
