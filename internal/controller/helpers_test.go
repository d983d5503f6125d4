package controller

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-web-client/internal/api"
	"github.com/ytget/yt-web-client/internal/model"
	"github.com/ytget/yt-web-client/internal/testutil/fakeapi"
)

const (
	waitTimeout = 2 * time.Second
	videoURL    = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
)

// manualTicker fires only when the test calls tick
type manualTicker struct {
	interval time.Duration
	ch       chan time.Time
	stopped  chan struct{}
	once     sync.Once
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }

func (m *manualTicker) Stop() {
	m.once.Do(func() { close(m.stopped) })
}

// tick blocks until the poller takes the tick, which also means the previous tick
// has been fully handled.
func (m *manualTicker) tick(t *testing.T) {
	t.Helper()
	select {
	case m.ch <- time.Now():
	case <-time.After(waitTimeout):
		t.Fatal("poller is not waiting for a tick")
	}
}

func (m *manualTicker) waitStopped(t *testing.T) {
	t.Helper()
	select {
	case <-m.stopped:
	case <-time.After(waitTimeout):
		t.Fatal("ticker was not stopped")
	}
}

func (m *manualTicker) isStopped() bool {
	select {
	case <-m.stopped:
		return true
	default:
		return false
	}
}

type tickers struct {
	created chan *manualTicker
}

func newTickers() *tickers {
	return &tickers{created: make(chan *manualTicker, 8)}
}

func (ts *tickers) new(d time.Duration) Ticker {
	m := &manualTicker{
		interval: d,
		ch:       make(chan time.Time),
		stopped:  make(chan struct{}),
	}
	ts.created <- m
	return m
}

func (ts *tickers) next(t *testing.T) *manualTicker {
	t.Helper()
	select {
	case m := <-ts.created:
		return m
	case <-time.After(waitTimeout):
		t.Fatal("no poller started")
		return nil
	}
}

func (ts *tickers) none(t *testing.T) {
	t.Helper()
	select {
	case <-ts.created:
		t.Fatal("unexpected poller started")
	default:
	}
}

// fakeTimers records scheduled link notices instead of running them
type fakeTimers struct {
	mu      sync.Mutex
	delays  []time.Duration
	fns     []func()
	stopped int
}

func (f *fakeTimers) afterFunc(d time.Duration, fn func()) func() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays = append(f.delays, d)
	f.fns = append(f.fns, fn)
	return func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.stopped++
		return true
	}
}

func (f *fakeTimers) scheduled() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fns)
}

func (f *fakeTimers) fire(i int) {
	f.mu.Lock()
	fn := f.fns[i]
	f.mu.Unlock()
	fn()
}

type recorder struct {
	mu  sync.Mutex
	got []model.Projection
}

func (r *recorder) add(p model.Projection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, p)
}

func (r *recorder) all() []model.Projection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Projection(nil), r.got...)
}

func (r *recorder) last() (model.Projection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.got) == 0 {
		return model.Projection{}, false
	}
	return r.got[len(r.got)-1], true
}

func (r *recorder) count(section model.Section) int {
	n := 0
	for _, p := range r.all() {
		if p.Section == section {
			n++
		}
	}
	return n
}

// waitFor waits until the latest projection satisfies cond and returns it
func (r *recorder) waitFor(t *testing.T, desc string, cond func(model.Projection) bool) model.Projection {
	t.Helper()
	var (
		mu    sync.Mutex
		match model.Projection
	)
	require.Eventually(t, func() bool {
		p, ok := r.last()
		if !ok || !cond(p) {
			return false
		}
		mu.Lock()
		match = p
		mu.Unlock()
		return true
	}, waitTimeout, time.Millisecond, desc)

	mu.Lock()
	defer mu.Unlock()
	return match
}

func inSection(s model.Section) func(model.Projection) bool {
	return func(p model.Projection) bool { return p.Section == s }
}

func progressAt(percent int, text string) func(model.Projection) bool {
	return func(p model.Projection) bool {
		return p.Section == model.SectionProgress && p.Percent == percent && p.ProgressText == text
	}
}

// env is a controller wired to a fake server, a manual ticker and fake timers
type env struct {
	c       *Controller
	srv     *fakeapi.Server
	tickers *tickers
	timers  *fakeTimers
	rec     *recorder
}

func newEnv(t *testing.T, opts ...Option) *env {
	t.Helper()

	e := &env{
		srv:     fakeapi.New(t),
		tickers: newTickers(),
		timers:  &fakeTimers{},
		rec:     &recorder{},
	}
	base := []Option{
		WithTicker(e.tickers.new),
		WithAfterFunc(e.timers.afterFunc),
		WithLogger(zerolog.Nop()),
	}
	e.c = New(api.New(e.srv.URL), append(base, opts...)...)
	e.c.SetUpdateCallback(e.rec.add)
	t.Cleanup(e.c.Close)
	return e
}

// fetched brings the controller to the video-info section
func (e *env) fetched(t *testing.T) {
	t.Helper()
	e.srv.VideoInfo("Never Gonna Give You Up", "Rick Astley", 213, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hq.jpg")
	require.NoError(t, e.c.FetchInfo(context.Background(), videoURL))
}

// submitted brings the controller to polling job jobID and returns its ticker
func (e *env) submitted(t *testing.T, jobID string, statuses ...fakeapi.Reply) *manualTicker {
	t.Helper()
	e.fetched(t)
	e.srv.JobID(jobID)
	e.srv.Statuses(jobID, statuses...)
	require.NoError(t, e.c.SubmitJob(context.Background(), model.Quality1080p))
	return e.tickers.next(t)
}

// polled waits until the server has answered n status polls for jobID
func (e *env) polled(t *testing.T, jobID string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return e.srv.StatusCalls(jobID) == n
	}, waitTimeout, time.Millisecond, "status polls for %s", jobID)
}

// ready brings the controller to the download-ready section for token
func (e *env) ready(t *testing.T, token string) {
	t.Helper()
	tk := e.submitted(t, "job-ready", fakeapi.Status("completed", 100, token, ""))
	tk.tick(t)
	e.rec.waitFor(t, "download ready", inSection(model.SectionDownloadReady))
	tk.waitStopped(t)
}

// stubAPI answers without a network, for tests that check goroutine lifetimes
type stubAPI struct {
	info        func(ctx context.Context, videoURL string) (*model.VideoInfo, error)
	jobID       string
	status      model.JobStatus
	statusCalls atomic.Int32
}

func (s *stubAPI) Info(ctx context.Context, videoURL string) (*model.VideoInfo, error) {
	if s.info == nil {
		return &model.VideoInfo{Title: "stub"}, nil
	}
	return s.info(ctx, videoURL)
}

func (s *stubAPI) StartDownload(context.Context, string, model.Quality) (string, error) {
	return s.jobID, nil
}

func (s *stubAPI) Status(context.Context, string) (model.JobStatus, error) {
	s.statusCalls.Add(1)
	return s.status, nil
}

func (s *stubAPI) FileURL(token string) string {
	return "/api/file/" + token
}
