package autosave_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/service/autosave"
)

type saveCall struct {
	id        string
	responses model.Responses
}

type recorder struct {
	mu      sync.Mutex
	calls   []saveCall
	running int
	maxRun  int
	started chan string
	release chan struct{}
}

func newRecorder() *recorder {
	return &recorder{started: make(chan string, 16)}
}

func (r *recorder) save(ctx context.Context, id string, responses model.Responses) error {
	r.mu.Lock()
	r.running++
	if r.running > r.maxRun {
		r.maxRun = r.running
	}
	release := r.release
	r.mu.Unlock()

	r.started <- id
	if release != nil {
		<-release
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.running--
	r.calls = append(r.calls, saveCall{id: id, responses: responses})
	return nil
}

func (r *recorder) snapshot() []saveCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]saveCall(nil), r.calls...)
}

func answer(v string) model.Responses {
	return model.Responses{"E2": model.TextAnswer(v)}
}

func waitStarted(t *testing.T, r *recorder) string {
	t.Helper()
	select {
	case id := <-r.started:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("save did not start")
		return ""
	}
}

func TestSaver_Debounce(t *testing.T) {
	r := newRecorder()
	s := autosave.New(r.save, autosave.WithDelay(20*time.Millisecond))
	ctx := context.Background()

	gt.NoError(t, s.Schedule(ctx, "a-1", answer("first"))).Required()
	gt.NoError(t, s.Schedule(ctx, "a-1", answer("second"))).Required()
	gt.NoError(t, s.Schedule(ctx, "a-1", answer("third"))).Required()
	gt.Number(t, s.Pending()).Equal(1)

	gt.Value(t, waitStarted(t, r)).Equal("a-1")
	gt.NoError(t, s.Flush(ctx)).Required()
	time.Sleep(60 * time.Millisecond)

	calls := r.snapshot()
	gt.Array(t, calls).Length(1).Required()
	gt.Value(t, calls[0].responses.Get("E2").Text()).Equal("third")
}

func TestSaver_Cancel(t *testing.T) {
	r := newRecorder()
	s := autosave.New(r.save, autosave.WithDelay(20*time.Millisecond))

	gt.NoError(t, s.Schedule(context.Background(), "a-1", answer("draft"))).Required()
	gt.Bool(t, s.Cancel("a-1")).True()
	gt.Bool(t, s.Cancel("a-1")).False()

	time.Sleep(80 * time.Millisecond)
	gt.Array(t, r.snapshot()).Length(0)
}

func TestSaver_FlushAndClose(t *testing.T) {
	r := newRecorder()
	s := autosave.New(r.save, autosave.WithDelay(time.Hour))
	ctx := context.Background()

	gt.NoError(t, s.Schedule(ctx, "a-1", answer("x"))).Required()
	gt.NoError(t, s.Schedule(ctx, "a-2", answer("y"))).Required()
	gt.NoError(t, s.Flush(ctx)).Required()
	gt.Array(t, r.snapshot()).Length(2)
	gt.Number(t, s.Pending()).Equal(0)

	gt.NoError(t, s.Schedule(ctx, "a-3", answer("z"))).Required()
	gt.NoError(t, s.Close()).Required()
	gt.Array(t, r.snapshot()).Length(3)

	err := s.Schedule(ctx, "a-4", answer("late"))
	gt.Error(t, err).Is(autosave.ErrClosed)
}

func TestSaver_OneSaveAtATimePerAssessment(t *testing.T) {
	r := newRecorder()
	r.release = make(chan struct{})
	s := autosave.New(r.save, autosave.WithDelay(time.Millisecond))
	ctx := context.Background()

	gt.NoError(t, s.Schedule(ctx, "a-1", answer("first"))).Required()
	waitStarted(t, r)

	gt.NoError(t, s.Schedule(ctx, "a-1", answer("second"))).Required()
	deadline := time.Now().Add(2 * time.Second)
	for s.Pending() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	close(r.release)
	gt.NoError(t, s.Flush(ctx)).Required()

	calls := r.snapshot()
	gt.Array(t, calls).Length(2).Required()
	gt.Value(t, calls[0].responses.Get("E2").Text()).Equal("first")
	gt.Value(t, calls[1].responses.Get("E2").Text()).Equal("second")
	gt.Number(t, r.maxRun).Equal(1)
}

func TestSaver_OutlivesRequestContext(t *testing.T) {
	r := newRecorder()
	s := autosave.New(r.save, autosave.WithDelay(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	gt.NoError(t, s.Schedule(ctx, "a-1", answer("kept"))).Required()
	cancel()

	waitStarted(t, r)
	gt.NoError(t, s.Flush(context.Background())).Required()
	gt.Array(t, r.snapshot()).Length(1)
}

func TestSaver_SettleWaitsForRunningSave(t *testing.T) {
	r := newRecorder()
	r.release = make(chan struct{})
	s := autosave.New(r.save, autosave.WithDelay(time.Millisecond))
	ctx := context.Background()

	gt.NoError(t, s.Schedule(ctx, "a-1", answer("running"))).Required()
	waitStarted(t, r)

	settled := make(chan error, 1)
	go func() { settled <- s.Settle(ctx, "a-1") }()

	select {
	case <-settled:
		t.Fatal("settle returned while the save was still running")
	case <-time.After(30 * time.Millisecond):
	}

	close(r.release)
	select {
	case err := <-settled:
		gt.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("settle did not return")
	}
	gt.Array(t, r.snapshot()).Length(1)
}

func TestSaver_SettleDropsPendingSave(t *testing.T) {
	r := newRecorder()
	s := autosave.New(r.save, autosave.WithDelay(time.Hour))
	ctx := context.Background()

	gt.NoError(t, s.Schedule(ctx, "a-1", answer("pending"))).Required()
	gt.NoError(t, s.Settle(ctx, "a-1")).Required()
	gt.Number(t, s.Pending()).Equal(0)

	gt.NoError(t, s.Flush(ctx)).Required()
	gt.Array(t, r.snapshot()).Length(0)
}
