package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/async"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
)

// DefaultDelay is the quiet period after the last edit before answers are saved
const DefaultDelay = 1500 * time.Millisecond

// ErrClosed is returned when scheduling on a closed Saver
var ErrClosed = goerr.New("autosave is closed")

// SaveFunc persists the answers of one assessment
type SaveFunc func(ctx context.Context, assessmentID string, responses model.Responses) error

type pendingSave struct {
	ctx       context.Context
	responses model.Responses
	timer     *time.Timer
	gen       uint64
}

// Saver debounces answer saves per assessment. Rapid edits collapse into one
// save of the last scheduled answers. Saves of one assessment run one at a
// time and in scheduling order; a save that has started runs to completion
// even if the request that scheduled it is gone.
type Saver struct {
	save  SaveFunc
	delay time.Duration

	mu       sync.Mutex
	gen      uint64
	pending  map[string]*pendingSave
	inflight map[string]<-chan struct{}
	closed   bool
}

type Option func(*Saver)

// WithDelay sets the debounce interval
func WithDelay(d time.Duration) Option {
	return func(s *Saver) {
		s.delay = d
	}
}

func New(save SaveFunc, opts ...Option) *Saver {
	s := &Saver{
		save:     save,
		delay:    DefaultDelay,
		pending:  make(map[string]*pendingSave),
		inflight: make(map[string]<-chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule replaces any pending save of the assessment and restarts its timer
func (s *Saver) Schedule(ctx context.Context, assessmentID string, responses model.Responses) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return goerr.Wrap(ErrClosed, "cannot schedule save", goerr.V("assessment_id", assessmentID))
	}

	if p, ok := s.pending[assessmentID]; ok {
		p.timer.Stop()
	}

	s.gen++
	gen := s.gen
	s.pending[assessmentID] = &pendingSave{
		ctx:       ctx,
		responses: responses.Clone(),
		gen:       gen,
		timer: time.AfterFunc(s.delay, func() {
			s.fire(assessmentID, gen)
		}),
	}
	return nil
}

// Cancel drops a pending save. A save already running is not interrupted.
func (s *Saver) Cancel(assessmentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[assessmentID]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(s.pending, assessmentID)
	return true
}

// Settle drops a pending save of the assessment and waits until a save of it
// that is already running has finished
func (s *Saver) Settle(ctx context.Context, assessmentID string) error {
	s.Cancel(assessmentID)

	s.mu.Lock()
	done := s.inflight[assessmentID]
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "waiting for running autosave interrupted", goerr.V("assessment_id", assessmentID))
	}
}

// Pending returns the number of saves waiting for their timer
func (s *Saver) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush starts every pending save now and waits for all running saves
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	for id, p := range s.pending {
		p.timer.Stop()
		s.startLocked(id, p)
	}
	waits := make([]<-chan struct{}, 0, len(s.inflight))
	for _, done := range s.inflight {
		waits = append(waits, done)
	}
	s.mu.Unlock()

	for _, done := range waits {
		select {
		case <-done:
		case <-ctx.Done():
			return goerr.Wrap(ctx.Err(), "autosave flush interrupted")
		}
	}
	return nil
}

// Close rejects further scheduling and flushes what is left
func (s *Saver) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	return s.Flush(context.Background())
}

func (s *Saver) fire(assessmentID string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[assessmentID]
	if !ok || p.gen != gen {
		return
	}
	s.startLocked(assessmentID, p)
}

// startLocked dispatches the save, chained after any save of the same
// assessment that is still running. s.mu must be held.
func (s *Saver) startLocked(assessmentID string, p *pendingSave) {
	delete(s.pending, assessmentID)
	prev := s.inflight[assessmentID]

	done := async.Dispatch(p.ctx, "autosave", func(ctx context.Context) error {
		if prev != nil {
			<-prev
		}
		if err := s.save(ctx, assessmentID, p.responses); err != nil {
			return goerr.Wrap(err, "autosave failed", goerr.V("assessment_id", assessmentID))
		}
		logging.From(ctx).Debug("answers autosaved", "assessment_id", assessmentID)
		return nil
	})
	s.inflight[assessmentID] = done

	go func() {
		<-done
		s.mu.Lock()
		if s.inflight[assessmentID] == done {
			delete(s.inflight, assessmentID)
		}
		s.mu.Unlock()
	}()
}
