// internal/player/mock.go
package player

import (
	"sync"
	"time"
)

// Mock is an Engine test double. Every Prepare returns a fresh MockInstance
// unless an error was registered for the source.
type Mock struct {
	mu          sync.Mutex
	prepareErrs map[string]error
	durations   map[string]time.Duration
	prepared    []string
	instances   []*MockInstance
}

// NewMock creates a new mock engine for testing.
func NewMock() *Mock {
	return &Mock{
		prepareErrs: make(map[string]error),
		durations:   make(map[string]time.Duration),
	}
}

func (m *Mock) Prepare(source string) (Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prepared = append(m.prepared, source)
	if err := m.prepareErrs[source]; err != nil {
		return nil, err
	}
	inst := &MockInstance{
		source:   source,
		duration: m.durations[source],
		finished: make(chan struct{}),
	}
	m.instances = append(m.instances, inst)
	return inst, nil
}

// Test helpers

// SetPrepareError makes Prepare fail for source. A nil err clears it.
func (m *Mock) SetPrepareError(source string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.prepareErrs, source)
		return
	}
	m.prepareErrs[source] = err
}

func (m *Mock) SetDuration(source string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations[source] = d
}

// PrepareCalls returns every source passed to Prepare, failures included.
func (m *Mock) PrepareCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prepared...)
}

// Instances returns every instance handed out, oldest first.
func (m *Mock) Instances() []*MockInstance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockInstance(nil), m.instances...)
}

// Last returns the most recent instance, or nil.
func (m *Mock) Last() *MockInstance {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.instances) == 0 {
		return nil
	}
	return m.instances[len(m.instances)-1]
}

// Live counts instances that have not been released.
func (m *Mock) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, inst := range m.instances {
		if !inst.Released() {
			n++
		}
	}
	return n
}

// MockInstance records the calls made on it.
type MockInstance struct {
	mu       sync.Mutex
	source   string
	started  bool
	playing  bool
	released bool
	position time.Duration
	duration time.Duration
	seeks    []time.Duration

	finished   chan struct{}
	finishOnce sync.Once
}

func (i *MockInstance) Start() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.released {
		return
	}
	i.started = true
	i.playing = true
}

func (i *MockInstance) Pause() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.playing = false
}

func (i *MockInstance) Resume() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.started && !i.released {
		i.playing = true
	}
}

func (i *MockInstance) Playing() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.playing
}

func (i *MockInstance) Position() time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.position
}

func (i *MockInstance) Duration() time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.duration
}

func (i *MockInstance) SeekTo(pos time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.seeks = append(i.seeks, pos)
	i.position = clamp(pos, i.duration)
}

func (i *MockInstance) Finished() <-chan struct{} {
	return i.finished
}

func (i *MockInstance) Release() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.released = true
	i.playing = false
}

// Test helpers

func (i *MockInstance) Source() string { return i.source }

func (i *MockInstance) Started() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.started
}

func (i *MockInstance) Released() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.released
}

func (i *MockInstance) SeekCalls() []time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]time.Duration(nil), i.seeks...)
}

func (i *MockInstance) SetPosition(d time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.position = d
}

// Finish simulates the source playing through to the end. Unlike the real
// engine it also fires after Release, so tests can exercise stale signals.
func (i *MockInstance) Finish() {
	i.mu.Lock()
	i.playing = false
	i.position = i.duration
	i.mu.Unlock()
	i.finishOnce.Do(func() { close(i.finished) })
}

// Verify Mock implements Engine at compile time.
var (
	_ Engine   = (*Mock)(nil)
	_ Instance = (*MockInstance)(nil)
	_ Engine   = (*Beep)(nil)
)
