// Package knextest provides test utilities and helpers for knex chains.
//
// This package includes mock transforms, assertion helpers, and chaos testing
// tools to make testing knex chains and custom transforms easier.
//
// Example usage:
//
//	func TestMyChain(t *testing.T) {
//		mock := knextest.NewMockTransform(t, "Mock").WithReturn("processed", nil)
//
//		out, err := knex.New("input").Pipe(ctx, mock, parsers.ToUpper{})
//
//		require.NoError(t, err)
//		knextest.AssertResult(t, out, "PROCESSED")
//		knextest.AssertProcessedWith(t, mock, "input")
//	}
package knextest

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	mathrand "math/rand"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/knex"
)

// MockTransform provides a configurable mock implementation of knex.Transform.
// It tracks calls, allows configuring return values and delays, and provides
// assertion methods for testing chain behavior. Until WithReturn is called
// it passes its input through unchanged.
type MockTransform struct { //nolint:govet // fieldalignment: Test helper struct optimized for functionality over memory efficiency
	t           *testing.T
	name        knex.Name
	callCount   int64
	lastInput   any
	returnVal   any
	returnErr   error
	configured  bool
	delay       time.Duration
	panicMsg    string
	mu          sync.RWMutex
	callHistory []MockCall
	maxHistory  int
}

// MockCall represents a single call to the mock transform.
type MockCall struct {
	Input     any
	Timestamp time.Time
	Context   context.Context
}

// NewMockTransform creates a new mock transform for testing.
// The transform tracks all calls and provides configurable behavior.
func NewMockTransform(t *testing.T, name knex.Name) *MockTransform {
	return &MockTransform{
		t:          t,
		name:       name,
		maxHistory: 100, // Keep last 100 calls by default
	}
}

// WithReturn configures the mock to return specific values.
// The mock will return these values for all subsequent calls.
func (m *MockTransform) WithReturn(val any, err error) *MockTransform {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returnVal = val
	m.returnErr = err
	m.configured = true
	return m
}

// WithDelay configures the mock to delay execution.
// This is useful for testing context deadlines on long-running steps.
func (m *MockTransform) WithDelay(d time.Duration) *MockTransform {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// WithPanic configures the mock to panic with a specific message.
// This is useful for testing panic recovery in the composer.
func (m *MockTransform) WithPanic(msg string) *MockTransform {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicMsg = msg
	return m
}

// WithHistorySize configures how many calls to keep in history.
// Set to 0 to disable history tracking.
func (m *MockTransform) WithHistorySize(size int) *MockTransform {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxHistory = size
	if size == 0 {
		m.callHistory = nil
	} else if len(m.callHistory) > size {
		m.callHistory = m.callHistory[len(m.callHistory)-size:]
	}
	return m
}

// Name implements knex.Transform.
func (m *MockTransform) Name() knex.Name {
	return m.name
}

// Process implements knex.Transform. It records the call and returns
// the configured values, potentially after a delay or panic.
func (m *MockTransform) Process(ctx context.Context, in any) (any, error) {
	atomic.AddInt64(&m.callCount, 1)

	m.mu.Lock()
	m.lastInput = in
	if m.maxHistory > 0 {
		m.callHistory = append(m.callHistory, MockCall{
			Input:     in,
			Timestamp: time.Now(),
			Context:   ctx,
		})
		if len(m.callHistory) > m.maxHistory {
			m.callHistory = m.callHistory[1:] // Remove oldest
		}
	}

	delay := m.delay
	returnVal := m.returnVal
	returnErr := m.returnErr
	configured := m.configured
	panicMsg := m.panicMsg
	m.mu.Unlock()

	if panicMsg != "" {
		panic(panicMsg)
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if !configured {
		return in, nil
	}
	return returnVal, returnErr
}

// CallCount returns the number of times Process has been called.
func (m *MockTransform) CallCount() int {
	return int(atomic.LoadInt64(&m.callCount))
}

// LastInput returns the input from the most recent call.
func (m *MockTransform) LastInput() any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastInput
}

// CallHistory returns a copy of all recorded calls.
// Returns nil if history tracking is disabled.
func (m *MockTransform) CallHistory() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.maxHistory == 0 {
		return nil
	}
	history := make([]MockCall, len(m.callHistory))
	copy(history, m.callHistory)
	return history
}

// Reset clears all call tracking.
func (m *MockTransform) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	atomic.StoreInt64(&m.callCount, 0)
	m.lastInput = nil
	m.callHistory = nil
}

// Assertion Helpers

// AssertProcessed verifies that a mock transform was called exactly n times.
func AssertProcessed(t *testing.T, mock *MockTransform, expectedCalls int) {
	t.Helper()
	actualCalls := mock.CallCount()
	if actualCalls != expectedCalls {
		t.Errorf("expected mock transform %s to be called %d times, but was called %d times",
			mock.name, expectedCalls, actualCalls)
	}
}

// AssertNotProcessed verifies that a mock transform was never called.
func AssertNotProcessed(t *testing.T, mock *MockTransform) {
	t.Helper()
	AssertProcessed(t, mock, 0)
}

// AssertProcessedWith verifies that the last call received expectedInput.
func AssertProcessedWith(t *testing.T, mock *MockTransform, expectedInput any) {
	t.Helper()
	if mock.CallCount() == 0 {
		t.Errorf("expected mock transform %s to be called with input %v, but it was never called",
			mock.name, expectedInput)
		return
	}

	actualInput := mock.LastInput()
	if !reflect.DeepEqual(actualInput, expectedInput) {
		t.Errorf("expected mock transform %s to be called with input %v, but was called with %v",
			mock.name, expectedInput, actualInput)
	}
}

// AssertResult verifies the computed result of a unit.
func AssertResult(t *testing.T, p *knex.Parser, expected any) {
	t.Helper()
	if p == nil {
		t.Errorf("expected result %v, but the unit is nil", expected)
		return
	}
	if !reflect.DeepEqual(p.Result(), expected) {
		t.Errorf("expected result %v (%T), got %v (%T)", expected, expected, p.Result(), p.Result())
	}
}

// AssertFailed verifies that a unit suppressed a fault of the given kind.
// A nil kind accepts any fault.
func AssertFailed(t *testing.T, p *knex.Parser, kind error) {
	t.Helper()
	if p == nil || !p.Failed() {
		t.Errorf("expected unit to be failed")
		return
	}
	if kind != nil && !errors.Is(p.Fault(), kind) {
		t.Errorf("expected fault %v, got %v", kind, p.Fault())
	}
}

// AssertHistory verifies the transform names recorded in a unit's history.
func AssertHistory(t *testing.T, p *knex.Parser, parsers ...knex.Name) {
	t.Helper()
	if p == nil {
		t.Errorf("expected history %v, but the unit is nil", parsers)
		return
	}
	got := p.History().Parsers()
	if len(got) != len(parsers) {
		t.Errorf("expected history %v, got %v", parsers, got)
		return
	}
	for i := range got {
		if got[i] != parsers[i] {
			t.Errorf("expected history %v, got %v", parsers, got)
			return
		}
	}
}

// ChaosTransform introduces controlled failures and delays for chaos testing.
// It wraps another transform and randomly introduces faults based on configured rates.
type ChaosTransform struct { //nolint:govet // fieldalignment: Test helper struct optimized for functionality over memory efficiency
	name         knex.Name
	wrapped      knex.Transform
	failureRate  float64
	latencyMin   time.Duration
	latencyMax   time.Duration
	timeoutRate  float64
	panicRate    float64
	rng          *mathrand.Rand
	mu           sync.Mutex
	totalCalls   int64
	failedCalls  int64
	timeoutCalls int64
	panicCalls   int64
}

// ChaosConfig holds configuration for chaos testing.
type ChaosConfig struct {
	FailureRate float64       // Probability of returning a format fault (0.0 to 1.0)
	LatencyMin  time.Duration // Minimum additional latency to inject
	LatencyMax  time.Duration // Maximum additional latency to inject
	TimeoutRate float64       // Probability of simulating timeout (0.0 to 1.0)
	PanicRate   float64       // Probability of panicking (0.0 to 1.0)
	Seed        int64         // Random seed for reproducible chaos (0 for random seed)
}

// ErrChaos is the cause of faults injected by ChaosTransform.
var ErrChaos = errors.New("chaos transform induced failure")

// NewChaosTransform creates a chaos transform that wraps another transform.
// It reports the wrapped transform's name so histories stay readable.
func NewChaosTransform(wrapped knex.Transform, config ChaosConfig) *ChaosTransform {
	seed := config.Seed
	if seed == 0 {
		var seedBytes [8]byte
		if _, err := rand.Read(seedBytes[:]); err != nil {
			seed = time.Now().UnixNano()
		} else {
			for _, b := range seedBytes {
				seed = seed<<8 | int64(b)
			}
		}
	}

	return &ChaosTransform{
		name:        wrapped.Name(),
		wrapped:     wrapped,
		failureRate: config.FailureRate,
		latencyMin:  config.LatencyMin,
		latencyMax:  config.LatencyMax,
		timeoutRate: config.TimeoutRate,
		panicRate:   config.PanicRate,
		rng:         mathrand.New(mathrand.NewSource(seed)), //nolint:gosec // G404: Test utility uses weak RNG for deterministic chaos scenarios
	}
}

// Name implements knex.Transform.
func (c *ChaosTransform) Name() knex.Name {
	return c.name
}

// Process implements knex.Transform with chaos injection.
func (c *ChaosTransform) Process(ctx context.Context, in any) (any, error) {
	atomic.AddInt64(&c.totalCalls, 1)

	c.mu.Lock()
	if c.rng.Float64() < c.panicRate {
		c.mu.Unlock()
		atomic.AddInt64(&c.panicCalls, 1)
		panic("chaos transform induced panic")
	}

	var latency time.Duration
	if c.latencyMax > c.latencyMin {
		latency = c.latencyMin + time.Duration(c.rng.Int63n(int64(c.latencyMax-c.latencyMin)))
	} else if c.latencyMin > 0 {
		latency = c.latencyMin
	}
	simulateTimeout := c.rng.Float64() < c.timeoutRate
	injectFailure := c.rng.Float64() < c.failureRate
	c.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if simulateTimeout {
		atomic.AddInt64(&c.timeoutCalls, 1)
		return nil, context.DeadlineExceeded
	}

	result, err := c.wrapped.Process(ctx, in)
	if injectFailure && err == nil {
		atomic.AddInt64(&c.failedCalls, 1)
		return nil, knex.FormatError(c.name, ErrChaos)
	}
	return result, err
}

// Stats returns statistics about chaos injection.
func (c *ChaosTransform) Stats() ChaosStats {
	return ChaosStats{
		TotalCalls:   atomic.LoadInt64(&c.totalCalls),
		FailedCalls:  atomic.LoadInt64(&c.failedCalls),
		TimeoutCalls: atomic.LoadInt64(&c.timeoutCalls),
		PanicCalls:   atomic.LoadInt64(&c.panicCalls),
	}
}

// ChaosStats holds statistics about chaos injection.
type ChaosStats struct {
	TotalCalls   int64
	FailedCalls  int64
	TimeoutCalls int64
	PanicCalls   int64
}

// FailureRate returns the actual failure rate observed.
func (s ChaosStats) FailureRate() float64 {
	if s.TotalCalls == 0 {
		return 0
	}
	return float64(s.FailedCalls) / float64(s.TotalCalls)
}

// String returns a human-readable representation of the stats.
func (s ChaosStats) String() string {
	return fmt.Sprintf("ChaosStats{Total: %d, Failed: %d (%.1f%%), Timeouts: %d, Panics: %d}",
		s.TotalCalls, s.FailedCalls, s.FailureRate()*100, s.TimeoutCalls, s.PanicCalls)
}

// Helper Functions

// ParallelTest runs a test function in parallel with multiple goroutines.
// Useful for checking that branches of a shared chain stay isolated.
func ParallelTest(t *testing.T, goroutines int, testFunc func(int)) {
	t.Helper()

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			testFunc(id)
		}(i)
	}

	wg.Wait()
}
