package game

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	EventBufferSize      = 1024                   // Circular buffer size
	MaxEventsPerSec      = 10000                  // Global rate limit
	MaxEventsPerSource   = 2000                   // Per-source rate limit per second
	BatchFlushSize       = 64                     // Events per batch write
	BatchFlushInterval   = 100 * time.Millisecond // How often to flush
	SourceLimiterCleanup = 5 * time.Minute        // Cleanup interval for idle source limiters
)

// EventLog is a bounded, rate-limited NDJSON event recorder for one run.
// Emit never waits on the writer: when the ring is full the new event is
// counted as dropped and the pending ones stay intact.
type EventLog struct {
	runID string

	// Circular buffer. Producers serialize on emitMu; only the writer
	// goroutine advances readHead.
	buffer    [EventBufferSize]Event
	emitMu    sync.Mutex
	writeHead uint64 // atomic - last published sequence
	readHead  uint64 // atomic - last consumed sequence

	globalLimiter  *rate.Limiter
	sourceLimiters sync.Map // map[string]*sourceLimiterEntry

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	file   *os.File
	out    *bufio.Writer
	fileMu sync.Mutex

	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
	writtenCount uint64 // atomic
}

type sourceLimiterEntry struct {
	limiter  *rate.Limiter
	lastUsed atomic.Int64 // unix nano
}

// EventLogStats is a point-in-time view of the log counters.
type EventLogStats struct {
	RunID   string `json:"runId"`
	Total   uint64 `json:"total"`
	Written uint64 `json:"written"`
	Dropped uint64 `json:"dropped"`
	Pending uint64 `json:"pending"`
	Running bool   `json:"running"`
}

// NewEventLog creates an event log tagging every event with runID.
func NewEventLog(runID string) *EventLog {
	return &EventLog{
		runID:         runID,
		globalLimiter: rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		stopChan:      make(chan struct{}),
	}
}

// RunID returns the run the log records.
func (el *EventLog) RunID() string { return el.runID }

// Start opens filePath for append and begins the background writer.
// An empty path keeps events in memory only, where they are discarded on flush.
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}

	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		el.file = file
		el.out = bufio.NewWriter(file)
	}

	el.running.Store(true)
	el.writerWg.Add(2)
	go el.writerLoop()
	go el.cleanupLoop()

	return nil
}

// Stop flushes pending events and closes the file.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		if !el.running.Load() {
			return
		}
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		el.fileMu.Lock()
		if el.out != nil {
			el.out.Flush()
		}
		if el.file != nil {
			el.file.Close()
		}
		el.fileMu.Unlock()
	})
}

// Emit queues an event. Returns false when rate limited, the ring is full
// or the log is not running.
func (el *EventLog) Emit(event Event) bool {
	if !el.running.Load() {
		return false
	}

	if !el.globalLimiter.Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}
	if event.Source != "" && !el.sourceLimiter(event.Source).Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}

	if event.RunID == "" {
		event.RunID = el.runID
	}

	el.emitMu.Lock()
	head := atomic.LoadUint64(&el.writeHead)
	if head-atomic.LoadUint64(&el.readHead) >= EventBufferSize {
		el.emitMu.Unlock()
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}
	head++
	event.Sequence = head
	el.buffer[head%EventBufferSize] = event
	// Publish only after the slot is written
	atomic.StoreUint64(&el.writeHead, head)
	el.emitMu.Unlock()

	atomic.AddUint64(&el.totalCount, 1)
	return true
}

// EmitSimple builds and queues an event for this run.
func (el *EventLog) EmitSimple(eventType EventType, tickNum uint64, source string, payload interface{}) bool {
	if !el.running.Load() {
		return false
	}
	return el.Emit(NewEvent(eventType, tickNum, el.runID, source, payload))
}

func (el *EventLog) sourceLimiter(source string) *rate.Limiter {
	now := time.Now().UnixNano()
	if v, ok := el.sourceLimiters.Load(source); ok {
		entry := v.(*sourceLimiterEntry)
		entry.lastUsed.Store(now)
		return entry.limiter
	}

	entry := &sourceLimiterEntry{
		limiter: rate.NewLimiter(MaxEventsPerSource, MaxEventsPerSource/10),
	}
	entry.lastUsed.Store(now)
	actual, _ := el.sourceLimiters.LoadOrStore(source, entry)
	return actual.(*sourceLimiterEntry).limiter
}

// writerLoop batches and writes events to disk asynchronously
func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, BatchFlushSize)
	for {
		select {
		case <-el.stopChan:
			for {
				batch = el.collectBatch(batch[:0])
				if len(batch) == 0 {
					return
				}
				el.flushBatch(batch)
			}
		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
		}
	}
}

// cleanupLoop forgets limiters of sources that went quiet
func (el *EventLog) cleanupLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(SourceLimiterCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-el.stopChan:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-SourceLimiterCleanup).UnixNano()
			el.sourceLimiters.Range(func(key, value interface{}) bool {
				if value.(*sourceLimiterEntry).lastUsed.Load() < cutoff {
					el.sourceLimiters.Delete(key)
				}
				return true
			})
		}
	}
}

// collectBatch copies published events out of the ring, then releases
// their slots.
func (el *EventLog) collectBatch(batch []Event) []Event {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	for i := tail + 1; i <= head && len(batch) < BatchFlushSize; i++ {
		batch = append(batch, el.buffer[i%EventBufferSize])
	}
	if len(batch) > 0 {
		atomic.AddUint64(&el.readHead, uint64(len(batch)))
	}
	return batch
}

// flushBatch appends events as newline-delimited JSON
func (el *EventLog) flushBatch(batch []Event) {
	el.fileMu.Lock()
	defer el.fileMu.Unlock()

	if el.out == nil {
		return
	}

	enc := json.NewEncoder(el.out)
	for _, event := range batch {
		if err := enc.Encode(event); err != nil {
			continue
		}
		atomic.AddUint64(&el.writtenCount, 1)
	}
	el.out.Flush()
}

// Stats returns the current counters.
func (el *EventLog) Stats() EventLogStats {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	return EventLogStats{
		RunID:   el.runID,
		Total:   atomic.LoadUint64(&el.totalCount),
		Written: atomic.LoadUint64(&el.writtenCount),
		Dropped: atomic.LoadUint64(&el.droppedCount),
		Pending: head - tail,
		Running: el.running.Load(),
	}
}
