package capture

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

var (
	ErrAlreadyRecording = errors.New("recording already in progress")
	ErrNotRecording     = errors.New("no recording in progress")
)

// Recorder drains a PCM16 mono source into a fixed file and finalizes it as
// a WAV on stop. Only one recording may be open at a time; misuse of
// Start/Stop fails cleanly instead of corrupting the file.
type Recorder struct {
	source     io.Reader
	path       string
	sampleRate int
	logger     *log.Logger

	mu        sync.Mutex
	recording bool
	done      chan struct{}
	wg        sync.WaitGroup
	drainErr  error
}

// NewRecorder creates a recorder writing to path. The source must deliver
// little-endian 16-bit mono PCM at sampleRate; that encoding is what the
// backend's speech configuration expects. A source that implements io.Closer
// is closed on Stop so a pending Read cannot keep the session open.
func NewRecorder(source io.Reader, path string, sampleRate int, logger *log.Logger) *Recorder {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &Recorder{source: source, path: path, sampleRate: sampleRate, logger: logger}
}

// Start begins draining the source into the output file.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return ErrAlreadyRecording
	}

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("create recording file: %w", err)
	}

	r.recording = true
	r.done = make(chan struct{})
	r.drainErr = nil

	r.wg.Add(1)
	go r.drain(f)
	return nil
}

// drain copies PCM from the source to the file until the source ends or
// Stop is called.
func (r *Recorder) drain(f *os.File) {
	defer r.wg.Done()
	defer f.Close()

	buf := make([]byte, 4096)
	for {
		select {
		case <-r.done:
			return
		default:
		}

		n, err := r.source.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				r.logger.Printf("capture: write failed: %v", werr)
				r.drainErr = werr
				return
			}
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			select {
			case <-r.done:
				// Stop closed the source to interrupt a blocked read.
				return
			default:
			}
			r.logger.Printf("capture: read failed: %v", err)
			r.drainErr = err
			return
		}
	}
}

// Stop finalizes the recording: the drained PCM is peak-normalized, wrapped
// in a WAV header and written back to the fixed path, which is returned.
func (r *Recorder) Stop() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return "", ErrNotRecording
	}

	close(r.done)
	// A source parked inside Read never observes done; closing it forces
	// the read to return so the drain goroutine can exit.
	if c, ok := r.source.(io.Closer); ok {
		_ = c.Close()
	}
	r.wg.Wait()
	r.recording = false

	if r.drainErr != nil {
		return "", fmt.Errorf("recording failed: %w", r.drainErr)
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		return "", fmt.Errorf("read recorded PCM: %w", err)
	}

	samples := bytesToSamples(raw)
	Normalize(samples)

	wav := EncodeWAV(samples, r.sampleRate)
	if err := os.WriteFile(r.path, wav, 0o644); err != nil {
		return "", fmt.Errorf("finalize WAV: %w", err)
	}
	return r.path, nil
}

// Recording reports whether a recording session is open.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}
