package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raulrodriguez98/TFG/internal/capture"
	"github.com/raulrodriguez98/TFG/internal/uploader"
)

// recorder drains raw PCM16 mono audio from a file or stdin, finalizes it as
// audio.wav and uploads it to the backend, mirroring what the mobile client
// does with the microphone.
func main() {
	server := flag.String("server", "http://localhost:3000/api/stt", "backend upload endpoint")
	out := flag.String("file", "audio.wav", "output WAV path")
	source := flag.String("source", "-", "raw PCM16 source file, or - for stdin")
	rate := flag.Int("rate", 16000, "sample rate of the PCM source")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	var in io.Reader = os.Stdin
	if *source != "-" {
		f, err := os.Open(*source)
		if err != nil {
			logger.Fatalf("open source: %v", err)
		}
		defer f.Close()
		in = f
	}

	rec := capture.NewRecorder(in, *out, *rate, logger)
	if err := rec.Start(); err != nil {
		logger.Fatalf("start recording: %v", err)
	}
	logger.Printf("recording to %s, Ctrl-C to stop", *out)

	// A file source drains on its own; either way the session ends on Ctrl-C,
	// like releasing the stop button on the device.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	stop()

	path, err := rec.Stop()
	if err != nil {
		logger.Fatalf("stop recording: %v", err)
	}
	logger.Printf("recording finalized: %s", path)

	uploadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := uploader.New(*server).Upload(uploadCtx, path); err != nil {
		// The file stays on disk; rerun to retry the upload.
		logger.Fatalf("upload failed: %v", err)
	}
	logger.Printf("uploaded to %s", *server)
}
