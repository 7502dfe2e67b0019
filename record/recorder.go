// Package record captures a sequence of rendered frames and encodes it
// as an animated GIF, the export format for sharing a marked-up
// walkthrough. Frames arrive as plain images, typically from
// session.Flatten, and are quantized on arrival so a long capture holds
// one paletted byte per pixel instead of four.
package record

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"sync"
	"time"

	"github.com/gogpu/markup"
)

var (
	// ErrNotRecording reports a frame delivered outside Start/Stop.
	ErrNotRecording = errors.New("record: not recording")
	// ErrFrameLimit reports a frame delivered past the configured cap.
	ErrFrameLimit = errors.New("record: frame limit reached")
)

// defaultFrameRate is the capture cadence in frames per second.
const defaultFrameRate = 10

// Option configures a Recorder during creation.
type Option func(*Recorder)

// WithFrameRate sets the playback rate in frames per second. Values
// below one are ignored.
func WithFrameRate(fps int) Option {
	return func(r *Recorder) {
		if fps >= 1 {
			r.fps = fps
		}
	}
}

// WithMaxFrames caps how many frames a capture accepts; AddFrame fails
// with ErrFrameLimit beyond it. Zero keeps the capture unbounded.
func WithMaxFrames(n int) Option {
	return func(r *Recorder) {
		if n >= 0 {
			r.maxFrames = n
		}
	}
}

// Recorder accumulates quantized frames between Start and Stop and
// encodes them as one looping GIF.
//
// A Recorder is safe for concurrent use: captures usually run on a
// ticker goroutine while the UI thread stops and encodes.
type Recorder struct {
	mu        sync.Mutex
	fps       int
	maxFrames int
	frames    []*image.Paletted
	bounds    image.Rectangle
	recording bool
}

// New creates a stopped recorder at the default 10 frames per second.
func New(opts ...Option) *Recorder {
	r := &Recorder{fps: defaultFrameRate}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins a fresh capture, dropping any previously held frames.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = nil
	r.bounds = image.Rectangle{}
	r.recording = true
}

// Stop ends the capture. The frames stay available for encoding.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
}

// Recording reports whether the recorder accepts frames.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// AddFrame quantizes img to the web-safe palette with error diffusion
// and appends it to the capture. The first frame fixes the recording
// size; later frames must match it.
func (r *Recorder) AddFrame(img image.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return ErrNotRecording
	}
	if r.maxFrames > 0 && len(r.frames) >= r.maxFrames {
		return ErrFrameLimit
	}
	b := img.Bounds()
	if len(r.frames) == 0 {
		r.bounds = image.Rect(0, 0, b.Dx(), b.Dy())
	} else if b.Dx() != r.bounds.Dx() || b.Dy() != r.bounds.Dy() {
		return fmt.Errorf("record: frame is %dx%d, capture is %dx%d: %w",
			b.Dx(), b.Dy(), r.bounds.Dx(), r.bounds.Dy(), markup.ErrInvalidGeometry)
	}
	pal := image.NewPaletted(r.bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(pal, r.bounds, img, b.Min)
	r.frames = append(r.frames, pal)
	return nil
}

// FrameCount returns the number of captured frames.
func (r *Recorder) FrameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Frames returns the captured paletted frames in capture order. The
// slice is a copy; the frames are shared.
func (r *Recorder) Frames() []*image.Paletted {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*image.Paletted, len(r.frames))
	copy(out, r.frames)
	return out
}

// Duration returns the playback time of the capture at its frame rate.
func (r *Recorder) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Duration(len(r.frames)) * time.Second / time.Duration(r.fps)
}

// FrameInterval returns the capture cadence: hosts drive their ticker
// with it and feed each tick's flattened frame to AddFrame.
func (r *Recorder) FrameInterval() time.Duration {
	return time.Second / time.Duration(r.fps)
}

// EncodeGIF writes the capture as a looping animated GIF. Encoding an
// empty capture fails with ErrEmptyResult.
func (r *Recorder) EncodeGIF(w io.Writer) error {
	r.mu.Lock()
	frames := make([]*image.Paletted, len(r.frames))
	copy(frames, r.frames)
	fps := r.fps
	r.mu.Unlock()

	if len(frames) == 0 {
		return fmt.Errorf("record: encode: %w", markup.ErrEmptyResult)
	}
	// GIF delays count hundredths of a second.
	delay := (100 + fps/2) / fps
	delays := make([]int, len(frames))
	for i := range delays {
		delays[i] = delay
	}
	g := &gif.GIF{
		Image:     frames,
		Delay:     delays,
		LoopCount: 0,
	}
	if err := gif.EncodeAll(w, g); err != nil {
		return fmt.Errorf("record: encode: %w", err)
	}
	markup.Logger().Info("gif encoded", "frames", len(frames), "fps", fps)
	return nil
}
