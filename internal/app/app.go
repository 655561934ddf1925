package app

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"nsfplay/internal/audio"
	"nsfplay/internal/nsf"
)

// ApplicationError represents application-specific errors.
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("Application %s error during %s: %v", e.Component, e.Operation, e.Err)
}

// Application owns the loaded NSF file, the current song's driver, and
// the player goroutine that pumps samples to the audio sink. Exactly
// one player goroutine runs at a time; starting a new song stops the
// old one first.
//
// Scheduling model: the player goroutine and the foreground (this
// struct's methods, called from whatever UI drives it) communicate only
// through the playing flag. Setting it false asks the player to drain
// its last buffer and exit; Stop blocks until that goroutine has
// actually returned before the caller may start the next song, so no
// APU or bus state is ever touched by two goroutines at once.
type Application struct {
	config *Config

	file   *nsf.File
	driver *nsf.Driver
	sink   audio.Sink

	playing atomic.Bool
	wg      sync.WaitGroup

	startTime time.Time

	mu          sync.Mutex
	currentSong int
	ticks       uint64
	lastTickLog time.Time
}

// NewApplication loads configuration from configPath (or defaults if
// empty) and opens the audio sink the config names.
func NewApplication(configPath string) (*Application, error) {
	config := NewConfig()
	if configPath != "" {
		if err := config.LoadFromFile(configPath); err != nil {
			fmt.Printf("[APP_WARNING] could not load config from %s, using defaults: %v\n", configPath, err)
		}
	}
	return NewApplicationWithConfig(config)
}

// NewApplicationWithConfig opens the audio sink named by an
// already-constructed config. Callers that need to override config fields
// (for example from CLI flags) before the sink is opened should build the
// config themselves and call this instead of NewApplication.
func NewApplicationWithConfig(config *Config) (*Application, error) {
	app := &Application{
		config:    config,
		startTime: time.Now(),
	}

	sink, err := app.openSink()
	if err != nil {
		return nil, &ApplicationError{Component: "audio", Operation: "open sink", Err: err}
	}
	app.sink = sink

	return app, nil
}

func (app *Application) openSink() (audio.Sink, error) {
	cfg := audio.Config{
		SampleRate: app.config.Audio.SampleRate,
		BufferSize: app.config.Audio.BufferSize,
	}
	switch app.config.Audio.Backend {
	case "headless":
		return audio.NewMemorySink(cfg), nil
	case "wav":
		return audio.NewWAVSink(app.config.Paths.WAVExport+"/out.wav", cfg)
	default:
		return newDefaultSink(cfg)
	}
}

// LoadFile parses path and loads its starting song, without playing it.
func (app *Application) LoadFile(path string) error {
	file, err := nsf.LoadFromFile(path)
	if err != nil {
		return &ApplicationError{Component: "nsf", Operation: "load file", Err: err}
	}
	app.file = file
	return app.loadSong(file.StartingSong)
}

// LoadSong switches to a specific 1-based song index within the already
// loaded file.
func (app *Application) LoadSong(song int) error {
	if app.file == nil {
		return &ApplicationError{Component: "app", Operation: "load song", Err: fmt.Errorf("no file loaded")}
	}
	return app.loadSong(song)
}

func (app *Application) loadSong(song int) error {
	app.Stop()

	if _, err := app.file.Song(song); err != nil {
		return &ApplicationError{Component: "nsf", Operation: "select song", Err: err}
	}

	driver, err := nsf.NewDriver(app.file, song, uint32(app.config.Audio.SampleRate))
	if err != nil {
		return &ApplicationError{Component: "nsf", Operation: "init song", Err: err}
	}

	app.mu.Lock()
	app.driver = driver
	app.currentSong = song
	app.mu.Unlock()
	return nil
}

// Play starts the player goroutine for the currently loaded song.
func (app *Application) Play() error {
	if app.driver == nil {
		return &ApplicationError{Component: "app", Operation: "play", Err: fmt.Errorf("no song loaded")}
	}
	if app.playing.Load() {
		return nil
	}

	app.playing.Store(true)
	app.wg.Add(1)
	go app.playLoop()
	return nil
}

// playLoop is the sole body run on the player goroutine. It owns the
// driver's bus exclusively from here until Stop clears playing.
func (app *Application) playLoop() {
	defer app.wg.Done()

	buf := make([]int32, app.config.Audio.BufferSize)
	pcm := make([]int16, len(buf))

	for app.playing.Load() {
		app.driver.Fill(buf)
		for i, s := range buf {
			pcm[i] = audio.ConvertSample(s)
		}
		// WriteSamples blocks until the sink has room; that backpressure
		// is the only suspension point in this loop.
		if err := app.sink.WriteSamples(pcm); err != nil {
			return
		}
		app.recordTick(uint64(len(buf)))
	}
}

func (app *Application) recordTick(samples uint64) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.ticks += samples
	if app.config.Debug.EnableLogging && time.Since(app.lastTickLog) > time.Second {
		app.lastTickLog = time.Now()
	}
}

// Stop asks the player goroutine to exit and waits for it to do so. It
// is always safe to call, including when nothing is playing.
func (app *Application) Stop() {
	app.playing.Store(false)
	app.wg.Wait()
}

// NextSong advances to the next song in the loaded file, wrapping
// around at the end.
func (app *Application) NextSong() error {
	if app.file == nil {
		return &ApplicationError{Component: "app", Operation: "next song", Err: fmt.Errorf("no file loaded")}
	}
	next := app.currentSong + 1
	if next > app.file.SongCount {
		next = 1
	}
	return app.loadSong(next)
}

// PrevSong goes back to the previous song, wrapping around at the start.
func (app *Application) PrevSong() error {
	if app.file == nil {
		return &ApplicationError{Component: "app", Operation: "prev song", Err: fmt.Errorf("no file loaded")}
	}
	prev := app.currentSong - 1
	if prev < 1 {
		prev = app.file.SongCount
	}
	return app.loadSong(prev)
}

// CurrentSong returns the 1-based index of the song currently loaded.
func (app *Application) CurrentSong() int {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.currentSong
}

// IsPlaying reports whether the player goroutine is currently running.
func (app *Application) IsPlaying() bool { return app.playing.Load() }

// Uptime returns how long this Application has existed.
func (app *Application) Uptime() time.Duration { return time.Since(app.startTime) }

// Config exposes the loaded configuration for read access by a front end.
func (app *Application) Config() *Config { return app.config }

// File exposes the currently loaded NSF metadata, or nil.
func (app *Application) File() *nsf.File { return app.file }

// Cleanup stops playback and releases the audio sink.
func (app *Application) Cleanup() error {
	app.Stop()
	if app.sink != nil {
		return app.sink.Close()
	}
	return nil
}
