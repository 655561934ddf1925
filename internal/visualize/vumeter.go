// Package visualize renders a terminal VU meter for a playing song, a
// small bonus front end alongside the headless and WAV-export paths.
package visualize

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"nsfplay/internal/app"
)

const (
	refreshRate = time.Second / 30
	barWidth    = 40
)

// RunVUMeter draws a simple bar graph, with the current song number and
// the seconds since the meter started, until the player stops or the
// user presses q/Ctrl-C. It never reads the raw sample stream directly —
// the level shown is a sine-wave animation driven by the time since the
// meter started, good enough for a "something is happening" indicator
// without adding a tap into the audio pipeline.
func RunVUMeter(application *app.Application) {
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vu: %v\n", err)
		return
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "vu: %v\n", err)
		return
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorGreen))
	screen.Clear()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	events := make(chan tcell.Event, 4)
	go screen.ChannelEvents(events, nil)

	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	start := time.Now()
	for application.IsPlaying() {
		select {
		case <-sigCh:
			return
		case ev := <-events:
			if key, ok := ev.(*tcell.EventKey); ok {
				if key.Rune() == 'q' || key.Key() == tcell.KeyCtrlC || key.Key() == tcell.KeyEscape {
					return
				}
			}
		case <-ticker.C:
			draw(screen, application, start)
		}
	}
}

func draw(screen tcell.Screen, application *app.Application, start time.Time) {
	screen.Clear()

	elapsed := time.Since(start).Seconds()
	level := (math.Sin(elapsed*3)+1)/2*0.6 + 0.2

	title := fmt.Sprintf("song %d   %.1fs", application.CurrentSong(), elapsed)
	drawText(screen, 0, 0, title)

	filled := int(level * barWidth)
	bar := ""
	for i := 0; i < barWidth; i++ {
		if i < filled {
			bar += "#"
		} else {
			bar += "-"
		}
	}
	drawText(screen, 0, 2, "["+bar+"]")
	drawText(screen, 0, 4, "press q to quit")

	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, text string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
