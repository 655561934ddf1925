// Package main implements the nsfplay command-line player.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"nsfplay/internal/app"
	"nsfplay/internal/version"
	"nsfplay/internal/visualize"
)

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "nsfplay"
	cliApp.Usage = "nsfplay [options] <file.nsf>"
	cliApp.Description = "Plays NES Sound Format (NSF) chiptune files through a cycle-accurate 2A03/2A07 APU emulation"
	cliApp.Version = version.GetVersion()
	cliApp.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "Path to configuration file"},
		cli.IntFlag{Name: "song", Usage: "Song index to play (1-based; default: header's starting song)"},
		cli.BoolFlag{Name: "headless", Usage: "Render to an in-memory sink instead of opening an audio device"},
		cli.StringFlag{Name: "export-wav", Usage: "Render to out.wav in this directory instead of live playback"},
		cli.BoolFlag{Name: "vu", Usage: "Show a terminal VU meter while playing"},
		cli.DurationFlag{Name: "duration", Usage: "Stop after this long (0 = run until interrupted)", Value: 0},
		cli.BoolFlag{Name: "build-info", Usage: "Print detailed build information and exit"},
	}
	cliApp.Action = run

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "nsfplay: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("build-info") {
		version.PrintBuildInfo()
		return nil
	}

	if c.NArg() == 0 {
		cli.ShowAppHelp(c)
		return fmt.Errorf("no NSF file provided")
	}
	path := c.Args().Get(0)

	configPath := c.String("config")
	if configPath == "" {
		configPath = app.GetDefaultConfigPath()
	}

	config := app.NewConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "nsfplay: could not load config from %s, using defaults: %v\n", configPath, err)
	}

	if c.Bool("headless") {
		config.Audio.Backend = "headless"
	}
	if export := c.String("export-wav"); export != "" {
		config.Audio.Backend = "wav"
		config.Paths.WAVExport = export
	}

	application, err := app.NewApplicationWithConfig(config)
	if err != nil {
		return err
	}

	if err := application.LoadFile(path); err != nil {
		return err
	}

	file := application.File()
	fmt.Printf("%s - %s (%s)\n", file.Title, file.Artist, file.Copyright)
	fmt.Printf("songs: %d, region: %v\n", file.SongCount, file.Region)
	if names := file.UnsupportedExpansions(); len(names) > 0 {
		fmt.Printf("note: expansion audio chips declared but not emulated: %v\n", names)
	}

	if song := c.Int("song"); song > 0 {
		if err := application.LoadSong(song); err != nil {
			return err
		}
	}

	setupGracefulShutdown(application)

	if err := application.Play(); err != nil {
		return err
	}
	defer application.Cleanup()

	if c.Bool("vu") {
		visualize.RunVUMeter(application)
	} else if d := c.Duration("duration"); d > 0 {
		time.Sleep(d)
	} else {
		select {}
	}

	return nil
}

func setupGracefulShutdown(application *app.Application) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		application.Cleanup()
		os.Exit(0)
	}()
}
