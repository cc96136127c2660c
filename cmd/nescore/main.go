// Package main implements the nescore console emulator
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/nevisdale/nescore/internal/config"
	"github.com/nevisdale/nescore/internal/logger"
	"github.com/nevisdale/nescore/internal/nes"
	"github.com/nevisdale/nescore/internal/ui"
	"github.com/nevisdale/nescore/internal/wavrec"
	"github.com/pkg/profile"
	"github.com/retroenv/retrogolib/buildinfo"
	"golang.org/x/sync/errgroup"
)

var (
	version = "0.1.0"
	commit  = ""
	date    = ""
)

const statsviewAddr = "localhost:12600"

type optionFlags struct {
	config     string
	rom        string
	headless   bool
	frames     int
	screenshot string
	wav        string
	profile    string
	statsview  bool
	memviz     string
	trace      string
	version    bool
	quiet      bool
}

func main() {
	options := readArguments()

	if !options.quiet {
		printBanner()
	}
	if options.version {
		return
	}

	if err := run(options); err != nil {
		fmt.Println(fmt.Errorf("nescore: %w", err))
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.StringVar(&options.config, "config", "nescore.yaml", "name of the YAML configuration file")
	flags.StringVar(&options.rom, "rom", "", "name of the .nes or .zip file to run")
	flags.BoolVar(&options.headless, "headless", false, "run without a window")
	flags.IntVar(&options.frames, "frames", 600, "number of frames to run in headless mode")
	flags.StringVar(&options.screenshot, "screenshot", "", "write the last headless frame to this .png file")
	flags.StringVar(&options.wav, "wav", "", "record the audio output to this .wav file")
	flags.StringVar(&options.profile, "profile", "", "write a profile to the working directory: cpu or mem")
	flags.BoolVar(&options.statsview, "statsview", false, "serve runtime statistics on "+statsviewAddr)
	flags.StringVar(&options.memviz, "memviz", "", "write a graphviz dump of the console state to this .dot file after a headless run")
	flags.StringVar(&options.trace, "trace", "", "write a trace line per instruction to this file")
	flags.BoolVar(&options.version, "version", false, "print the version and exit")
	flags.BoolVar(&options.quiet, "q", false, "do not print the banner and log")

	err := flags.Parse(os.Args[1:])
	if err == nil && options.rom == "" && flags.NArg() > 0 {
		options.rom = flags.Arg(0)
	}

	if err != nil || (options.rom == "" && !options.version) {
		printBanner()
		fmt.Printf("usage: nescore [options] <rom file>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	return options
}

func printBanner() {
	fmt.Println("[--------------------------]")
	fmt.Println("[ nescore - NES emulator   ]")
	fmt.Printf("[--------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

func run(options optionFlags) error {
	if !options.quiet {
		logger.SetEcho(os.Stderr)
	}

	switch options.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	default:
		return fmt.Errorf("unknown profile %q", options.profile)
	}

	if options.statsview {
		go func() {
			viewer.SetConfiguration(viewer.WithAddr(statsviewAddr))
			statsview.New().Start()
		}()
		logger.Logf("main", "stats server available at %s/debug/statsview", statsviewAddr)
	}

	cfg, err := config.Load(options.config)
	if err != nil {
		return err
	}

	var opts []nes.Option
	if options.trace != "" {
		f, err := os.Create(options.trace)
		if err != nil {
			return fmt.Errorf("creating trace file: %w", err)
		}
		defer f.Close()
		opts = append(opts, nes.WithTrace(f))
	}

	if options.headless {
		return runHeadless(options, cfg, opts)
	}
	return runWindow(options, cfg, opts)
}

func runWindow(options optionFlags, cfg config.Config, opts []nes.Option) error {
	speaker := ui.NewSpeaker(cfg.SampleRate)
	defer speaker.Close()

	console, err := nes.New(cfg, append(opts, nes.WithAudioSink(speaker))...)
	if err != nil {
		return err
	}
	defer console.Destroy()
	speaker.Attach(console)

	if err := console.LoadROM(options.rom); err != nil {
		return err
	}
	if cfg.Sound {
		if err := console.EnableAudio(true); err != nil {
			logger.Logf("main", "running without audio: %v", err)
		}
	}
	if err := console.Start(); err != nil {
		return err
	}

	return ui.RunUI(ui.New(console, cfg))
}

func runHeadless(options optionFlags, cfg config.Config, opts []nes.Option) error {
	console, err := nes.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer console.Destroy()

	if err := console.LoadROM(options.rom); err != nil {
		return err
	}

	var rec *wavrec.Recorder
	if options.wav != "" {
		rec, err = wavrec.New(options.wav, cfg.SampleRate)
		if err != nil {
			return err
		}
		defer rec.Close()
	}

	chunks := make(chan []int16, 16)
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		defer close(chunks)
		buf := make([]int16, cfg.AudioBuffer)
		for i := 0; i < options.frames; i++ {
			if err := console.StepFrame(); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			n := console.ReadSamples(buf)
			if rec == nil || n == 0 {
				continue
			}
			chunk := make([]int16, n)
			copy(chunk, buf[:n])
			select {
			case chunks <- chunk:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	g.Go(func() error {
		for chunk := range chunks {
			if err := rec.Write(chunk); err != nil {
				return err
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Logf("main", "ran %d frames", options.frames)

	if rec != nil {
		if err := rec.Close(); err != nil {
			return err
		}
	}
	if options.screenshot != "" {
		if err := writeFile(options.screenshot, func(w io.Writer) error {
			return png.Encode(w, console.FrameImage())
		}); err != nil {
			return err
		}
	}
	if options.memviz != "" {
		info := console.Info()
		if err := writeFile(options.memviz, func(w io.Writer) error {
			memviz.Map(w, &info)
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(name string, write func(w io.Writer) error) (rerr error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("creating file '%s': %w", name, err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("closing file '%s': %w", name, err)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("writing file '%s': %w", name, err)
	}
	logger.Logf("main", "wrote %s", name)
	return nil
}
