package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/polysynth/polysynth"
	"github.com/polysynth/polysynth/internal/audio"
	"github.com/polysynth/polysynth/internal/config"
	"github.com/polysynth/polysynth/internal/voice"
	"github.com/polysynth/polysynth/internal/waveform"
)

// Two rows of a piano keyboard, starting at the base frequency.
const keyRow = "awsedftgyhujkolp;"

var errQuit = errors.New("quit")

func main() {
	var (
		cfgPath     = flag.String("config", "polysynth.json", "patch file; written with defaults when missing")
		backendName = flag.String("backend", "oto", "audio backend: ebiten|oto|portaudio|null")
		watch       = flag.Bool("watch", true, "reload the patch file when it changes")
	)
	flag.Parse()
	log.SetFlags(0)

	cfg, err := config.Read(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	backend, err := audio.ParseBackend(*backendName)
	if err != nil {
		log.Fatal(err)
	}
	pl, err := polysynth.NewPlayer(polysynth.WithConfig(cfg), polysynth.WithBackend(backend))
	if err != nil {
		log.Fatal(err)
	}
	if err := pl.Start(); err != nil {
		log.Fatal(err)
	}
	defer pl.Stop()

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			log.Fatalf("can't set raw mode: %v", err)
		}
		defer term.Restore(fd, old)
		log.SetOutput(crlfWriter{os.Stderr})
	}
	log.Printf("keys %s play notes (press again to release), z/x octave, 1-5 waveform, space all off, q quits", keyRow)

	g, ctx := errgroup.WithContext(context.Background())
	if *watch && cfg.WatchConfig {
		configs := make(chan *config.Config)
		errs := make(chan error)
		if err := config.Watch(ctx, *cfgPath, configs, errs); err != nil {
			log.Printf("not watching config: %v", err)
		} else {
			g.Go(func() error {
				reload(ctx, pl, configs, errs)
				return nil
			})
		}
	}
	g.Go(func() error {
		return readKeys(os.Stdin, pl, cfg.SlotArray()[0])
	})
	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		log.Print(err)
	}
}

func reload(ctx context.Context, pl *polysynth.Player, configs <-chan *config.Config, errs <-chan error) {
	for {
		select {
		case c := <-configs:
			switch err := pl.Reload(c); {
			case errors.Is(err, polysynth.ErrRestartRequired):
				log.Printf("patch reloaded; %v", err)
			case err != nil:
				log.Printf("patch rejected: %v", err)
			default:
				log.Print("patch reloaded")
			}
		case err := <-errs:
			log.Printf("config: %v", err)
		case <-ctx.Done():
			return
		}
	}
}

// readKeys turns key presses into note events. A terminal reports no key
// releases, so each note key latches: the first press holds the note and the
// second releases it.
func readKeys(r io.Reader, pl *polysynth.Player, slot voice.SlotParams) error {
	held := make(map[int]bool)
	octave := 0
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errQuit
			}
			return err
		}
		for _, b := range buf[:n] {
			switch {
			case b == 'q' || b == 3: // ctrl-c
				return errQuit
			case b == ' ':
				clear(held)
				report(pl.AllNotesOff())
			case b == 'z' || b == 'x':
				if b == 'z' && octave > -2 {
					octave--
				} else if b == 'x' && octave < 2 {
					octave++
				}
				log.Printf("octave %+d", octave)
			case b >= '1' && b <= '5':
				slot.Enabled = true
				slot.Wave = waveform.All()[b-'1']
				report(pl.SetOscillator(0, slot))
				log.Printf("slot 0: %s", slot.Wave)
			default:
				i := strings.IndexByte(keyRow, b)
				if i < 0 {
					continue
				}
				note := i + 12*octave
				if held[note] {
					delete(held, note)
					report(pl.NoteRelease(note))
				} else {
					held[note] = true
					report(pl.NotePress(note))
				}
			}
		}
	}
}

func report(err error) {
	if err != nil {
		log.Print(err)
	}
}

// crlfWriter restores carriage returns that raw mode stops adding.
type crlfWriter struct{ w io.Writer }

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags]\n\nPlays the synthesizer from the terminal keyboard.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
}
