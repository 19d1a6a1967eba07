package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/polysynth/polysynth"
	"github.com/polysynth/polysynth/internal/config"
	"github.com/polysynth/polysynth/internal/synth"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "patch file (default: built-in patch)")
		notes   = flag.String("notes", "0,4,7", "comma separated notes, in semitones above the base frequency")
		hold    = flag.Float64("hold", 2, "seconds the chord is held")
		tail    = flag.Float64("tail", 2, "seconds rendered after release")
		out     = flag.String("out", "chord.wav", "output path; with -both, a flavor suffix is added")
		both    = flag.Bool("both", false, "render the formula and wavetable oscillators side by side")
	)
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Read(*cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	chord, err := parseNotes(*notes)
	if err != nil {
		log.Fatal(err)
	}

	if !*both {
		if err := render(cfg, chord, *hold, *tail, *out); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s\n", *out)
		return
	}

	var g errgroup.Group
	for _, flavor := range []synth.Flavor{synth.FlavorFormula, synth.FlavorWavetable} {
		c := *cfg
		c.Oscillator = flavor
		path := withSuffix(*out, string(flavor))
		g.Go(func() error {
			if err := render(&c, chord, *hold, *tail, path); err != nil {
				return fmt.Errorf("%s: %w", flavor, err)
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

func render(cfg *config.Config, notes []int, hold, tail float64, path string) error {
	samples, err := polysynth.RenderChord(cfg, notes, hold, tail)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := polysynth.WriteWAV(f, samples, cfg.SampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseNotes(s string) ([]int, error) {
	var notes []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid -notes entry %q", field)
		}
		notes = append(notes, n)
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("-notes is empty")
	}
	return notes, nil
}

func withSuffix(path, suffix string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndex(path, "/") {
		return path[:i] + "-" + suffix + path[i:]
	}
	return path + "-" + suffix
}
