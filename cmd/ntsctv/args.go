package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// cliArgs is the parsed form of the command line described in SPEC_FULL.md
// §6. --in/--out (variadic token runs), --control (a compound
// ":random:key=val" token or scenario path) and --size (two positional
// ints under one flag name) aren't shaped like anything a single top-level
// flag.FlagSet.Parse call handles, so those three grammars are tokenized by
// hand, the same way the teacher hand-rolls its ffmpeg argument
// construction. Every actual scalar value — seed, verbose, and size's width
// and height — is still parsed and type-checked by a flag.FlagSet, invoked
// once per recognised flag with just that flag's token(s).
type cliArgs struct {
	in       []string
	out      []string
	control  string
	width    int
	height   int
	seed     int64
	verbose  int
	hasSize  bool
}

// newScalarFlagSet registers every scalar-valued flag onto a, the same way
// hacktvlive/config.Config would, so their actual int parsing/coercion goes
// through the standard flag package rather than hand-rolled strconv calls.
func newScalarFlagSet(a *cliArgs, width, height *int) *flag.FlagSet {
	fs := flag.NewFlagSet("ntsctv", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // main.go prints its own usage on error
	fs.Int64Var(&a.seed, "seed", 0, "random seed; 0 means seed from wall clock")
	fs.IntVar(&a.verbose, "verbose", 0, "log verbosity 0-5")
	fs.IntVar(width, "width", 0, "output width, >= 64")
	fs.IntVar(height, "height", 0, "output height, >= 64")
	return fs
}

func parseArgs(args []string) (*cliArgs, error) {
	a := &cliArgs{verbose: 0}
	var width, height int
	fs := newScalarFlagSet(a, &width, &height)
	haveIn, haveOut, haveControl := false, false, false

	i := 0
	next := func() (string, bool) {
		if i < len(args) {
			v := args[i]
			i++
			return v, true
		}
		return "", false
	}

	for i < len(args) {
		tok := args[i]
		i++
		switch tok {
		case "--in":
			haveIn = true
			for i < len(args) && !strings.HasPrefix(args[i], "--") {
				a.in = append(a.in, args[i])
				i++
			}
		case "--out":
			haveOut = true
			for i < len(args) && !strings.HasPrefix(args[i], "--") {
				a.out = append(a.out, args[i])
				i++
			}
		case "--control":
			v, ok := next()
			if !ok {
				return nil, fmt.Errorf("--control requires a value")
			}
			a.control = v
			haveControl = true
		case "--size":
			wStr, ok1 := next()
			hStr, ok2 := next()
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("--size requires two integers")
			}
			if err := fs.Parse([]string{"-width", wStr, "-height", hStr}); err != nil {
				return nil, fmt.Errorf("--size values must be integers")
			}
			if width < 64 || height < 64 {
				return nil, fmt.Errorf("--size dimensions must be >= 64, got %dx%d", width, height)
			}
			if width%2 != 0 {
				width--
			}
			if height%2 != 0 {
				height--
			}
			a.width, a.height, a.hasSize = width, height, true
		case "--seed":
			v, ok := next()
			if !ok {
				return nil, fmt.Errorf("--seed requires a value")
			}
			if err := fs.Parse([]string{"-seed", v}); err != nil {
				return nil, fmt.Errorf("--seed must be an integer: %w", err)
			}
		case "--verbose":
			v, ok := next()
			if !ok {
				return nil, fmt.Errorf("--verbose requires a value")
			}
			if err := fs.Parse([]string{"-verbose", v}); err != nil {
				return nil, fmt.Errorf("--verbose must be an integer 0-5: %w", err)
			}
			if a.verbose < 0 || a.verbose > 5 {
				return nil, fmt.Errorf("--verbose must be an integer 0-5")
			}
		default:
			return nil, fmt.Errorf("unknown flag %q", tok)
		}
	}

	if !haveIn || len(a.in) == 0 {
		return nil, fmt.Errorf("--in is required and needs at least one source")
	}
	if !haveOut || len(a.out) == 0 {
		return nil, fmt.Errorf("--out is required and needs at least one destination")
	}
	if !haveControl {
		return nil, fmt.Errorf("--control is required")
	}
	return a, nil
}

// controlSpec is --control's parsed random-controller form.
type controlSpec struct {
	random      bool
	scenario    string
	duration    int
	powerup     bool
	fixsettings bool
	fps         int
}

func parseControl(spec string) (controlSpec, error) {
	cs := controlSpec{duration: 60, fps: 30}
	if !strings.HasPrefix(spec, ":random") {
		cs.scenario = spec
		return cs, nil
	}
	cs.random = true
	rest := strings.TrimPrefix(spec, ":random")
	rest = strings.TrimPrefix(rest, ":")
	if rest == "" {
		return cs, nil
	}
	for _, tok := range strings.Split(rest, ":") {
		if tok == "" {
			continue
		}
		kv := strings.SplitN(tok, "=", 2)
		key := kv[0]
		switch key {
		case "duration":
			if len(kv) != 2 {
				return cs, fmt.Errorf("malformed --control token %q", tok)
			}
			v, err := strconv.Atoi(kv[1])
			if err != nil {
				return cs, fmt.Errorf("malformed --control duration: %w", err)
			}
			cs.duration = v
		case "fps":
			if len(kv) != 2 {
				return cs, fmt.Errorf("malformed --control token %q", tok)
			}
			v, err := strconv.Atoi(kv[1])
			if err != nil {
				return cs, fmt.Errorf("malformed --control fps: %w", err)
			}
			cs.fps = v
		case "powerup":
			cs.powerup = true
		case "fixsettings":
			cs.fixsettings = true
		default:
			return cs, fmt.Errorf("unknown --control key %q", key)
		}
	}
	return cs, nil
}
