package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/peterh/liner"
	"golang.org/x/term"

	logo "github.com/BlairLeduc/pico-logo-sub000"
	"github.com/BlairLeduc/pico-logo-sub000/internal/logger"
)

func main() {
	var (
		verbose  = flag.Bool("v", false, "log engine diagnostics")
		noColor  = flag.Bool("n", false, "no color")
		bytecode = flag.Bool("b", false, "run procedure bodies through the bytecode compiler")
		arena    = flag.Int("mem", logo.DefaultArenaSize, "object store size in bytes")
		depth    = flag.Int("depth", logo.DefaultFrameDepth, "procedure call depth limit")
		help     = flag.Bool("h", false, "show help")
	)
	flag.Parse()

	logger.Init(*verbose, *noColor)
	if *help {
		fmt.Printf("Usage: %s [options] [file ...]\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	opts := []logo.Option{
		logo.WithArenaSize(*arena),
		logo.WithFrameDepth(*depth),
		logo.WithBytecode(*bytecode),
		logo.WithLogf(func(mess string, args ...interface{}) {
			log.Debugf(mess, args...)
		}),
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	var console logo.Console
	if interactive {
		lc := newLinerConsole()
		defer lc.Close()
		console = lc
	} else {
		console = logo.NewConsole(os.Stdin, os.Stdout)
	}
	opts = append(opts, logo.WithConsole(console))

	in := logo.New(opts...)

	for _, path := range flag.Args() {
		text, err := os.ReadFile(path)
		if err != nil {
			log.Fatal("Can't read file", "path", path, "error", err)
		}
		if res := in.EvalText(string(text)); res.Kind == logo.ResError {
			log.Fatal("Load failed", "path", path, "error", res.Err)
		}
	}

	if err := in.Run(context.Background()); err != nil {
		log.Fatal("Session ended", "error", err)
	}
}

// linerConsole adapts the line editor to the engine's console, keeping
// history across prompts and mapping Ctrl-C to an empty line.
type linerConsole struct {
	state *liner.State
}

func newLinerConsole() *linerConsole {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &linerConsole{state: state}
}

func (lc *linerConsole) ReadLine(prompt string) (string, error) {
	s, err := lc.state.Prompt(prompt)
	if err == liner.ErrPromptAborted {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if s != "" {
		lc.state.AppendHistory(s)
	}
	return s, nil
}

func (lc *linerConsole) WriteString(s string) error {
	_, err := os.Stdout.WriteString(s)
	return err
}

func (lc *linerConsole) Close() error { return lc.state.Close() }
