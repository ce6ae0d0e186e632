package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/JackWReid/textor/internal/editor"
	"github.com/JackWReid/textor/internal/terminal"
)

var Version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		var ue usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "textor: %v\n", err)
		os.Exit(1)
	}
}

type usageError struct{ error }

func run(args []string) error {
	fs := flag.NewFlagSet("textor", flag.ContinueOnError)
	logPath := fs.String("log", "", "Append diagnostics to this file")
	showVersion := fs.Bool("version", false, "Print the version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: textor [-log file] [file]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{err}
	}
	if *showVersion {
		fmt.Println("textor", Version)
		return nil
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(fs.Output(), "at most one file may be given")
		fs.Usage()
		return usageError{errors.New("too many arguments")}
	}

	closeLog, err := setupLog(*logPath)
	if err != nil {
		return err
	}
	defer closeLog()
	editor.Version = Version

	buf := editor.NewBuffer()
	if path := fs.Arg(0); path != "" {
		if err := buf.Load(path); err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		log.Printf("loaded %d lines from %s", buf.LineCount(), path)
	}

	t, err := terminal.Open(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer t.Restore()

	// Raw mode has ISIG off, so these only come from outside the editor.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigs)
	go func() {
		sig, ok := <-sigs
		if !ok {
			return
		}
		shutdown(sig, t, closeLog)
		os.Exit(1)
	}()

	app, err := editor.NewApp(t, buf)
	if err != nil {
		return err
	}
	log.Println("editor starting")
	if err := app.Run(); err != nil {
		return err
	}
	log.Println("editor stopped cleanly")
	return nil
}

// shutdown leaves raw mode and closes the log ahead of a signal exit. Frames
// the run loop writes after this are dropped by the terminal.
func shutdown(sig os.Signal, t interface{ Restore() }, closeLog func()) {
	log.Printf("terminated by %v", sig)
	t.Restore()
	closeLog()
}

// setupLog points the standard logger at path, or discards output when path
// is empty. The terminal belongs to the editor while it runs.
func setupLog(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	log.SetOutput(f)
	return sync.OnceFunc(func() { f.Close() }), nil
}
