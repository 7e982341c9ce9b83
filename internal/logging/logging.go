// Package logging provides the leveled logger used by kse commands.
//
// Output is prefixed by level and colored with fatih/color:
//
//	log := logging.Logger{Verbose: verbose, Debug: debug}
//	log.Infof("loaded %d fields", n)
//
// Infof is shown with --verbose or --debug, Debugf only with --debug.
// Warnf and Errorf are always shown. While the interactive editor owns the
// terminal, commands point Out at a log file instead of stderr.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type Logger struct {
	Verbose bool
	Debug   bool

	// Out receives all messages; nil means stderr
	Out io.Writer
}

func (l Logger) Infof(msg string, args ...any) {
	if l.Verbose || l.Debug {
		l.write(color.GreenString("[info] "), msg, args...)
	}
}

func (l Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		l.write(color.CyanString("[debug] "), msg, args...)
	}
}

func (l Logger) Warnf(msg string, args ...any) {
	l.write(color.YellowString("[warn] "), msg, args...)
}

func (l Logger) Errorf(msg string, args ...any) {
	l.write(color.RedString("[error] "), msg, args...)
}

func (l Logger) write(prefix, msg string, args ...any) {
	out := l.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, prefix+msg+"\n", args...)
}

// ToFile returns a copy of l writing to path (appending) and a function
// that closes the file.
func (l Logger) ToFile(path string) (Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return l, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l.Out = f
	return l, f.Close, nil
}
