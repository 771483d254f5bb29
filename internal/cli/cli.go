// Package cli implements the command-line front end: one-shot and interactive segmentation.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Separator joins tokens on output.
const Separator = " / "

const prompt = "> "

// ErrUnknownCommand is returned by Run for a subcommand it does not handle.
var ErrUnknownCommand = errors.New("unknown command")

// Segmenter is the part of the segmenter the CLI needs.
type Segmenter interface {
	Segment(text string) []string
	LexiconSize() int
}

// Runner executes CLI subcommands against a Segmenter.
type Runner struct {
	seg         Segmenter
	in          io.Reader
	out         io.Writer
	interactive bool
}

// New creates a Runner. The prompt is shown only when in is a terminal.
func New(seg Segmenter, in io.Reader, out io.Writer) *Runner {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &Runner{seg: seg, in: in, out: out, interactive: interactive}
}

// Run dispatches a subcommand: "segment [text...]" or "stats".
func (r *Runner) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("cli.Run: %w", ErrUnknownCommand)
	}
	switch args[0] {
	case "segment", "seg":
		return r.Segment(ctx, args[1:])
	case "stats":
		return r.Stats()
	default:
		return fmt.Errorf("cli.Run: %w: %q", ErrUnknownCommand, args[0])
	}
}

// Segment prints the tokens of the joined args, or of every input line when args is empty.
func (r *Runner) Segment(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return r.printTokens(strings.Join(args, " "))
	}

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if r.interactive {
			fmt.Fprint(r.out, prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if err := r.printTokens(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("cli.Segment: read input: %w", err)
	}
	if r.interactive {
		fmt.Fprintln(r.out)
	}
	return nil
}

// Stats prints the dictionary size.
func (r *Runner) Stats() error {
	if _, err := fmt.Fprintf(r.out, "dictionary words: %d\n", r.seg.LexiconSize()); err != nil {
		return fmt.Errorf("cli.Stats: %w", err)
	}
	return nil
}

func (r *Runner) printTokens(text string) error {
	if _, err := fmt.Fprintln(r.out, strings.Join(r.seg.Segment(text), Separator)); err != nil {
		return fmt.Errorf("cli.Segment: write: %w", err)
	}
	return nil
}
