// Package repl reads operator commands from an io.Reader, one per
// line, and writes replies to an io.Writer. It is the headless
// counterpart of the TUI console, used when the bot runs without a
// terminal UI.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fd1az/polygon-arb-bot/business/operator/app"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

const prompt = "arb> "

// REPL is a line-oriented operator console.
type REPL struct {
	handler *app.Handler
	in      io.Reader
	out     io.Writer
	logger  logger.LoggerInterface

	stopOnce sync.Once
	done     chan struct{}
}

// New creates a REPL reading from in and writing to out.
func New(handler *app.Handler, in io.Reader, out io.Writer, log logger.LoggerInterface) *REPL {
	return &REPL{
		handler: handler,
		in:      in,
		out:     out,
		logger:  log,
		done:    make(chan struct{}),
	}
}

// Run processes lines until EOF or context cancellation. Blocks.
func (r *REPL) Run(ctx context.Context) error {
	defer r.stopOnce.Do(func() { close(r.done) })

	fmt.Fprintln(r.out, "polygon arb bot, type help for commands")
	fmt.Fprint(r.out, prompt)

	lines := make(chan string)
	go r.readLines(lines)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				r.logger.Info(ctx, "operator input closed")
				return nil
			}
			if line == "" {
				fmt.Fprint(r.out, prompt)
				continue
			}
			reply := r.handler.HandleLine(ctx, line)
			fmt.Fprintln(r.out, reply)
			fmt.Fprint(r.out, prompt)
		}
	}
}

// Done is closed when the input stream ends.
func (r *REPL) Done() <-chan struct{} {
	return r.done
}

func (r *REPL) readLines(lines chan<- string) {
	defer close(lines)

	scanner := bufio.NewScanner(r.in)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
}
