// Package cli is the terminal front end: a line-oriented shell over the identity
// store, the rating ledger and the directory.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"storerating/internal/delivery"
	deliverycontext "storerating/internal/delivery/context"
	domainerrors "storerating/internal/domain/errors"
	"storerating/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const prompt = "> "

// Params holds dependencies for the Console, injected by Fx.
// Input and Output default to stdin and stdout.
type Params struct {
	fx.In

	Identity  usecase.IdentityUsecase
	Ratings   usecase.RatingUsecase
	Directory usecase.DirectoryUsecase
	Logger    *slog.Logger

	Input  io.Reader `name:"console_input" optional:"true"`
	Output io.Writer `name:"console_output" optional:"true"`
}

// Console reads one command per line and renders the role dashboard of the active principal.
type Console struct {
	identity   usecase.IdentityUsecase
	ratings    usecase.RatingUsecase
	directory  usecase.DirectoryUsecase
	dispatcher *Dispatcher
	logger     *slog.Logger

	in  io.Reader
	out io.Writer

	outMu sync.Mutex

	// pending guards login, register and passwd against double submits.
	pending  atomic.Bool
	inflight sync.WaitGroup
}

// NewConsole is the constructor for Console.
func NewConsole(params Params) *Console {
	in := params.Input
	if in == nil {
		in = os.Stdin
	}
	out := params.Output
	if out == nil {
		out = os.Stdout
	}

	return &Console{
		identity:   params.Identity,
		ratings:    params.Ratings,
		directory:  params.Directory,
		dispatcher: NewDispatcher(params.Directory, params.Ratings),
		logger:     params.Logger,
		in:         in,
		out:        out,
	}
}

var _ delivery.Delivery = (*Console)(nil)

// Serve restores the persisted session, then runs commands until quit, end of
// input or ctx is done. Pending sign-ins are awaited before it returns.
func (c *Console) Serve(ctx context.Context) error {
	defer c.inflight.Wait()

	c.printf("storerating console. Type `help` for commands.\n")

	if principal := c.identity.RestoreSession(ctx); principal != nil {
		c.printf("Welcome back, %s.\n", principal.Name)
		c.renderDashboard(ctx)
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	for {
		c.printf(prompt)

		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return errors.Wrap(err, "failed to read console input")
				}

				return nil
			}

			if quit := c.execute(ctx, line); quit {
				return nil
			}
		}
	}
}

// execute runs one command line and reports whether the console should stop.
func (c *Console) execute(ctx context.Context, line string) bool {
	name, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	if name == "" {
		return false
	}

	cmd, ok := commands[strings.ToLower(name)]
	if !ok {
		c.printf("Unknown command %q. Type `help` for commands.\n", name)

		return false
	}

	if !cmd.async {
		c.inflight.Wait()
	}

	ctx = deliverycontext.Scoped(ctx, c.logger)
	deliverycontext.GetLogger(ctx).Debug("Console command", slog.String("command", name))

	return cmd.run(c, ctx, strings.TrimSpace(args))
}

// async runs fn in the background unless another guarded call is still pending.
func (c *Console) async(label string, fn func()) {
	if !c.pending.CompareAndSwap(false, true) {
		c.printf("%s is already pending, please wait.\n", label)

		return
	}

	c.printf("%s...\n", label)
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		defer c.pending.Store(false)
		fn()
	}()
}

func (c *Console) renderDashboard(ctx context.Context) {
	principal := c.identity.Current()
	if principal == nil {
		c.printf("Not signed in. Use `login <email> <password>` or `register`.\n")

		return
	}

	c.outMu.Lock()
	defer c.outMu.Unlock()

	if err := c.dispatcher.Render(ctx, c.out, principal); err != nil {
		c.reportLocked(ctx, err)
	}
}

func (c *Console) printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()

	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) report(ctx context.Context, err error) {
	c.outMu.Lock()
	defer c.outMu.Unlock()

	c.reportLocked(ctx, err)
}

// reportLocked prints the user-facing message of err; unexpected errors are logged.
func (c *Console) reportLocked(ctx context.Context, err error) {
	var appErr domainerrors.AppError
	switch {
	case errors.As(err, &appErr):
		msg := appErr.Message()
		if details := appErr.Details(); details != "" {
			msg += ": " + details
		}
		fmt.Fprintf(c.out, "Error: %s\n", msg)
	case errors.Is(err, ErrUnknownRole):
		fmt.Fprintf(c.out, "Error: %v\n", err)
	default:
		deliverycontext.GetLoggerOrDefault(ctx, c.logger).Error("Console command failed", slog.Any("error", err))
		fmt.Fprintln(c.out, "Error: something went wrong, please try again.")
	}
}
