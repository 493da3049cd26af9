package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/intervista/internal/presentation/tui"
	"github.com/aretw0/intervista/pkg/controller"
	"github.com/aretw0/intervista/pkg/domain"
)

// PracticeOptions configures the interactive loop.
type PracticeOptions struct {
	In     io.Reader
	Out    io.Writer
	Render func(string) (string, error)
	// Prompt is printed before each read; empty disables it (pipes).
	Prompt string
}

var commandOrder = []string{"start", "new", "reset", "save", "role", "quit"}

func commandsEnabled(ctrl *controller.Controller) map[string]bool {
	return map[string]bool{
		"start": ctrl.Enabled(controller.IntentStart),
		"new":   ctrl.Enabled(controller.IntentRegenerate),
		"reset": ctrl.Enabled(controller.IntentReset),
		"save":  ctrl.Snapshot().HasQuestion(),
		"role":  ctrl.Enabled(controller.IntentSelectRole),
		"quit":  true,
	}
}

// RunPractice reads commands and answers line by line until EOF, /quit, or
// ctx is cancelled. Lines starting with "/" are commands; anything else is
// submitted as the answer to the current question.
func RunPractice(ctx context.Context, ctrl *controller.Controller, opts PracticeOptions) error {
	var (
		mu sync.Mutex
		// drawn signals that shown was updated or the subscription ended.
		drawn  = sync.NewCond(&mu)
		shown  domain.Session
		closed bool
	)
	view := tui.NewView(opts.Out, opts.Render)
	printf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(opts.Out, format, args...)
	}

	updates, unsubscribe := ctrl.Subscribe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for s := range updates {
			mu.Lock()
			view.Show(s)
			shown = s
			drawn.Broadcast()
			mu.Unlock()
		}
		mu.Lock()
		closed = true
		drawn.Broadcast()
		mu.Unlock()
	}()
	defer func() {
		unsubscribe()
		wg.Wait()
	}()

	mu.Lock()
	shown = ctrl.Snapshot()
	view.Show(shown)
	view.Hint(commandsEnabled(ctrl), commandOrder)
	mu.Unlock()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(opts.In)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if opts.Prompt != "" {
			printf("%s", opts.Prompt)
		}
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			select {
			case err := <-readErr:
				return err
			default:
				return nil
			}
		}

		quit, err := dispatch(ctx, ctrl, strings.TrimSpace(line), printf)
		if err != nil {
			printf("%v\n", err)
		}
		if quit {
			return nil
		}
		// The hint goes below the last snapshot, so wait until it is drawn.
		mu.Lock()
		for !closed && shown != ctrl.Snapshot() {
			drawn.Wait()
		}
		view.Hint(commandsEnabled(ctrl), commandOrder)
		mu.Unlock()
	}
}

func dispatch(ctx context.Context, ctrl *controller.Controller, line string, printf func(string, ...any)) (bool, error) {
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, "/") {
		if !ctrl.Snapshot().HasQuestion() {
			return false, errors.New("no question yet, type /start")
		}
		ctrl.Submit(ctx, line)
		return false, nil
	}

	cmd, arg, _ := strings.Cut(line[1:], " ")
	switch cmd {
	case "start":
		ctrl.Start(ctx)
	case "new":
		ctrl.Regenerate(ctx)
	case "reset":
		ctrl.Reset(ctx)
	case "role":
		title := strings.TrimSpace(arg)
		if title == "" {
			return false, fmt.Errorf("usage: /role <title> (current: %s)", ctrl.Snapshot().JobRoleTitle)
		}
		ctrl.SelectRole(ctx, &domain.JobRole{Title: title})
	case "save":
		if _, err := ctrl.Save(ctx); err != nil {
			return false, err
		}
		printf("Session saved.\n")
	case "quit", "exit":
		return true, nil
	case "help":
		printf("commands: /%s\n", strings.Join(commandOrder, " /"))
	default:
		return false, fmt.Errorf("unknown command /%s", cmd)
	}
	return false, nil
}
