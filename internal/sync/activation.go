package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/lirong-lirong/ags-tool/internal/ags"
	"github.com/lirong-lirong/ags-tool/internal/logger"
)

// DefaultPollInterval is the fixed delay between activation polls.
const DefaultPollInterval = 2 * time.Second

// DefaultActivationTimeout bounds the wait for a tool to become ACTIVE.
const DefaultActivationTimeout = 5 * time.Minute

// ActivationTimeoutError means the client gave up waiting. The remote tool
// may still be transitioning and is not rolled back.
type ActivationTimeoutError struct {
	ToolID  string
	Timeout time.Duration
}

func (e *ActivationTimeoutError) Error() string {
	return fmt.Sprintf("tool %s did not become ACTIVE within %s", e.ToolID, e.Timeout)
}

// ActivationFailedError means the control plane reported the tool FAILED.
type ActivationFailedError struct {
	ToolID string
	Reason string
}

func (e *ActivationFailedError) Error() string {
	return fmt.Sprintf("tool %s creation failed: %s", e.ToolID, e.Reason)
}

// ActivationNotFoundError means a describe call returned no matching tool:
// the resource vanished or the id is wrong. Not retried.
type ActivationNotFoundError struct {
	ToolID string
}

func (e *ActivationNotFoundError) Error() string {
	return fmt.Sprintf("tool %s not found", e.ToolID)
}

// ActivationController waits for a just-created tool to reach a terminal
// state. It is the only component with temporal behavior: it polls at a
// fixed interval, bounds total wall-clock wait, and distinguishes remote
// failure from client-side timeout from a vanished resource.
//
// The clock and sleep are injectable so tests run without real waits.
type ActivationController struct {
	cp       ControlPlane
	interval time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewActivationController builds a controller with the real clock and the
// default 2s poll interval.
func NewActivationController(cp ControlPlane) *ActivationController {
	return &ActivationController{
		cp:       cp,
		interval: DefaultPollInterval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// AwaitActive polls until the tool reaches a terminal state or the budget
// runs out. Returns nil the first poll that observes ACTIVE, with no sleep
// after that observation; FAILED returns immediately without waiting out the
// timeout. Context cancellation is honored on every iteration.
func (a *ActivationController) AwaitActive(ctx context.Context, toolID string, timeout time.Duration) error {
	start := a.now()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if elapsed := a.now().Sub(start); elapsed > timeout {
			return &ActivationTimeoutError{ToolID: toolID, Timeout: timeout}
		}

		resp, err := a.cp.DescribeSandboxToolList(ctx, &ags.DescribeSandboxToolListRequest{
			ToolIds: []string{toolID},
		})
		if err != nil {
			return fmt.Errorf("describe tool %s: %w", toolID, err)
		}
		if len(resp.SandboxToolSet) == 0 {
			return &ActivationNotFoundError{ToolID: toolID}
		}

		tool := resp.SandboxToolSet[0]
		switch tool.Status {
		case ags.ToolStatusActive:
			return nil
		case ags.ToolStatusFailed:
			reason := tool.StatusMessage
			if reason == "" {
				reason = "unknown error"
			}
			return &ActivationFailedError{ToolID: toolID, Reason: reason}
		}

		logger.Debug().
			Str("tool_id", toolID).
			Str("status", tool.Status).
			Dur("elapsed", a.now().Sub(start)).
			Msg("tool not ready yet")

		if err := a.sleep(ctx, a.interval); err != nil {
			return err
		}
	}
}

// sleepContext sleeps for d unless the context is cancelled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
