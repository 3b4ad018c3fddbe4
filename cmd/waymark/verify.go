package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/sre-norns/waymark/pkg/grace"
	"github.com/sre-norns/waymark/pkg/jsoneq"
	"github.com/sre-norns/waymark/pkg/verify"
	"github.com/sre-norns/waymark/pkg/webhooks"
)

var errUpdateSingleTarget = errors.New("reference can only be recorded from exactly one target")

type VerifyCmd struct {
	Targets []string `arg:"" name:"target" help:"Base URL of a server to verify"`

	Reference string        `help:"Reference document to compare to" default:"${reference}" type:"path" short:"r"`
	Lenient   bool          `help:"Tolerate relations served but absent from the reference"`
	Timeout   time.Duration `help:"Timeout of a request to a target" default:"10s"`
	Parallel  int           `help:"Number of targets verified concurrently" default:"4"`
	Update    bool          `help:"Record the reference from the target instead of verifying it"`
	Notify    string        `help:"Webhook URL to post verification results to" env:"WAYMARK_NOTIFY_URL"`

	out io.Writer
}

func (c *VerifyCmd) Run(ctx context.Context) error {
	client := &http.Client{Timeout: c.Timeout}

	mode := jsoneq.Strict
	if c.Lenient {
		mode = jsoneq.Lenient
	}
	verifier := verify.New(verify.WithClient(client), verify.WithMode(mode))

	if c.Update {
		if len(c.Targets) != 1 {
			return errUpdateSingleTarget
		}
		if err := verifier.Record(ctx, c.Targets[0], c.Reference); err != nil {
			return err
		}

		fmt.Fprintf(c.output(), "recorded %s from %s\n", c.Reference, c.Targets[0])
		return nil
	}

	notify, err := c.notifier(client)
	if err != nil {
		return err
	}

	reference := verify.FileReference(c.Reference)
	group := grace.NewWorkgroup(c.Parallel)
	for _, target := range c.Targets {
		group.Go(func() error {
			report, err := verifier.Verify(ctx, target, reference)

			event := webhooks.NewVerificationEvent(report, reference, err)
			fmt.Fprintln(c.output(), event)
			notify(ctx, event)

			return err
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	return nil
}

func (c *VerifyCmd) output() io.Writer {
	if c.out == nil {
		return os.Stdout
	}

	return c.out
}

// notifier returns a function posting events to the webhook, or ignoring them if no webhook is set.
// Failure to notify does not fail verification.
func (c *VerifyCmd) notifier(client *http.Client) (func(context.Context, webhooks.VerificationEvent), error) {
	if c.Notify == "" {
		return func(context.Context, webhooks.VerificationEvent) {}, nil
	}

	hook, err := webhooks.ParseWebhookSpec(c.Notify)
	if err != nil {
		return nil, fmt.Errorf("invalid notification URL: %w", err)
	}

	caller, err := webhooks.NewHTTPCaller(client)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, event webhooks.VerificationEvent) {
		if err := caller.Post(ctx, hook, event); err != nil {
			log.Printf("failed to notify %s about %s: %v", c.Notify, event.Target, err)
		}
	}, nil
}
