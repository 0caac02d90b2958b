package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/collectivesmq/collectives/internal/xlog"
	"github.com/collectivesmq/collectives/pkg/collectives"
	"github.com/collectivesmq/collectives/pkg/params"
	"github.com/collectivesmq/collectives/pkg/transport"
)

// transportKind selects which Transport flavour a run uses. The
// default, "retrying", is the one spec.md documents as the data-plane
// default (PUSH/PULL with unbounded HWM and backoff); "basic" and
// "router" are opt-in via --transport for testing the other two
// capability variants.
type transportKind string

const (
	transportRetrying transportKind = "retrying"
	transportBasic    transportKind = "basic"
	transportRouter   transportKind = "router"
)

func newLogger() zerolog.Logger {
	level := xlog.LevelInfo
	if verbose {
		level = xlog.LevelDebug
	}
	return xlog.New(xlog.Config{Level: level, Format: xlog.FormatText, Output: os.Stdout})
}

func buildTransport(ctx context.Context, kind transportKind, p *params.Params, log zerolog.Logger) (transport.Transport, error) {
	switch kind {
	case transportBasic:
		return transport.NewBasic(ctx, p, log), nil
	case transportRouter:
		return transport.NewRouterTransport(ctx, p, log, 0), nil
	case transportRetrying, "":
		return transport.NewRetrying(ctx, p, log), nil
	default:
		return nil, fmt.Errorf("unknown transport kind %q", kind)
	}
}

// openFromEnv reads Params from the environment, builds the requested
// Transport, and opens a Collectives handle, returning a close func
// that the caller must invoke on every exit path.
func openFromEnv(ctx context.Context, kind transportKind, log zerolog.Logger) (*collectives.Collectives, func() error, error) {
	p, err := params.NewFromEnv(log)
	if err != nil {
		return nil, nil, fmt.Errorf("reading topology from environment: %w", err)
	}

	t, err := buildTransport(ctx, kind, p, log)
	if err != nil {
		return nil, nil, err
	}

	return collectives.Open(t, log)
}

// parseInts parses a comma-separated list of integers, used by
// commands that take their local contribution on the command line
// (e.g. --data "1,2,3,4").
func parseInts(csv string) ([]int, error) {
	if csv == "" {
		return nil, nil
	}
	var out []int
	start := 0
	for i := 0; i <= len(csv); i++ {
		if i == len(csv) || csv[i] == ',' {
			tok := csv[start:i]
			v, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("invalid integer %q in %q: %w", tok, csv, err)
			}
			out = append(out, v)
			start = i + 1
		}
	}
	return out, nil
}
