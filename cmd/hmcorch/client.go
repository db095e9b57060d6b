package main

import (
	"context"
	"fmt"

	"mercator-hq/hmcorch/pkg/config"
	"mercator-hq/hmcorch/pkg/hmcclient/api"
	"mercator-hq/hmcorch/pkg/hmcclient/session"
	"mercator-hq/hmcorch/pkg/hmcclient/transport"
	"mercator-hq/hmcorch/pkg/orchestrator"
	"mercator-hq/hmcorch/pkg/telemetry/metrics"
	"mercator-hq/hmcorch/pkg/telemetry/tracing"
)

// buildOverrides maps the root command's persistent flags to
// config.Overrides; flags left at their zero value are treated as not
// set, preserving env/YAML precedence beneath them.
func buildOverrides() config.Overrides {
	var o config.Overrides
	if rootFlags.host != "" {
		o.Host = &rootFlags.host
	}
	if rootFlags.port != 0 {
		o.Port = &rootFlags.port
	}
	if rootFlags.username != "" {
		o.Username = &rootFlags.username
	}
	if rootFlags.verify != "" {
		o.Verify = &rootFlags.verify
	}
	if rootFlags.noVerify {
		v := "false"
		o.Verify = &v
	}
	return o
}

// buildDriver loads configuration and wires the full HMC client stack
// into an orchestrator.Driver: transport, session, typed API client,
// tracer, and the metrics collector shared across commands.
func buildDriver() (*orchestrator.Driver, func(), error) {
	cfg, err := config.Load(rootFlags.configFile, buildOverrides())
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	tracer, err := tracing.New(tracing.FromConfig(cfg.Telemetry.Tracing))
	if err != nil {
		return nil, nil, fmt.Errorf("init tracing: %w", err)
	}

	tr, err := transport.New(cfg, tracer)
	if err != nil {
		return nil, nil, fmt.Errorf("init transport: %w", err)
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	sess := session.New(cfg, tr, nil)
	client := api.New(sess)
	driver := orchestrator.New(client, nil, collector, orchestrator.LiveMetricsSource(client))

	cleanup := func() {
		sess.Close(context.Background())
		tr.CloseIdleConnections()
	}
	return driver, cleanup, nil
}
