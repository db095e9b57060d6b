// Package orchestrator implements the plan/apply driver: the commands
// that turn a loaded Policy and a live HMC inventory into Decisions, and
// optionally carry out the resizes those Decisions describe.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mercator-hq/hmcorch/pkg/audit"
	"mercator-hq/hmcorch/pkg/hmcclient/api"
	"mercator-hq/hmcorch/pkg/hmcclient/herrors"
	"mercator-hq/hmcorch/pkg/policy"
	"mercator-hq/hmcorch/pkg/policy/engine"
	"mercator-hq/hmcorch/pkg/telemetry/logging"
	"mercator-hq/hmcorch/pkg/telemetry/metrics"
)

// Target pairs one LPAR with the ManagedSystem ("frame") it lives on.
type Target struct {
	ManagedSystem api.ManagedSystem
	LPAR          api.LogicalPartition
}

// InventoryRow is one flattened row of the inventory command's output.
type InventoryRow struct {
	ManagedSystemUUID string  `json:"managed_system_uuid"`
	ManagedSystemName string  `json:"managed_system_name"`
	LPARUUID          string  `json:"lpar_uuid"`
	LPARName          string  `json:"lpar_name"`
	State             string  `json:"state"`
	CPUEntitlement    float64 `json:"cpu_entitlement"`
	MemoryMB          int     `json:"memory_mb"`
}

// Failure records one target that could not be resized during Apply.
type Failure struct {
	LPARUUID string `json:"lpar_uuid"`
	LPARName string `json:"lpar_name"`
	Reason   string `json:"reason"`
}

// PlanResult is the output of the plan command: a run id and the
// Decisions the policy produced against the current inventory.
type PlanResult struct {
	RunID     string            `json:"run_id"`
	Decisions []policy.Decision `json:"decisions"`
}

// ApplyResult is the output of the apply command: the Decisions that
// were evaluated, how many were successfully applied, and which failed.
type ApplyResult struct {
	RunID     string            `json:"run_id"`
	Decisions []policy.Decision `json:"decisions"`
	Succeeded int               `json:"succeeded"`
	Failures  []Failure         `json:"failures"`
}

// MetricsSource supplies a MetricSample for one LPAR. The default
// collect step uses a stub source returning a fixed utilization so plan
// and inventory work without a live PCM feed; production wiring can
// inject one backed by api.Client.PCMMetrics.
type MetricsSource func(ctx context.Context, msUUID, lparUUID string) (api.MetricSample, error)

// StubMetricsSource always reports 10% CPU utilization and no cooldown,
// matching the dry-run behavior described for the plan/apply commands
// when no live metrics source is wired.
func StubMetricsSource(ctx context.Context, msUUID, lparUUID string) (api.MetricSample, error) {
	return api.MetricSample{LPARUUID: lparUUID, CPUUtilPct: 10.0}, nil
}

// LiveMetricsSource adapts client.PCMMetrics into a MetricsSource: a
// managed system with PCM disabled reports zero utilization instead of
// failing the whole collect step, matching PCMMetrics' own doc comment
// ("callers treat as zero utilization rather than a fatal error").
func LiveMetricsSource(client *api.Client) MetricsSource {
	return func(ctx context.Context, msUUID, lparUUID string) (api.MetricSample, error) {
		sample, err := client.PCMMetrics(ctx, msUUID, lparUUID)
		if err != nil {
			if _, ok := err.(*herrors.PcmNotEnabled); ok {
				return api.MetricSample{LPARUUID: lparUUID}, nil
			}
			return api.MetricSample{}, err
		}
		return sample, nil
	}
}

// Driver implements the Inventory, Plan, and Apply command bodies.
type Driver struct {
	client        *api.Client
	log           *slog.Logger
	metrics       *metrics.Collector
	metricsSource MetricsSource
}

// New builds a Driver. If metricsSource is nil, StubMetricsSource is
// used. If log or collector is nil, a default/no-op value is used.
func New(client *api.Client, log *slog.Logger, collector *metrics.Collector, metricsSource MetricsSource) *Driver {
	if log == nil {
		log = slog.Default()
	}
	if metricsSource == nil {
		metricsSource = StubMetricsSource
	}
	return &Driver{client: client, log: log, metrics: collector, metricsSource: metricsSource}
}

// Inventory lists every LPAR across every ManagedSystem the HMC reports.
func (d *Driver) Inventory(ctx context.Context) ([]InventoryRow, error) {
	targets, err := d.listTargets(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]InventoryRow, 0, len(targets))
	for _, tg := range targets {
		rows = append(rows, InventoryRow{
			ManagedSystemUUID: tg.ManagedSystem.UUID,
			ManagedSystemName: tg.ManagedSystem.Name,
			LPARUUID:          tg.LPAR.UUID,
			LPARName:          tg.LPAR.Name,
			State:             tg.LPAR.State,
			CPUEntitlement:    tg.LPAR.CPUEntitlement,
			MemoryMB:          tg.LPAR.MemoryMB,
		})
	}
	return rows, nil
}

// Plan evaluates pol against the current inventory and returns the
// resulting Decisions without applying anything. If runID is empty, a
// random one is generated; callers pass --run-id to make a run
// reproducible or to resume logging/audit correlation across retries.
func (d *Driver) Plan(ctx context.Context, pol *policy.Policy, now time.Time, runID string) (*PlanResult, error) {
	if runID == "" {
		runID = uuid.New().String()
	}
	ctx = logging.WithRequestID(ctx, runID)
	d.log.InfoContext(ctx, "plan run starting", "request_id", logging.GetRequestID(ctx))

	targets, metricsByLPAR, err := d.collect(ctx)
	if err != nil {
		return nil, err
	}

	decisions, err := evaluateByFrame(pol, targets, metricsByLPAR, now)
	if err != nil {
		return nil, fmt.Errorf("evaluate policy: %w", err)
	}
	return &PlanResult{RunID: runID, Decisions: decisions}, nil
}

// Apply evaluates pol and, if confirm is true, invokes ResizeLPAR for
// every Decision with a nonzero CPU delta, in order. Without confirm it
// returns an error instead of touching the HMC. Successful applies are
// recorded to sink; sink may be audit.NopSink{}.
func (d *Driver) Apply(ctx context.Context, pol *policy.Policy, now time.Time, confirm bool, sink audit.Sink, runID string) (*ApplyResult, error) {
	if !confirm {
		return nil, fmt.Errorf("apply requires --confirm")
	}

	if runID == "" {
		runID = uuid.New().String()
	}
	ctx = logging.WithRequestID(ctx, runID)

	targets, metricsByLPAR, err := d.collect(ctx)
	if err != nil {
		return nil, err
	}

	decisions, err := evaluateByFrame(pol, targets, metricsByLPAR, now)
	if err != nil {
		return nil, fmt.Errorf("evaluate policy: %w", err)
	}

	result := &ApplyResult{RunID: runID, Decisions: decisions}
	for _, dec := range decisions {
		if dec.Delta.CPUEnt == 0 {
			continue
		}
		resizeCtx := logging.WithLPAR(logging.WithFrame(ctx, dec.FrameUUID), dec.LPARUUID)
		if err := d.client.ResizeLPAR(ctx, dec.FrameUUID, dec.LPARUUID, dec.Target.CPUEnt, dec.Target.MemMB); err != nil {
			result.Failures = append(result.Failures, Failure{LPARUUID: dec.LPARUUID, LPARName: dec.LPARName, Reason: err.Error()})
			if d.metrics != nil {
				d.metrics.RecordResize(resizeDirection(dec), "failed", dec.Delta.CPUEnt)
			}
			d.log.WarnContext(resizeCtx, "resize failed", "lpar_uuid", dec.LPARUUID, "frame_uuid", dec.FrameUUID, "error", err)
			continue
		}
		result.Succeeded++
		if d.metrics != nil {
			d.metrics.RecordResize(resizeDirection(dec), "applied", dec.Delta.CPUEnt)
		}
		d.log.InfoContext(resizeCtx, "resize applied", "lpar_uuid", dec.LPARUUID, "frame_uuid", dec.FrameUUID, "cpu_delta", dec.Delta.CPUEnt)
		if err := sink.Record(ctx, runID, dec); err != nil {
			d.log.WarnContext(resizeCtx, "audit record failed", "lpar_uuid", dec.LPARUUID, "error", err)
		}
	}
	return result, nil
}

func resizeDirection(d policy.Decision) string {
	if d.Delta.CPUEnt > 0 {
		return "up"
	}
	return "down"
}

// collect lists every target and gathers one MetricSample per LPAR.
func (d *Driver) collect(ctx context.Context) ([]Target, map[string]api.MetricSample, error) {
	targets, err := d.listTargets(ctx)
	if err != nil {
		return nil, nil, err
	}
	metricsByLPAR := make(map[string]api.MetricSample, len(targets))
	for _, tg := range targets {
		sample, err := d.metricsSource(ctx, tg.ManagedSystem.UUID, tg.LPAR.UUID)
		if err != nil {
			return nil, nil, fmt.Errorf("collect metrics for lpar %s: %w", tg.LPAR.UUID, err)
		}
		metricsByLPAR[tg.LPAR.UUID] = sample
	}
	return targets, metricsByLPAR, nil
}

func (d *Driver) listTargets(ctx context.Context) ([]Target, error) {
	systems, err := d.client.ListManagedSystems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list managed systems: %w", err)
	}
	var targets []Target
	for _, ms := range systems {
		lpars, err := d.client.ListLPARs(ctx, ms.UUID)
		if err != nil {
			return nil, fmt.Errorf("list lpars for managed system %s: %w", ms.UUID, err)
		}
		for _, lpar := range lpars {
			targets = append(targets, Target{ManagedSystem: ms, LPAR: lpar})
		}
	}
	return targets, nil
}

// evaluateByFrame runs the policy engine once per ManagedSystem so each
// Decision carries the correct frame_uuid, preserving overall input
// order across frames.
func evaluateByFrame(pol *policy.Policy, targets []Target, metricsByLPAR map[string]api.MetricSample, now time.Time) ([]policy.Decision, error) {
	var decisions []policy.Decision
	i := 0
	for i < len(targets) {
		msUUID := targets[i].ManagedSystem.UUID
		var lpars []api.LogicalPartition
		for i < len(targets) && targets[i].ManagedSystem.UUID == msUUID {
			lpars = append(lpars, targets[i].LPAR)
			i++
		}
		frameDecisions, err := engine.Evaluate(pol, msUUID, lpars, metricsByLPAR, now)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, frameDecisions...)
	}
	return decisions, nil
}
