// Package api exposes the typed HMC operations the orchestrator needs:
// listing managed systems and LPARs, reading PCM metrics, and resizing
// an LPAR's CPU entitlement. Every method delegates to a
// *session.Session, which owns retry, breaker, and auth.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"mercator-hq/hmcorch/pkg/hmcclient/herrors"
	"mercator-hq/hmcorch/pkg/hmcclient/session"
)

// Client wraps a Session with the HMC's UOM/PCM endpoint shapes.
type Client struct {
	sess *session.Session
}

// New wraps sess in a typed Client.
func New(sess *session.Session) *Client {
	return &Client{sess: sess}
}

// ListManagedSystems returns every managed system the HMC knows about.
func (c *Client) ListManagedSystems(ctx context.Context) ([]ManagedSystem, error) {
	data, err := c.sess.Request(ctx, "GET", "/rest/api/uom/ManagedSystem", nil)
	if err != nil {
		return nil, err
	}
	var env managedSystemsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &herrors.SchemaError{Op: "ListManagedSystems", Message: "malformed response", Cause: err}
	}
	systems := make([]ManagedSystem, 0, len(env.Items))
	for _, ms := range env.Items {
		systems = append(systems, ManagedSystem{UUID: ms.UUID, Name: ms.Name})
	}
	return systems, nil
}

// ListLPARs returns the logical partitions hosted on the given managed
// system. Missing fields default the way the original implementation
// does: state defaults to "unknown", memory defaults to 0.
func (c *Client) ListLPARs(ctx context.Context, msUUID string) ([]LogicalPartition, error) {
	path := fmt.Sprintf("/rest/api/uom/LogicalPartition?managedSystemUuid=%s", url.QueryEscape(msUUID))
	data, err := c.sess.Request(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}
	var env lparEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &herrors.SchemaError{Op: "ListLPARs", Message: "malformed response", Cause: err}
	}
	lpars := make([]LogicalPartition, 0, len(env.Items))
	for _, lp := range env.Items {
		state := lp.State
		if state == "" {
			state = "unknown"
		}
		lpars = append(lpars, LogicalPartition{
			UUID:           lp.UUID,
			Name:           lp.Name,
			State:          state,
			CPUEntitlement: lp.EntitledProcUnits,
			MemoryMB:       lp.Memory,
		})
	}
	return lpars, nil
}

// PCMMetrics returns the latest utilization sample for one LPAR. If the
// managed system has no PCM payload, it returns herrors.PcmNotEnabled,
// which callers treat as zero utilization rather than a fatal error.
func (c *Client) PCMMetrics(ctx context.Context, msUUID, lparUUID string) (MetricSample, error) {
	path := fmt.Sprintf("/rest/api/pcm/ManagedSystem/%s/LogicalPartition/%s/Metrics",
		url.PathEscape(msUUID), url.PathEscape(lparUUID))
	data, err := c.sess.Request(ctx, "GET", path, nil)
	if err != nil {
		if _, ok := err.(*herrors.PermanentError); ok {
			return MetricSample{}, &herrors.PcmNotEnabled{SystemID: msUUID}
		}
		return MetricSample{}, err
	}
	if len(data) == 0 {
		return MetricSample{}, &herrors.PcmNotEnabled{SystemID: msUUID}
	}
	var env pcmEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return MetricSample{}, &herrors.SchemaError{Op: "PCMMetrics", Message: "malformed response", Cause: err}
	}
	for _, lu := range env.SystemUtil.Utilization.LparUtil {
		if lu.UUID == lparUUID {
			return MetricSample{LPARUUID: lparUUID, CPUUtilPct: lu.CPUUtilPct, MemUsedMB: lu.MemUsedMB}, nil
		}
	}
	return MetricSample{}, &herrors.PcmNotEnabled{SystemID: msUUID}
}

// CollectionPage is one page of a paginated listing, following the
// HMC's Items/next convention.
type CollectionPage struct {
	Items []json.RawMessage
	Next  string
}

// IterCollection pulls successive pages of path until the HMC omits a
// "next" link, returning a finite, single-pass iterator function. Each
// call to the returned function fetches the next page; it returns
// (nil, nil) once exhausted.
func (c *Client) IterCollection(ctx context.Context, path string) func() (*CollectionPage, error) {
	next := path
	done := false
	return func() (*CollectionPage, error) {
		if done {
			return nil, nil
		}
		data, err := c.sess.Request(ctx, "GET", next, nil)
		if err != nil {
			return nil, err
		}
		var env genericEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, &herrors.SchemaError{Op: "IterCollection", Message: "malformed response", Cause: err}
		}
		items := env.Items
		if env.Next == "" {
			done = true
		} else {
			next = env.Next
		}
		return &CollectionPage{Items: items, Next: env.Next}, nil
	}
}

// ResizeLPAR submits a CPU entitlement and memory change for one LPAR.
// newMemMB of 0 means "leave memory unchanged" and is omitted from the
// request body, since a policy's CPU-only rules never compute a memory
// target.
func (c *Client) ResizeLPAR(ctx context.Context, msUUID, lparUUID string, newCPU float64, newMemMB int) error {
	path := fmt.Sprintf("/rest/api/uom/ManagedSystem/%s/LogicalPartition/%s",
		url.PathEscape(msUUID), url.PathEscape(lparUUID))
	body := map[string]interface{}{
		"entitledProcUnits": newCPU,
	}
	if newMemMB != 0 {
		body["memory"] = newMemMB
	}
	_, err := c.sess.Request(ctx, "POST", path, body)
	return err
}
