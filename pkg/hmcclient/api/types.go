package api

import "encoding/json"

// ManagedSystem is one HMC-managed physical server.
type ManagedSystem struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// LogicalPartition is one LPAR on a ManagedSystem.
type LogicalPartition struct {
	UUID           string  `json:"uuid"`
	Name           string  `json:"name"`
	State          string  `json:"state"`
	CPUEntitlement float64 `json:"cpu_entitlement"`
	MemoryMB       int     `json:"memory_mb"`
}

// MetricSample is one point-in-time PCM reading for an LPAR.
type MetricSample struct {
	LPARUUID   string  `json:"lpar_uuid"`
	CPUUtilPct float64 `json:"cpu_util_pct"`
	MemUsedMB  int     `json:"mem_used_mb"`

	// Cooldown is the number of seconds remaining until the next change
	// is permitted for this LPAR, supplied by the caller rather than the
	// PCM payload; zero means no cooldown is active.
	Cooldown int `json:"cooldown,omitempty"`
}

type managedSystemsEnvelope struct {
	Items []rawManagedSystem `json:"Items"`
}

type rawManagedSystem struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

type lparEnvelope struct {
	Items []rawLPAR `json:"Items"`
	Next  string    `json:"next,omitempty"`
}

type rawLPAR struct {
	UUID               string  `json:"uuid"`
	Name               string  `json:"name"`
	State              string  `json:"state"`
	EntitledProcUnits  float64 `json:"entitledProcUnits"`
	Memory             int     `json:"memory"`
}

// genericEnvelope decodes only the Items/next shape every HMC
// collection endpoint shares, leaving each item's fields raw so
// IterCollection works for any collection, not just LogicalPartition.
type genericEnvelope struct {
	Items []json.RawMessage `json:"Items"`
	Next  string            `json:"next,omitempty"`
}

type pcmEnvelope struct {
	SystemUtil struct {
		Utilization struct {
			LparUtil []struct {
				UUID       string  `json:"uuid"`
				CPUUtilPct float64 `json:"cpu_util_pct"`
				MemUsedMB  int     `json:"mem_used_mb"`
			} `json:"lparUtil"`
		} `json:"utilization"`
	} `json:"systemUtil"`
}
