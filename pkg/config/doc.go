// Package config loads and validates the HMC orchestrator's configuration.
//
// Configuration is layered with the following precedence (later wins):
//
//  1. Defaults (defaults.go)
//  2. YAML file (~/.hmc_orchestrator.yaml by default)
//  3. Environment variables (HMC_HOST, HMC_PORT, HMC_USERNAME, HMC_PASSWORD,
//     HMC_VERIFY, HMC_TIMEOUT_CONNECT, HMC_TIMEOUT_READ, HMC_RETRIES_TOTAL,
//     HMC_RETRIES_BACKOFF_BASE, HMC_RETRIES_MAX_BACKOFF,
//     HMC_CONCURRENCY_PER_FRAME)
//  4. CLI flags, passed in as Overrides
//
// $VAR / ${VAR} references inside the password field are expanded against
// the process environment after layering and before validation. If the
// password is still empty, Load prompts on stdin.
package config
