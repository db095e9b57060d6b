// hmcorch is a CLI that evaluates a CPU-scaling policy against a live
// IBM Hardware Management Console inventory and, optionally, applies the
// resulting resizes.
//
// Usage:
//
//	# List every LPAR the HMC manages
//	hmcorch inventory
//
//	# Evaluate a policy without changing anything
//	hmcorch plan policy.yaml
//
//	# Evaluate and apply, recording successful resizes to an audit log
//	hmcorch apply policy.yaml --apply --confirm --audit-log audit.log
//
//	# Validate a policy file's structure
//	hmcorch policy validate policy.yaml
package main

func main() {
	Execute()
}
