// Package config loads HCL run scripts into a Model.
//
// A run script declares populations, module instances, scheduled events and
// run settings:
//
//	random_seed = 7
//	population "main" { size = 100 }
//	module "BitsOrg" "bits" { length = 64 }
//	event "update" {
//	  every = 100
//	  print = "${tick}: ${mean(main, "ones")}"
//	}
//	run { updates = 1000 }
//
// Module bodies and event expressions are kept undecoded. They are evaluated
// later against the running controller so that `${}` references see the
// current state.
package config
