// Package harness runs extraction scenarios end to end.
//
// A scenario describes input files as fixtures (synthesized K-NET text, SAC
// records built from a P-Alert header, or raw text), arranges them into
// conversions the way a config file does, runs the batch and checks the
// outcomes.
//
// # Scenario Format
//
//	name: knet_group
//	description: "Three K-NET axis files assemble into one record"
//	conversions:
//	  - name: noto
//	    from: jp_nied_knet
//	    to: jp_stera3d_txt
//	    groups:
//	      - files:
//	          - { path: ISK005.NS, acc_axis: ns, knet: { counts: [2, 4] } }
//	          - { path: ISK005.EW, acc_axis: ew, knet: { counts: [0, 2] } }
//	          - { path: ISK005.UD, acc_axis: ud, knet: { counts: [6, 8] } }
//	assertions:
//	  - type: unit_ok
//	    conversion: noto
//	    group: 1
//	  - type: record_field
//	    conversion: noto
//	    group: 1
//	    field: acceleration.ns
//	    value: [1, 2]
//
// # Assertion Types
//
//   - unit_ok / unit_failed: status of one unit, optionally kind and field
//   - record_count: number of assembled records
//   - record_field: a value of a record's canonical IR, by dotted path
//   - ledger_count: outcomes in the run ledger matching status/kind/conversion
//   - config_error: a validation error kind (the batch is not run)
//
// # Deterministic Testing
//
// Every scenario runs with a testutil.DeterministicClock, a fixed run token
// and an in-memory ledger, so golden snapshots are byte-identical across runs.
package harness
