// Package registry holds the static, ordered list of dashboard modules.
//
// Modules are declared in CUE. The default declaration (modules.cue) is
// embedded in the binary; a directory of .cue files can replace it. Either
// way the declaration is unified with the embedded schema (schema.cue),
// compiled into Module descriptors and validated once at startup. The
// resulting Registry is immutable and safe to share between sessions.
//
// Declaration order is menu order:
//
//	modules: [
//		{id: "home", title: "Home"},
//		{
//			id:    "branch6"
//			title: "Branch 6 – GeoHealth Dashboard"
//			artifacts: [{name: "geohealth_scores", kind: "table", path: "branch6/geohealth_scores.csv"}]
//			charts: [{type: "bar", artifact: "geohealth_scores", x: "city", y: "health_risk_score"}]
//		},
//	]
package registry
