// Package harness runs dashboard scenarios: YAML files that lay out an
// artifact tree, select a module and widget values, and assert on the
// rendered View.
//
// Each scenario runs against a fresh temporary artifact root, so scenarios
// are isolated from each other and from the real outputs directory. The
// rendered View is also reduced to a line-oriented snapshot for golden file
// comparison:
//
//	module branch8 "Branch 8 – Decision Engine"
//	section city_decisions table ok branch8/city_decisions.csv
//	  filter city=Mumbai options=Delhi,Mumbai
//	  table city:string,status:string rows=2
//	  chart bar "Decisions by status" approved=1 pending=1
//	  counts approved=1 pending=1
//
// Regenerate golden files with:
//
//	aether test ./testdata/scenarios --update
package harness
