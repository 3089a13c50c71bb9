// Package chart derives chart data from loaded tables.
//
// A chart is derived only when the table supports its spec, that is when the
// table header contains every required column. Unsupported specs are skipped,
// never reported as errors. Derivation is deterministic: the same table and
// spec always yield the same chart, including color assignment.
package chart
