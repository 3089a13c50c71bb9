// Package render turns a module descriptor and its freshly loaded artifacts
// into a View: the complete, presentation-neutral description of a page.
//
// Render is a pure function of its inputs. It performs no I/O, keeps no
// state between calls, and produces identical Views for identical inputs.
// Surfaces (HTML, terminal, JSON, MCP) only format a View.
//
// Artifacts render independently: a missing or unparseable artifact yields a
// notice in its own section and never hides the others. Charts whose
// required columns are absent are skipped without a notice.
package render
