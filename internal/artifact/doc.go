// Package artifact resolves artifact references against the artifact root and
// loads them into tables, raw HTML, or raw text.
//
// Loading never fails with an error value. Every outcome is reported through
// Loaded.Status so callers must handle all three cases:
//
//   - StatusOK: the payload matching the ref's Kind is populated
//   - StatusMissing: no file exists at the resolved path
//   - StatusParseError: the file exists but could not be read or parsed
//
// Nothing is cached. Each Load re-reads the file so updates written by the
// external pipeline are visible on the next navigation.
package artifact
