// Package pipeline runs a scan over a result store.
//
// A [Runner] connects the store, walks the documents in the requested date
// range, extracts each package's URL candidates, and hands them to a
// [repourl.Validator]. Two aggregations are offered:
//
//   - [Runner.CollectURLs]: every validated URL per package, Project-URL
//     values before Home-page. A later document for the same name replaces
//     the earlier entry, even with an empty list.
//   - [Runner.FirstURLs]: the first validated URL per package, Home-page
//     first. Names without a validated URL are omitted.
//
// Everything runs sequentially on the caller's goroutine. Cancelling the
// context stops the scan, aborts the in-flight probe, and returns the
// context's error unwrapped.
package pipeline
