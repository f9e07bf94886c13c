// Package docgrab discovers downloadable documents on a web page and saves
// each of them to a local directory exactly once.
//
// A page is rendered by the first capable backend in a fixed escalation
// order (full browser, lightweight headless browser, static HTTP fetch),
// links are collected from anchors and inline scripts, and every candidate
// is downloaded sequentially with a politeness delay between requests.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, chromedp/, http/).
package docgrab
