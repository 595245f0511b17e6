// Package input turns raw batch input (combined "pid,url" lines, split
// pid/url columns, or a CSV upload) into validated rows plus row-level
// parse failures, and assigns deterministic output filenames.
//
// Parsing never aborts on a bad row: each failure keeps its index and raw
// pid so the final report can show it next to the processed rows.
package input
