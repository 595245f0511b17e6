// Package planner makes the pure decisions for one splice: which bitrates
// the output is encoded at, and which filter graph turns a heterogeneous
// source plus the fixed endcard into two concatenable segments.
//
// Everything here is side-effect free; internal/ffmpeg turns the plan into
// an argument list and runs it.
package planner
