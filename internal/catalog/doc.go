// Package catalog provides the relational recording catalog: the recordings
// table keyed by (channel id, start time) plus the two derived seek/bookmark
// tables that must be purged whenever the underlying file changes.
package catalog
