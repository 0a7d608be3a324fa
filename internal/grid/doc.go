// Package grid holds the pure list operations behind the table view:
// prefix filtering, toggled sorting and column pinning. The functions never
// mutate their inputs.
package grid
