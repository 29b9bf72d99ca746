// Package types defines the task entities, the enum tables for status, tier
// and priority, field identifiers with their aliases, and the sentinel errors
// shared by the store, query and controller packages.
package types
