// Package sakuraflow holds build metadata for the sakuraflow tool.
package sakuraflow

// Version is the release version. Builds may override it with
// -ldflags "-X github.com/mesh-intelligence/sakuraflow/pkg/sakuraflow.Version=...".
var Version = "0.1.0"
