package upstream

import "github.com/tinoosan/finsight/internal/service/insight"

// Compile-time interface assertions documenting which interfaces Client satisfies.
var _ insight.Source = (*Client)(nil)
