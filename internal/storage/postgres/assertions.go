package postgres

import "github.com/tinoosan/finsight/internal/service/insight"

// Compile-time interface assertions documenting which interfaces Store satisfies.
var _ insight.Source = (*Store)(nil)
