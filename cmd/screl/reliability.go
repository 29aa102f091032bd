package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/srlab/scheme-reliability/pkg/scheme"
)

// computeReliability runs the sharded sweep, falling back to a sequential
// sweep when shards <= 1 (ReliabilityShards already handles that, but the
// explicit branch documents the common case cheaply).
func computeReliability(s *scheme.Scheme, shards int) (scheme.Summary, error) {
	if shards <= 1 {
		return scheme.Reliability(s)
	}
	return scheme.ReliabilityShards(s, shards)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
