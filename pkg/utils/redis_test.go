package utils

import (
	"context"
	"testing"
)

func TestFixedWindowScriptCompiles(t *testing.T) {
	// Compile-time smoke test: script should be initialized.
	if fixedWindowScript == nil {
		t.Fatalf("expected script to be initialized")
	}
}

func TestAllowFixedWindowRejectsBadArgs(t *testing.T) {
	if _, err := AllowFixedWindow(context.Background(), nil, "k", 1, 1); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
