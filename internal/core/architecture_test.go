package core

import (
	"testing"

	"sgas/testutil"
)

func TestCoreDoesNotDependOnTransport(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".",
		testutil.Within("sgas/internal/adapters", "github.com/go-chi/chi/v5", "net/http", "sgas/internal/infra/blob"),
		"core is transport agnostic and reaches object storage through sgas/internal/blob")
}
