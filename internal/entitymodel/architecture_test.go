package entitymodel

import (
	"testing"

	"sgas/testutil"
)

func TestEntityModelStaysBelowServices(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".",
		testutil.Within("sgas/internal/core", "sgas/internal/adapters", "sgas/internal/infra"),
		"the catalog is shared by services and storage")
}
