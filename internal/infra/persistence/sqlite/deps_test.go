package sqlite

import (
	"testing"

	"sgas/testutil"
)

var allowedInternalImports = map[string]struct{}{
	"sgas/pkg/domain":                          {},
	"sgas/internal/infra/persistence/memory":   {},
	"sgas/internal/infra/persistence/sqlstore": {},
}

func TestImportsStayInsidePersistence(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", func(path string) bool {
		_, ok := allowedInternalImports[path]
		return testutil.Within("sgas")(path) && !ok
	}, "sqlite persistence builds only on the shared records layer")
}
