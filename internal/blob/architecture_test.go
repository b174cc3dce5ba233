package blob

import (
	"sort"
	"testing"

	"golang.org/x/tools/go/packages"

	"sgas/testutil"
)

// adapterRule confines imports of an infra adapter tree to its owners.
type adapterRule struct {
	infra string
	// owners may import infra; every other package goes through a port.
	owners []string
	// withTests also checks test-only imports.
	withTests bool
}

var adapterRules = []adapterRule{
	{
		infra:     "sgas/internal/infra/blob",
		owners:    []string{"sgas/internal/blob", "sgas/internal/infra/blob"},
		withTests: true,
	},
	{
		// Tests may build a memory store directly; production code opens
		// stores through core.OpenPersistentStore.
		infra:  "sgas/internal/infra/persistence",
		owners: []string{"sgas/internal/core", "sgas/internal/infra/persistence"},
	},
}

func TestInfraAdaptersStayBehindPorts(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "sgas/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	for _, rule := range adapterRules {
		forbidden := testutil.Within(rule.infra)
		owned := testutil.Within(rule.owners...)
		seen := make(map[string]struct{})
		for _, pkg := range pkgs {
			if owned(pkg.PkgPath) || (!rule.withTests && pkg.ID != pkg.PkgPath) {
				continue
			}
			for importPath := range pkg.Imports {
				if forbidden(importPath) {
					seen[pkg.PkgPath+": "+importPath] = struct{}{}
				}
			}
		}
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("%s imported outside its owners: %s", rule.infra, v)
		}
	}
}
