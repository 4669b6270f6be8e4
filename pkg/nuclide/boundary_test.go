package nuclide

import (
	"testing"

	"materialsmc/testutil"
)

func TestNuclideImportsNoInternalPackages(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden, "pkg/nuclide is public API")
}
