//go:build !integration

package cleanup

import (
	"testing"

	"go.uber.org/goleak"
)

// Container clients started by integration tests keep background goroutines,
// so leak checks run only in the unit build.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
