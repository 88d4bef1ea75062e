//go:build integration

package whitelistintegrationtests

import (
	"os"
	"testing"

	"github.com/Black-And-White-Club/fivem-portal/integration_tests/testutils"
)

// testEnv is the shared test environment managed by TestMain.
var testEnv *testutils.TestEnvironment

func TestMain(m *testing.M) {
	os.Exit(testutils.RunMain(m, &testEnv))
}
