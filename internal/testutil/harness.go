package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dirigo/dirigent/internal/app"
	"github.com/dirigo/dirigent/internal/handlers"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// CommitResult holds the outcomes of a workspace commit test run.
type CommitResult struct {
	LogOutput string
	Err       error
	App       *app.App
	Plan      *app.Plan
}

// RunCommitTest provides a standardized harness for loading and committing a
// workspace built from the given files, using a default background context.
func RunCommitTest(t *testing.T, files map[string]string, modules ...handlers.Module) *CommitResult {
	t.Helper()
	return RunCommitTestWithContext(context.Background(), t, files, modules...)
}

// RunCommitTestWithContext provides a standardized harness for commit tests
// with a specific context provided by the caller.
func RunCommitTestWithContext(ctx context.Context, t *testing.T, files map[string]string, modules ...handlers.Module) *CommitResult {
	t.Helper()

	// 1. Create a temporary workspace root for the test. The test provides
	//    relative paths (e.g. "billing/routes.hcl"), which naturally creates
	//    the subdirectory structure within the root.
	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	// 2. Point the app at the workspace. Debug text logs keep failures
	//    readable when DIRIGENT_TEST_LOGS is on.
	appConfig, err := app.NewConfig(app.Config{
		WorkspacePath: tmpDir,
		LogLevel:      "debug",
		LogFormat:     "text",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}

	// 3. Construct the app with the provided handler modules. Registration
	//    panics on duplicate handler names, so startup runs under a recover.
	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				if os.Getenv("DIRIGENT_TEST_LOGS") == "true" {
					t.Logf("--- HARNESS RECOVERED PANIC ---\n%q", fmt.Sprintf("%v", r))
				}
				panicErr = r
			}
		}()
		testApp = app.New(logBuffer, appConfig, modules...)
	}()

	if panicErr != nil {
		return &CommitResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
			App:       nil,
		}
	}

	// Instead of calling the full app.Run(), we compile directly. This keeps
	// the tests focused on the load-and-commit transaction and ensures errors
	// propagate without the watch loop or healthcheck in the way.
	plan, runErr := testApp.Compile(ctx)

	if os.Getenv("DIRIGENT_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &CommitResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
		Plan:      plan,
	}
}
