package integration_tests

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/evogrid/internal/app"
	"github.com/vk/evogrid/internal/archive"
	"github.com/vk/evogrid/internal/testutil"
)

func archiveScript(path string) string {
	return fmt.Sprintf(`
random_seed = 11
population "main" { size = 12 }
module "BitsOrg" "bits" { length = 10 }
module "EvalOnes" "ones" {}
module "EliteSelect" "select" {
  pop     = "main"
  fitness = "ones"
  count   = 3
}
module "Archive" "archive" {
  path    = %q
  target  = "main"
  traits  = ["ones"]
  filters = ["mean", "max"]
}
event "start" {
  inject {
    pop   = "main"
    type  = "bits"
    count = 12
  }
}
run { updates = 5 }
`, path)
}

// Test for: two runs sharing a sqlite archive are stored side by side and
// identical seeds produce identical records.
func TestPersistence_SQLiteArchiveAcrossRuns(t *testing.T) {
	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "runs.db")
	files := map[string]string{"main.hcl": archiveScript(path)}

	// --- Act ---
	first := testutil.RunScript(t, files, app.Config{})
	second := testutil.RunScript(t, files, app.Config{})

	// --- Assert ---
	require.NoError(t, first.Err, first.LogOutput)
	require.NoError(t, second.Err, second.LogOutput)

	ctx := context.Background()
	store := archive.NewSQLiteStore(path)
	require.NoError(t, store.Init(ctx))
	t.Cleanup(func() { _ = store.Close() })

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.NotEqual(t, runs[0].ID, runs[1].ID)
	for _, r := range runs {
		require.Equal(t, int64(11), r.Seed)
	}

	a, err := store.Records(ctx, runs[0].ID)
	require.NoError(t, err)
	b, err := store.Records(ctx, runs[1].ID)
	require.NoError(t, err)

	require.Len(t, a, 10, "five updates with two columns each")
	for i, rec := range a {
		require.Equal(t, uint64(i/2+1), rec.Tick)
		require.Equal(t, "main", rec.Target)
		require.NotEmpty(t, rec.Value)
		require.Equal(t, rec.Column, b[i].Column)
		require.Equal(t, rec.Value, b[i].Value)
	}
	require.Equal(t, "ones:mean", a[0].Column)
	require.Equal(t, "ones:max", a[1].Column)
}
