package archiver_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/evogrid/internal/testutil"
	"github.com/vk/evogrid/modules/archiver"
)

func TestArchiver_RecordsSummaries(t *testing.T) {
	for name, path := range map[string]string{
		"memory": "",
		"sqlite": filepath.Join(t.TempDir(), "runs.db"),
	} {
		t.Run(name, func(t *testing.T) {
			owner := testutil.NewTraitOwner("owner", "score")
			arc, err := archiver.New("arc", archiver.Input{
				Path:    path,
				Target:  "main",
				Traits:  []string{"score"},
				Filters: []string{"mean", "max"},
				Every:   2,
			})
			require.NoError(t, err)

			c := testutil.NewController(t, map[string]int{"main": 3}, owner, arc)
			require.NoError(t, c.Setup())
			pop, _ := c.Population("main")
			c.InjectAt(owner.Org(1, 2), pop.Position(0))
			c.InjectAt(owner.Org(2, 4), pop.Position(1))

			c.Update(4)
			records, err := arc.Store().Records(context.Background(), arc.Run().ID)
			require.NoError(t, err)
			require.Len(t, records, 4)
			require.Equal(t, uint64(2), records[0].Tick)
			require.Equal(t, "score:mean", records[0].Column)
			require.Equal(t, "3", records[0].Value)
			require.Equal(t, "score:max", records[1].Column)
			require.Equal(t, "4", records[1].Value)
			require.Equal(t, uint64(4), records[3].Tick)
		})
	}
}

func TestNew_Validates(t *testing.T) {
	_, err := archiver.New("arc", archiver.Input{Traits: []string{"x"}})
	require.Error(t, err)
	_, err = archiver.New("arc", archiver.Input{Target: "main"})
	require.Error(t, err)
}

func TestArchiver_UploadsOnExit(t *testing.T) {
	var (
		gotMethod string
		gotType   string
		gotSize   int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotSize = len(body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "runs.db")
	owner := testutil.NewTraitOwner("owner", "score")
	arc, err := archiver.New("arc", archiver.Input{
		Path:      path,
		Target:    "main",
		Traits:    []string{"score"},
		UploadURL: srv.URL + "/bucket/runs.db",
	})
	require.NoError(t, err)

	c := testutil.NewController(t, map[string]int{"main": 2}, owner, arc)
	require.NoError(t, c.Setup())
	c.Update(2)
	c.Close()

	require.Equal(t, http.MethodPut, gotMethod)
	require.NotEmpty(t, gotType)
	require.Positive(t, gotSize)
	require.Zero(t, c.Notes().NumErrors())
}

func TestArchiver_UploadFailureIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	owner := testutil.NewTraitOwner("owner", "score")
	arc, err := archiver.New("arc", archiver.Input{
		Path:      filepath.Join(t.TempDir(), "runs.db"),
		Target:    "main",
		Traits:    []string{"score"},
		UploadURL: srv.URL,
	})
	require.NoError(t, err)

	c := testutil.NewController(t, map[string]int{"main": 2}, owner, arc)
	require.NoError(t, c.Setup())
	c.Close()

	require.Equal(t, 1, c.Notes().NumErrors())
	require.Contains(t, c.Notes().Errors()[0], "403 Forbidden")
}

func TestNew_UploadNeedsFile(t *testing.T) {
	_, err := archiver.New("arc", archiver.Input{Target: "main", Traits: []string{"x"}, UploadURL: "http://example.invalid"})
	require.ErrorContains(t, err, "upload_url needs a file path")
}
