package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/projectctl/internal/logging"
	"github.com/fyrsmithlabs/projectctl/internal/project"
	"github.com/fyrsmithlabs/projectctl/internal/server"
)

// startService runs an in-memory project service and isolates config loading.
func startService(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	srv, err := server.NewServer(server.NewMemoryRepository(), logging.NewNop(), nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	stdout, stderr, _, err = runApp(t, args...)
	return stdout, stderr, err
}

// runApp executes args the way main does and returns the app for inspection.
func runApp(t *testing.T, args ...string) (stdout, stderr string, a *app, err error) {
	t.Helper()
	a = &app{}
	cmd := a.rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = a.execute(cmd)
	return out.String(), errOut.String(), a, err
}

func addArgs(url, name, start, end string) []string {
	return []string{"add", "--server", url,
		"--name", name,
		"--description", "line one\nline two",
		"--start-date", start, "--start-time", "09:00 AM",
		"--end-date", end, "--end-time", "05:30 PM",
	}
}

func listJSON(t *testing.T, args ...string) []project.Project {
	t.Helper()
	out, _, err := run(t, append([]string{"list", "--json"}, args...)...)
	require.NoError(t, err)
	var projects []project.Project
	require.NoError(t, json.Unmarshal([]byte(out), &projects))
	return projects
}

func TestRootCmd_Commands(t *testing.T) {
	cmd := (&app{}).rootCmd()
	for _, name := range []string{"list", "add", "rm", "board", "serve", "version"} {
		found, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, found.Name())
		assert.NotEmpty(t, found.Short)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("server"))
}

func TestVersionCmd(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "projectctl dev\n", out)
}

func TestAddListRm(t *testing.T) {
	url := startService(t)

	out, _, err := run(t, addArgs(url, "Roof", "2024-06-01", "2024-06-10")...)
	require.NoError(t, err)
	assert.Contains(t, out, `created "Roof" (1 projects)`)

	_, _, err = run(t, addArgs(url, "attic", "2024-02-01", "2024-02-03")...)
	require.NoError(t, err)

	projects := listJSON(t, "--server", url)
	require.Len(t, projects, 2)
	assert.Equal(t, "Roof", projects[0].Name)
	assert.Equal(t, "line one. line two", projects[0].Description)
	assert.Equal(t, "2024-06-01 09:00", projects[0].StartDate)
	assert.Equal(t, "2024-06-10 17:30", projects[0].EndDate)

	sorted := listJSON(t, "--server", url, "--sort", "NameA")
	assert.Equal(t, "attic", sorted[0].Name)

	filtered := listJSON(t, "--server", url, "--search", "ROO")
	require.Len(t, filtered, 1)
	assert.Equal(t, "Roof", filtered[0].Name)

	table, _, err := run(t, "list", "--server", url, "--sort", "date-asc")
	require.NoError(t, err)
	assert.Contains(t, table, "NAME")
	assert.Less(t, bytes.Index([]byte(table), []byte("attic")), bytes.Index([]byte(table), []byte("Roof")))

	out, _, err = run(t, "rm", "--server", url, projects[0].ID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "(1 projects)")

	out, _, err = run(t, "rm", "--server", url, "unknown-id")
	require.NoError(t, err)
	assert.Contains(t, out, "(1 projects)")
}

func TestAdd_ValidationErrors(t *testing.T) {
	url := startService(t)

	_, stderr, err := run(t, "add", "--server", url,
		"--name", " ",
		"--start-date", "2024-06-10", "--start-time", "09:00 AM",
		"--end-date", "2024-06-01",
	)
	require.Error(t, err)

	var verr *project.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, stderr, "name: "+project.MsgName)
	assert.Contains(t, stderr, "description: "+project.MsgDescription)
	assert.Contains(t, stderr, "endDate: "+project.MsgEndBefore)
	assert.Contains(t, stderr, "endTime: "+project.MsgEndTime)

	assert.Empty(t, listJSON(t, "--server", url))
}

func TestAdd_BadClock(t *testing.T) {
	url := startService(t)

	args := addArgs(url, "Roof", "2024-06-01", "2024-06-10")
	args[len(args)-1] = "25:00 PM"
	_, _, err := run(t, args...)
	require.Error(t, err)
}

func TestList_BadSort(t *testing.T) {
	url := startService(t)

	_, _, err := run(t, "list", "--server", url, "--sort", "size")
	assert.Error(t, err)
}

func TestList_ServiceError(t *testing.T) {
	url := startService(t)

	_, _, err := run(t, "list", "--server", url+"/missing-prefix")
	assert.Error(t, err)
}

func TestExecute_TearsDownAfterFailure(t *testing.T) {
	url := startService(t)

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "success", args: []string{"list", "--server", url}},
		{name: "service error", args: []string{"list", "--server", url + "/missing-prefix"}, wantErr: true},
		{name: "validation error", args: []string{"add", "--server", url}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, a, err := runApp(t, tt.args...)
			assert.Equal(t, tt.wantErr, err != nil)

			require.NotNil(t, a.telemetry)
			assert.False(t, a.telemetry.Health().Healthy, "telemetry shut down")
		})
	}
}

func TestInvalidServerFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, _, err := run(t, "list", "--server", "ftp://example.com")
	assert.Error(t, err)
}
