package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sushant-115/modsort/core/resolution"
)

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()
	log := zaptest.NewLogger(t)
	resolver, err := resolution.NewResolver(resolution.LogApplier{Logger: log}, log, nil)
	require.NoError(t, err)
	var out bytes.Buffer
	return newShell(&out, log, resolver), &out
}

func runLine(sh *shell, out *bytes.Buffer, line string) string {
	out.Reset()
	sh.processCommand(strings.Fields(line))
	return out.String()
}

func TestShell_SortAndCommit(t *testing.T) {
	sh, out := newTestShell(t)

	require.Contains(t, runLine(sh, out, "table c col"), "id 1")
	require.Contains(t, runLine(sh, out, "table r row numeric"), "id 2")
	require.Contains(t, runLine(sh, out, "begin"), "txn 1 started")

	for _, line := range []string{
		"op basic_row r 51",
		"op basic_row r 4",
		"op truncate_row r",
		"op basic_row r 540",
		"op none c",
		"op basic_col c 54",
	} {
		require.Empty(t, runLine(sh, out, line), line)
	}

	require.Contains(t, runLine(sh, out, "check"), "not sorted")

	sorted := runLine(sh, out, "sort")
	lines := strings.Split(strings.TrimSpace(sorted), "\n")
	require.Len(t, lines, 6)
	require.Contains(t, lines[3], `key="4"`)
	require.Contains(t, lines[4], `key="51"`)
	require.Contains(t, lines[5], `key="540"`)

	require.Equal(t, "sorted\n", runLine(sh, out, "check"))
	require.Contains(t, runLine(sh, out, "prepare"), "prepared")
	require.Contains(t, runLine(sh, out, "op none c"), "invalid state")

	got := runLine(sh, out, "commit")
	require.Contains(t, got, "committed: 2 tables, 4 keyed, 2 structural")
	require.Contains(t, runLine(sh, out, "ops"), "no open transaction")
}

func TestShell_Errors(t *testing.T) {
	sh, out := newTestShell(t)

	require.Contains(t, runLine(sh, out, ""), "No command")
	require.Contains(t, runLine(sh, out, "frobnicate"), "unknown command")
	require.Contains(t, runLine(sh, out, "table x lsm"), "invalid storage kind")
	require.Contains(t, runLine(sh, out, "table x row klingon"), "unknown collator")
	require.Contains(t, runLine(sh, out, "op basic_row x k"), "no open transaction")

	runLine(sh, out, "table r row")
	runLine(sh, out, "table c col")
	require.Contains(t, runLine(sh, out, "table r row"), "already exists")

	runLine(sh, out, "begin")
	require.Contains(t, runLine(sh, out, "begin"), "still open")
	require.Contains(t, runLine(sh, out, "op upsert r k"), "unknown operation type")
	require.Contains(t, runLine(sh, out, "op basic_row nope k"), "table not found")
	require.Contains(t, runLine(sh, out, "op basic_col r 5"), "does not apply")
	require.Contains(t, runLine(sh, out, "op basic_row c k"), "does not apply")
	require.Contains(t, runLine(sh, out, "op basic_col c 0"), "invalid record number")
	require.Contains(t, runLine(sh, out, "op basic_col c"), "requires a key")
	require.Contains(t, runLine(sh, out, "op truncate_col c 5"), "takes no key")

	// Commit needs prepare; rollback does not.
	require.Contains(t, runLine(sh, out, "commit"), "invalid state")
	require.Contains(t, runLine(sh, out, "rollback"), "aborted")
}

func TestShell_TablesListing(t *testing.T) {
	sh, out := newTestShell(t)
	runLine(sh, out, "table b col")
	runLine(sh, out, "table a row reverse")

	got := runLine(sh, out, "tables")
	require.Equal(t, "1\tb\tcol\tdefault\n2\ta\trow\tcustom\n", got)
	require.Contains(t, runLine(sh, out, "help"), "Commands:")
}
