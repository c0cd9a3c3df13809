package main

import (
	"io"
	"log/slog"
	"os"
	"path"
	"testing"

	bindex "github.com/Rafi-ctrl/CS4348-Project3"
	"github.com/stretchr/testify/require"
)

func initTest(t *testing.T) *slog.Logger {
	err := os.RemoveAll("testdata")
	require.NoError(t, err)
	err = os.Mkdir("testdata", 0755)
	if err != nil && !os.IsExist(err) {
		t.Fatal(err)
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCommands(t *testing.T) {
	log := initTest(t)
	idx := path.Join("testdata", "t.idx")

	require.NoError(t, cmdCreate(log, idx))
	require.ErrorIs(t, cmdCreate(log, idx), bindex.ErrAlreadyExists)

	require.NoError(t, cmdInsert(log, idx, "10", "100"))
	require.NoError(t, cmdInsert(log, idx, "5", "50"))
	require.NoError(t, cmdInsert(log, idx, "20", "200"))
	require.ErrorIs(t, cmdInsert(log, idx, "10", "999"), bindex.ErrDuplicateKey)
	require.Error(t, cmdInsert(log, idx, "-1", "1"))
	require.Error(t, cmdInsert(log, idx, "x", "1"))

	require.NoError(t, cmdSearch(log, idx, "10"))
	// a miss is reported, not fatal
	require.NoError(t, cmdSearch(log, idx, "11"))

	require.ErrorIs(t, cmdSearch(log, path.Join("testdata", "nope.idx"), "1"), bindex.ErrNotFound)
}

func TestLoadExtract(t *testing.T) {
	log := initTest(t)
	idx := path.Join("testdata", "t.idx")
	in := path.Join("testdata", "in.csv")
	out := path.Join("testdata", "out.csv")

	require.NoError(t, cmdCreate(log, idx))
	require.ErrorIs(t, cmdLoad(log, idx, path.Join("testdata", "nope.csv")), bindex.ErrNotFound)

	// duplicate row is skipped, blank line ignored
	csvData := "3,30\n1,10\n\n2,20\n3,99\n"
	require.NoError(t, os.WriteFile(in, []byte(csvData), 0644))
	require.NoError(t, cmdLoad(log, idx, in))

	bt, err := openTree(log, idx)
	require.NoError(t, err)
	var keys, vals []uint64
	require.NoError(t, bt.Ascend(func(key, val uint64) bool {
		keys = append(keys, key)
		vals = append(vals, val)
		return true
	}))
	require.Equal(t, []uint64{1, 2, 3}, keys)
	require.Equal(t, []uint64{10, 20, 30}, vals)
	require.NoError(t, bt.Close())

	require.NoError(t, cmdExtract(log, idx, out))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "1,10\n2,20\n3,30\n", string(got))

	// repeated extract must not touch the existing target
	require.ErrorIs(t, cmdExtract(log, idx, out), bindex.ErrAlreadyExists)
	got, err = os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "1,10\n2,20\n3,30\n", string(got))

	badRow := path.Join("testdata", "bad.csv")
	require.NoError(t, os.WriteFile(badRow, []byte("1,2,3\n"), 0644))
	require.Error(t, cmdLoad(log, idx, badRow))
}
