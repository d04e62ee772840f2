package skiplog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_AppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skipped.log")
	w := New(path)

	w.Skip("unknown_title", "SystemX/named_boxarts/Game.png")
	w.Line("file=a.rdb system=a row=3 keys=[]")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"unknown_title path=SystemX/named_boxarts/Game.png\n"+
			"file=a.rdb system=a row=3 keys=[]\n",
		string(data))
}

func TestWriter_EmptyPathIsNoop(t *testing.T) {
	w := New("")
	w.Skip("reason", "path")
}

func TestWriter_WriteFailureIsSwallowed(t *testing.T) {
	// A directory as the log path makes every open fail.
	w := New(t.TempDir())
	w.Skip("reason", "path")
}
