package types_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/proofboard/proofboard/internal/export/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	errWrite := errors.New("disk full")

	tests := []struct {
		name     string
		write    func(io.Writer) error
		wantErr  error
		wantFile bool
	}{
		{
			name: "successful write",
			write: func(w io.Writer) error {
				_, err := io.WriteString(w, "1. vee - Score: 42\n")
				return err
			},
			wantFile: true,
		},
		{
			name:    "failure before any bytes",
			write:   func(io.Writer) error { return errWrite },
			wantErr: errWrite,
		},
		{
			name: "failure after partial write",
			write: func(w io.Writer) error {
				if _, err := io.WriteString(w, "half a row"); err != nil {
					return err
				}
				return errWrite
			},
			wantErr: errWrite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "board.txt")
			err := types.WriteFile(path, tt.write)

			_, statErr := os.Stat(path)
			if tt.wantFile {
				require.NoError(t, err)
				require.NoError(t, statErr)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, os.IsNotExist(statErr), "partial file should be removed")
		})
	}
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "board.txt")
	called := false

	err := types.WriteFile(path, func(io.Writer) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}
