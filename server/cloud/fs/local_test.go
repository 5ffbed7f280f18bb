// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFilesystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "static")
	var local Filesystem = LocalFilesystem{Dir: dir}

	require.NoError(t, local.Upload(File{Name: "../escape.json", Data: []byte("[]")}))
	data, err := os.ReadFile(filepath.Join(dir, "escape.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	require.NoError(t, local.Upload(File{Name: RelayStatusName("local", 0), Data: []byte("{}")}))
	data, err = os.ReadFile(filepath.Join(dir, "relays", "local", "0.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
