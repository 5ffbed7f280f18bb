// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package fs

import (
	"os"
	"path/filepath"
)

// LocalFilesystem writes static files under a directory, for servers without
// a bucket. Cache hints are ignored.
type LocalFilesystem struct {
	Dir string
}

func (local LocalFilesystem) Upload(file File) error {
	name := filepath.Join(local.Dir, filepath.FromSlash(file.Key()))
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	return os.WriteFile(name, file.Data, 0o644)
}
