/*
Copyright © 2020 Marvin

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package discover

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// IsZipArchive reports whether the file can be opened as a zip archive.
func IsZipArchive(path string) bool {
	r, err := zip.OpenReader(path)
	if err != nil {
		return false
	}
	r.Close()
	return true
}

// ExtractZip expands the archive into a sibling <name>_extracted directory
// and returns its path. Entries escaping the destination are rejected.
func ExtractZip(zipPath string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(zipPath), filepath.Ext(zipPath))
	dest := filepath.Join(filepath.Dir(zipPath), base+"_extracted")
	if err := os.MkdirAll(dest, 0755); err != nil {
		return "", errors.Wrapf(err, "create extract dir [%s]", dest)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", errors.Wrapf(err, "open zip archive [%s]", zipPath)
	}
	defer r.Close()

	for _, f := range r.File {
		target := filepath.Join(dest, filepath.Clean(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return "", errors.Errorf("zip entry [%s] escapes extract dir", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err = os.MkdirAll(target, 0755); err != nil {
				return "", errors.Wrapf(err, "create dir [%s]", target)
			}
			continue
		}
		if err = os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return "", errors.Wrapf(err, "create dir [%s]", filepath.Dir(target))
		}
		if err = extractFile(f, target); err != nil {
			return "", err
		}
	}
	return dest, nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "open zip entry [%s]", f.Name)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "create file [%s]", target)
	}
	defer out.Close()

	if _, err = io.Copy(out, rc); err != nil {
		return errors.Wrapf(err, "extract zip entry [%s]", f.Name)
	}
	return nil
}
