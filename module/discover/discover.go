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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mfec/orapm/common"
	"github.com/pkg/errors"
)

// Layout classifies which directory-shape heuristic matched when locating
// the first level. The shapes are ambiguous by nature, so the outcome is
// surfaced instead of silently defaulting.
type Layout int

const (
	LayoutCDBAtRoot Layout = iota
	LayoutSingleWrapper
	LayoutMarkersAtRoot
	LayoutWrapperPrefix
	LayoutUnknown
)

func (l Layout) String() string {
	switch l {
	case LayoutCDBAtRoot:
		return "cdb-at-root"
	case LayoutSingleWrapper:
		return "single-wrapper"
	case LayoutMarkersAtRoot:
		return "markers-at-root"
	case LayoutWrapperPrefix:
		return "wrapper-prefix"
	default:
		return "unknown"
	}
}

// Collection is one CDB-level artifact set, a direct child of the first
// level carrying at least one marker subfolder.
type Collection struct {
	Name string
	Path string
}

// Prepare resolves the run input: a directory is used as-is, a zip archive
// is expanded into a sibling <name>_extracted directory first.
func Prepare(inputPath string) (string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return "", errors.Wrapf(err, "stat input path [%s]", inputPath)
	}
	if info.IsDir() {
		return inputPath, nil
	}
	if !IsZipArchive(inputPath) {
		return "", errors.Errorf("input path [%s] is neither a directory nor a zip archive", inputPath)
	}
	return ExtractZip(inputPath)
}

// FirstLevel locates the directory whose children are the database
// collections. Fallback order is fixed; see Layout.
func FirstLevel(root string) (string, Layout, error) {
	children, err := childDirs(root)
	if err != nil {
		return "", LayoutUnknown, err
	}

	for _, child := range children {
		if strings.HasPrefix(strings.ToUpper(child.Name()), common.CDBDirPrefix) {
			return root, LayoutCDBAtRoot, nil
		}
	}

	if len(children) == 1 {
		wrapper := filepath.Join(root, children[0].Name())
		grandkids, err := childDirs(wrapper)
		if err == nil {
			for _, g := range grandkids {
				if hasMarker(filepath.Join(wrapper, g.Name())) {
					return wrapper, LayoutSingleWrapper, nil
				}
			}
		}
	}

	for _, child := range children {
		if hasMarker(filepath.Join(root, child.Name())) {
			return root, LayoutMarkersAtRoot, nil
		}
	}

	for _, child := range children {
		if strings.HasPrefix(strings.ToLower(child.Name()), common.WrapperDirPrefix) {
			return filepath.Join(root, child.Name()), LayoutWrapperPrefix, nil
		}
	}

	return root, LayoutUnknown, nil
}

// ListCollections enumerates collection directories under the first level,
// sorted by name so repeated runs produce identical output.
func ListCollections(firstLevel string) ([]Collection, error) {
	children, err := childDirs(firstLevel)
	if err != nil {
		return nil, err
	}
	var colls []Collection
	for _, child := range children {
		path := filepath.Join(firstLevel, child.Name())
		if hasMarker(path) {
			colls = append(colls, Collection{Name: child.Name(), Path: path})
		}
	}
	sort.Slice(colls, func(i, j int) bool { return colls[i].Name < colls[j].Name })
	return colls, nil
}

func childDirs(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read dir [%s]", dir)
	}
	var dirs []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		}
	}
	return dirs, nil
}

func hasMarker(dir string) bool {
	for _, marker := range []string{common.MarkerAutoCollection, common.MarkerReport, common.MarkerLog} {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
