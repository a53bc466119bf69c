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
package report

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// File is a buffered, mutex-guarded report writer.
type File struct {
	RFile   *os.File
	RWriter *bufio.Writer
	Mutex   *sync.Mutex
}

func NewWriter(reportFile string) (*File, error) {
	f := &File{}
	if err := f.initOutFile(reportFile); err != nil {
		return nil, err
	}
	f.Mutex = &sync.Mutex{}
	return f, nil
}

func (f *File) RWriteString(s string) (nn int, err error) {
	f.Mutex.Lock()
	defer f.Mutex.Unlock()
	return f.RWriter.WriteString(s)
}

func (f *File) initOutFile(reportFile string) error {
	if err := os.MkdirAll(filepath.Dir(reportFile), 0755); err != nil {
		return errors.Wrapf(err, "create report dir for [%s]", reportFile)
	}
	outReportFile, err := os.OpenFile(reportFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return errors.Wrapf(err, "open report file [%s]", reportFile)
	}
	f.RWriter, f.RFile = bufio.NewWriter(outReportFile), outReportFile
	return nil
}

func (f *File) Close() error {
	if f.RFile != nil {
		if err := f.RWriter.Flush(); err != nil {
			return err
		}
		if err := f.RFile.Close(); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile dumps content to path in one shot, creating parent dirs.
func WriteFile(path, content string) error {
	w, err := NewWriter(path)
	if err != nil {
		return err
	}
	if _, err = w.RWriteString(content); err != nil {
		w.Close()
		return errors.Wrapf(err, "write report file [%s]", path)
	}
	return w.Close()
}
