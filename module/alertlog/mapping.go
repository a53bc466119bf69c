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
package alertlog

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Advisory is the cause/action text mapped to one ORA code.
type Advisory struct {
	Cause  string
	Action string
}

// LoadMapping reads the code/cause/action table. The encoding is sniffed
// from the byte-order mark: UTF-16 LE/BE, UTF-8 with signature, else
// plain UTF-8. Header names are case-insensitive; only the code column is
// required.
func LoadMapping(path string) (map[string]Advisory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open mapping file [%s]", path)
	}
	defer f.Close()
	return readMapping(f)
}

func readMapping(r io.Reader) (map[string]Advisory, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read mapping file")
	}

	reader := csv.NewReader(decodeBOM(raw))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read mapping header")
	}
	codeIdx, causeIdx, actionIdx := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "code":
			codeIdx = i
		case "cause":
			causeIdx = i
		case "action":
			actionIdx = i
		}
	}
	if codeIdx < 0 {
		return nil, errors.New("mapping file must have a 'code' column")
	}

	mapping := map[string]Advisory{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read mapping row")
		}
		if codeIdx >= len(row) {
			continue
		}
		code := strings.TrimSpace(row[codeIdx])
		if code == "" {
			continue
		}
		adv := Advisory{}
		if causeIdx >= 0 && causeIdx < len(row) {
			adv.Cause = strings.TrimSpace(row[causeIdx])
		}
		if actionIdx >= 0 && actionIdx < len(row) {
			adv.Action = strings.TrimSpace(row[actionIdx])
		}
		mapping[code] = adv
	}
	return mapping, nil
}

// decodeBOM wraps the raw bytes in the decoder the byte-order mark calls
// for.
func decodeBOM(raw []byte) io.Reader {
	switch {
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(bytes.NewReader(raw), dec)
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(bytes.NewReader(raw), dec)
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return bytes.NewReader(raw[3:])
	default:
		return bytes.NewReader(raw)
	}
}
