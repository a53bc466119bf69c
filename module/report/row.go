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

import "sort"

// Row is one summary finding: one check item on one database of one
// system (container database).
type Row struct {
	System        string
	Database      string
	Item          string
	Status        string
	Severity      int
	SeverityLabel string
	Description   string
}

// SortRows orders rows for the summary surfaces: by system, then
// database, then the fixed check-item order.
func SortRows(rows []Row, itemOrder []string) {
	rank := make(map[string]int, len(itemOrder))
	for i, item := range itemOrder {
		rank[item] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.System != b.System {
			return a.System < b.System
		}
		if a.Database != b.Database {
			return a.Database < b.Database
		}
		ra, oka := rank[a.Item]
		rb, okb := rank[b.Item]
		if oka && okb {
			return ra < rb
		}
		if oka != okb {
			return oka
		}
		return a.Item < b.Item
	})
}
