// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package loader

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Field maps one positional row column onto a record. Set returns an error
// when the raw value can't be applied, which drops the whole row.
type Field[T any] struct {
	Name string
	Set  func(record *T, value string) error
}

// Schema is the declared positional layout of one record type. A row is
// well-formed only when its length equals the field count.
type Schema[T any] []Field[T]

// ReadRowFile reads a JSON file containing an array of string-arrays.
func ReadRowFile(path string) ([][]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading row file %s: %w", path, err)
	}

	var rows [][]string
	if err := json.Unmarshal(content, &rows); err != nil {
		return nil, fmt.Errorf("parsing row file %s: %w", path, err)
	}
	return rows, nil
}

// DecodeRows converts positional rows into records using the schema.
// Malformed rows (wrong arity, or a field that fails to parse) are logged
// and dropped; the second return value is the number of dropped rows.
func DecodeRows[T any](rows [][]string, schema Schema[T], logger *slog.Logger) ([]*T, int) {
	records := make([]*T, 0, len(rows))
	dropped := 0

rowLoop:
	for i, row := range rows {
		if len(row) != len(schema) {
			logger.Warn("dropping malformed row", "row", i, "fields", len(row), "expected", len(schema))
			dropped++
			continue
		}

		record := new(T)
		for j, field := range schema {
			if err := field.Set(record, row[j]); err != nil {
				logger.Warn("dropping row with unparsable field", "row", i, "field", field.Name, "err", err)
				dropped++
				continue rowLoop
			}
		}
		records = append(records, record)
	}
	return records, dropped
}
