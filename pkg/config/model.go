/**
 * Copyright 2025 Advanced Micro Devices, Inc.  All rights reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
**/

package config

import (
	"bytes"
	"fmt"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// DefaultProfile is used when no profile name is given.
const DefaultProfile = "default"

// Column maps one Airtable field onto an output column. Rename, Default,
// Format and Regex are applied by the exporter; here they are only carried
// through and listed by the profiles command.
type Column struct {
	Source  string `json:"source" yaml:"source"`
	Type    string `json:"type" yaml:"type"`
	Rename  string `json:"rename,omitempty" yaml:"rename,omitempty"`
	Default any    `json:"default,omitempty" yaml:"default,omitempty"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
	Regex   bool   `json:"regex,omitempty" yaml:"regex,omitempty"`
}

// Table describes one exported Airtable table. ColumnOrder is applied by the
// exporter.
type Table struct {
	BaseID      string   `json:"base_id" yaml:"base_id"`
	TableName   string   `json:"table_name" yaml:"table_name"`
	OutputFile  string   `json:"output_file" yaml:"output_file"`
	Columns     []Column `json:"columns" yaml:"columns"`
	ColumnOrder []string `json:"column_order,omitempty" yaml:"column_order,omitempty"`
}

// Profile is a named group of tables.
type Profile struct {
	Name        string  `json:"-" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Tables      []Table `json:"tables" yaml:"tables"`
}

// Document is a profile-based export configuration. Profiles keep document order.
type Document struct {
	Profiles []Profile `yaml:"profiles"`
}

// Decode validates text and builds the typed document from it.
func Decode(text string) (*Document, error) {
	if err := Validate(text); err != nil {
		return nil, err
	}

	doc := &Document{}
	for _, e := range entries(lookup(gjson.Parse(text), "profiles")) {
		profile := Profile{
			Name:        e.key,
			Description: lookup(e.value, "description").String(),
			Tables:      decodeTables(lookup(e.value, "tables")),
		}
		doc.Profiles = append(doc.Profiles, profile)
	}
	return doc, nil
}

// Profile returns the named profile, or nil.
func (d *Document) Profile(name string) *Profile {
	for i := range d.Profiles {
		if d.Profiles[i].Name == name {
			return &d.Profiles[i]
		}
	}
	return nil
}

// MarshalJSON writes profiles as an object in slice order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"profiles":{`)
	for i, p := range d.Profiles {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := gojson.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		body, err := gojson.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("marshal profile %s: %w", p.Name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// Indent pretty-prints JSON text with two spaces, keeping key order.
func Indent(text []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := gojson.Indent(&buf, text, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewDocument builds a single "default" profile around one table, as produced
// by the create-config form.
func NewDocument(description, baseID, tableName string, columns []Column) *Document {
	if columns == nil {
		columns = []Column{}
	}
	return &Document{
		Profiles: []Profile{{
			Name:        DefaultProfile,
			Description: description,
			Tables: []Table{{
				BaseID:     baseID,
				TableName:  tableName,
				OutputFile: fmt.Sprintf("output/%s.hyper", strings.ToLower(tableName)),
				Columns:    columns,
			}},
		}},
	}
}

func decodeTables(tables gjson.Result) []Table {
	var out []Table
	for _, t := range arrayOf(tables) {
		table := Table{
			BaseID:     lookup(t, "base_id").String(),
			TableName:  lookup(t, "table_name").String(),
			OutputFile: lookup(t, "output_file").String(),
			Columns:    []Column{},
		}
		for _, c := range arrayOf(lookup(t, "columns")) {
			table.Columns = append(table.Columns, Column{
				Source:  lookup(c, "source").String(),
				Type:    lookup(c, "type").String(),
				Rename:  lookup(c, "rename").String(),
				Default: lookup(c, "default").Value(),
				Format:  lookup(c, "format").String(),
				Regex:   lookup(c, "regex").Bool(),
			})
		}
		for _, name := range arrayOf(lookup(t, "column_order")) {
			table.ColumnOrder = append(table.ColumnOrder, name.String())
		}
		out = append(out, table)
	}
	return out
}

// arrayOf returns the elements of an array value and nothing for anything else.
func arrayOf(value gjson.Result) []gjson.Result {
	if !value.IsArray() {
		return nil
	}
	return value.Array()
}
