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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// LoadDocument reads and validates a profile-based configuration file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Decode(string(data))
}

// LoadProfile returns the tables an export should run for. Profile-based
// configs select profileName (DefaultProfile when empty); legacy configs with
// a top-level "tables" list are returned as they are.
func LoadProfile(data []byte, profileName string) ([]Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("❌ Config file is not valid JSON.")
	}
	root := gjson.ParseBytes(data)

	if profiles := lookup(root, "profiles"); profiles.Exists() {
		if profileName == "" {
			profileName = DefaultProfile
		}
		var profile gjson.Result
		found := false
		for _, e := range entries(profiles) {
			if e.key == profileName {
				profile, found = e.value, true
			}
		}
		if !found {
			return nil, fmt.Errorf("❌ Profile '%s' not found in config.", profileName)
		}
		tables := lookup(profile, "tables")
		if len(arrayOf(tables)) == 0 {
			return nil, fmt.Errorf("❌ Profile '%s' must contain a 'tables' list.", profileName)
		}
		return decodeTables(tables), nil
	}

	if tables := lookup(root, "tables"); tables.Exists() {
		return decodeTables(tables), nil
	}

	return nil, errors.New("❌ Config file must contain either 'tables' or 'profiles'.")
}

// TableNameForFile finds the table that writes outputName in any of the given
// configs, looking in profile when the config is profile-based. Falls back to
// "Building".
func TableNameForFile(configs [][]byte, outputName, profile string) string {
	if profile == "" {
		profile = DefaultProfile
	}
	for _, data := range configs {
		if !gjson.ValidBytes(data) {
			continue
		}
		tables, err := LoadProfile(data, profile)
		if err != nil {
			continue
		}
		for _, t := range tables {
			if filepath.Base(t.OutputFile) == outputName && t.TableName != "" {
				return t.TableName
			}
		}
	}
	return "Building"
}

// TableRef names one table of one profile.
type TableRef struct {
	Profile    string `json:"profile" yaml:"profile"`
	BaseID     string `json:"base_id" yaml:"base_id"`
	TableName  string `json:"table_name" yaml:"table_name"`
	OutputFile string `json:"output_file" yaml:"output_file"`
}

// TableRefs lists every table of every profile in document order. It reads
// what it can and skips the rest, so it works on configs that fail Validate.
func TableRefs(data []byte) []TableRef {
	if !gjson.ValidBytes(data) {
		return nil
	}
	profiles := lookup(gjson.ParseBytes(data), "profiles")
	if !profiles.IsObject() {
		return nil
	}
	var refs []TableRef
	for _, p := range entries(profiles) {
		for _, t := range arrayOf(lookup(p.value, "tables")) {
			refs = append(refs, TableRef{
				Profile:    p.key,
				BaseID:     lookup(t, "base_id").String(),
				TableName:  lookup(t, "table_name").String(),
				OutputFile: lookup(t, "output_file").String(),
			})
		}
	}
	return refs
}
