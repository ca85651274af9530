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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `{"profiles":{"P1":{"tables":[{"base_id":"b","table_name":"t","output_file":"o","columns":[{"source":"s","type":"string"}]}]}}}`

func TestValidate_Accepts(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"single table", validDoc},
		{"empty profiles mapping", `{"profiles":{}}`},
		{"empty tables", `{"profiles":{"P1":{"tables":[]}}}`},
		{"empty columns", `{"profiles":{"P1":{"tables":[{"base_id":"b","table_name":"t","output_file":"o","columns":[]}]}}}`},
		{"numeric id is truthy", `{"profiles":{"P1":{"tables":[{"base_id":7,"table_name":"t","output_file":"o","columns":[]}]}}}`},
		{"object value is truthy", `{"profiles":{"P1":{"tables":[{"base_id":{},"table_name":"t","output_file":"o","columns":[{"source":[],"type":true}]}]}}}`},
		{"extra fields ignored", `{"version":2,"profiles":{"P1":{"description":"d","tables":[]}}}`},
		{"number beyond float64 range", `{"x":1e400,"profiles":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, Validate(tt.text))
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		kind    Kind
		path    Path
		message string
	}{
		{
			name: "not json",
			text: `{"profiles":`,
			kind: KindSyntax,
		},
		{
			name: "empty text",
			text: ``,
			kind: KindSyntax,
		},
		{
			name: "raw newline in string",
			text: "{\"profiles\":{\"P1\":{\"tables\":[{\"base_id\":\"b\",\"table_name\":\"multi\nline\",\"output_file\":\"o\",\"columns\":[]}]}}}",
			kind: KindSyntax,
		},
		{
			name: "raw tab in key",
			text: "{\"prof\tiles\":{}}",
			kind: KindSyntax,
		},
		{
			name:    "profiles absent",
			text:    `{"tables":[]}`,
			kind:    KindProfiles,
			message: "❌ Missing or invalid 'profiles' object.",
		},
		{
			name: "profiles null",
			text: `{"profiles":null}`,
			kind: KindProfiles,
		},
		{
			name: "profiles array",
			text: `{"profiles":[{"tables":[]}]}`,
			kind: KindProfiles,
		},
		{
			name: "profiles string",
			text: `{"profiles":"default"}`,
			kind: KindProfiles,
		},
		{
			name: "top level array",
			text: `[1,2]`,
			kind: KindProfiles,
		},
		{
			name: "top level null",
			text: `null`,
			kind: KindProfiles,
		},
		{
			name:    "tables missing",
			text:    `{"profiles":{"ok":{"tables":[]},"broken":{}}}`,
			kind:    KindProfile,
			path:    Path{Profile: "broken"},
			message: "❌ Profile 'broken' must contain a 'tables' array.",
		},
		{
			name: "tables not an array",
			text: `{"profiles":{"P1":{"tables":{"0":{}}}}}`,
			kind: KindProfile,
			path: Path{Profile: "P1"},
		},
		{
			name: "profile null",
			text: `{"profiles":{"P1":null}}`,
			kind: KindProfile,
			path: Path{Profile: "P1"},
		},
		{
			name:    "empty base_id",
			text:    `{"profiles":{"P1":{"tables":[{"base_id":"","table_name":"t","output_file":"o","columns":[]}]}}}`,
			kind:    KindTable,
			path:    Path{Profile: "P1", Table: 1},
			message: "❌ In profile 'P1', table 1 is missing required fields.",
		},
		{
			name: "zero base_id",
			text: `{"profiles":{"P1":{"tables":[{"base_id":0,"table_name":"t","output_file":"o","columns":[]}]}}}`,
			kind: KindTable,
			path: Path{Profile: "P1", Table: 1},
		},
		{
			name: "second table missing output_file",
			text: `{"profiles":{"P1":{"tables":[
				{"base_id":"b","table_name":"t","output_file":"o","columns":[]},
				{"base_id":"b","table_name":"t","columns":[]}]}}}`,
			kind: KindTable,
			path: Path{Profile: "P1", Table: 2},
		},
		{
			name: "columns not an array",
			text: `{"profiles":{"P1":{"tables":[{"base_id":"b","table_name":"t","output_file":"o","columns":"s"}]}}}`,
			kind: KindTable,
			path: Path{Profile: "P1", Table: 1},
		},
		{
			name: "table is a string",
			text: `{"profiles":{"P1":{"tables":["t"]}}}`,
			kind: KindTable,
			path: Path{Profile: "P1", Table: 1},
		},
		{
			name: "column missing type",
			text: `{"profiles":{"P1":{"tables":[
				{"base_id":"b","table_name":"t","output_file":"o","columns":[]},
				{"base_id":"b","table_name":"t","output_file":"o","columns":[{"source":"a","type":"str"},{"source":"s"}]}]}}}`,
			kind:    KindColumn,
			path:    Path{Profile: "P1", Table: 2, Column: 2},
			message: "❌ In profile 'P1', table 2, column 2 is missing 'source' or 'type'.",
		},
		{
			name: "column source false",
			text: `{"profiles":{"P1":{"tables":[{"base_id":"b","table_name":"t","output_file":"o","columns":[{"source":false,"type":"str"}]}]}}}`,
			kind: KindColumn,
			path: Path{Profile: "P1", Table: 1, Column: 1},
		},
		{
			name: "column null",
			text: `{"profiles":{"P1":{"tables":[{"base_id":"b","table_name":"t","output_file":"o","columns":[null]}]}}}`,
			kind: KindColumn,
			path: Path{Profile: "P1", Table: 1, Column: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.text)
			require.Error(t, err)

			verr, ok := AsValidationError(err)
			require.True(t, ok, "expected *ValidationError, got %T", err)
			assert.Equal(t, tt.kind, verr.Kind)
			assert.Equal(t, tt.path, verr.Path)
			assert.True(t, strings.HasPrefix(verr.Message, "❌"), "message %q lacks prefix", verr.Message)
			if tt.message != "" {
				assert.Equal(t, tt.message, verr.Message)
			}
		})
	}
}

func TestValidate_SyntaxErrorCarriesParserMessage(t *testing.T) {
	err := Validate(`{"profiles": {,}}`)
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	require.NotNil(t, verr.Err)
	assert.Equal(t, "❌ Invalid JSON: "+verr.Err.Error(), verr.Message)
}

func TestValidate_RawControlCharacterIsSyntaxError(t *testing.T) {
	err := Validate("{\"profiles\":{\"P\n1\":{\"tables\":[]}}}")
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, KindSyntax, verr.Kind)
	assert.Equal(t, "❌ Invalid JSON: "+verr.Err.Error(), verr.Message)
	assert.Empty(t, verr.Path)
}

func TestValidate_FirstViolationInDocumentOrder(t *testing.T) {
	text := `{"profiles":{
		"zeta":{"tables":[{"base_id":"b","table_name":"t","output_file":"o","columns":[{"type":"str"}]}]},
		"alpha":{}
	}}`

	verr, ok := AsValidationError(Validate(text))
	require.True(t, ok)
	assert.Equal(t, KindColumn, verr.Kind)
	assert.Equal(t, "zeta", verr.Path.Profile)
}

func TestValidate_DuplicateProfileKeyUsesLastValue(t *testing.T) {
	text := `{"profiles":{"P1":{},"P2":{"tables":[]},"P1":{"tables":[]}}}`
	assert.NoError(t, Validate(text))

	text = `{"profiles":{"P1":{"tables":[]},"P1":{}}}`
	verr, ok := AsValidationError(Validate(text))
	require.True(t, ok)
	assert.Equal(t, Path{Profile: "P1"}, verr.Path)
}

func TestValidator_NonEmptyString(t *testing.T) {
	strict := NewValidator(WithPresence(NonEmptyString))

	numeric := `{"profiles":{"P1":{"tables":[{"base_id":7,"table_name":"t","output_file":"o","columns":[]}]}}}`
	assert.NoError(t, Validate(numeric))

	verr, ok := AsValidationError(strict.Validate(numeric))
	require.True(t, ok)
	assert.Equal(t, KindTable, verr.Kind)

	assert.NoError(t, strict.Validate(validDoc))
}

func TestNewValidateResponse(t *testing.T) {
	ok := NewValidateResponse(nil)
	assert.True(t, ok.Valid)
	assert.Nil(t, ok.Error)

	bad := NewValidateResponse(Validate(`{}`))
	assert.False(t, bad.Valid)
	require.NotNil(t, bad.Error)
	assert.Equal(t, KindProfiles, bad.Error.Kind)
}
