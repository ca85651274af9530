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

// ValidateResponse is the JSON body returned by /api/validate.
type ValidateResponse struct {
	Valid bool             `json:"valid" yaml:"valid"`
	File  string           `json:"file,omitempty" yaml:"file,omitempty"`
	Error *ValidationError `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewValidateResponse wraps the result of a Validate call.
func NewValidateResponse(err error) ValidateResponse {
	if err == nil {
		return ValidateResponse{Valid: true}
	}
	verr, ok := AsValidationError(err)
	if !ok {
		verr = &ValidationError{Kind: KindSyntax, Message: err.Error(), Err: err}
	}
	return ValidateResponse{Valid: false, Error: verr}
}

// airtableTypes maps Airtable field types onto column types.
var airtableTypes = map[string]string{
	"singleLineText":   "str",
	"multilineText":    "str",
	"number":           "float",
	"checkbox":         "bool",
	"date":             "str",
	"email":            "str",
	"url":              "str",
	"phoneNumber":      "str",
	"singleSelect":     "str",
	"multipleSelects":  "str",
	"formula":          "str",
	"rollup":           "str",
	"lookup":           "str",
	"count":            "int",
	"createdTime":      "str",
	"lastModifiedTime": "str",
}

// ColumnType returns the column type for an Airtable field type, "str" if unknown.
func ColumnType(airtableType string) string {
	if t, ok := airtableTypes[airtableType]; ok {
		return t
	}
	return "str"
}
