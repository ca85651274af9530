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

	gojson "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// Kind classifies a validation failure by the level of the document it was found at.
type Kind string

const (
	KindSyntax   Kind = "syntax"
	KindProfiles Kind = "profiles"
	KindProfile  Kind = "profile"
	KindTable    Kind = "table"
	KindColumn   Kind = "column"
)

// Path locates a violation. Table and Column are 1-based, zero when not applicable.
type Path struct {
	Profile string `json:"profile,omitempty" yaml:"profile,omitempty"`
	Table   int    `json:"table,omitempty" yaml:"table,omitempty"`
	Column  int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// ValidationError is the first structural violation found in a config document.
type ValidationError struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
	Path    Path   `json:"path" yaml:"path"`
	Err     error  `json:"-" yaml:"-"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AsValidationError reports whether err carries a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// Presence decides whether a required field counts as set.
type Presence func(value gjson.Result) bool

// Truthy follows JavaScript truthiness: missing, null, false, 0 and "" are absent.
func Truthy(value gjson.Result) bool {
	switch value.Type {
	case gjson.True, gjson.JSON:
		return true
	case gjson.Number:
		return value.Num != 0
	case gjson.String:
		return value.Str != ""
	default:
		return false
	}
}

// NonEmptyString only accepts string values with at least one character.
func NonEmptyString(value gjson.Result) bool {
	return value.Type == gjson.String && value.Str != ""
}

type Validator struct {
	present Presence
}

type Option func(*Validator)

// WithPresence replaces the required-field predicate. Defaults to Truthy.
func WithPresence(p Presence) Option {
	return func(v *Validator) {
		if p != nil {
			v.present = p
		}
	}
}

func NewValidator(opts ...Option) *Validator {
	v := &Validator{present: Truthy}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = NewValidator()

// Validate checks text with the default (truthy) validator.
func Validate(text string) error {
	return defaultValidator.Validate(text)
}

// Validate parses text as JSON and walks profiles -> tables -> columns,
// returning the first violation as a *ValidationError, or nil.
func (v *Validator) Validate(text string) error {
	if !gjson.Valid(text) {
		err := syntaxError(text)
		return &ValidationError{
			Kind:    KindSyntax,
			Message: "❌ Invalid JSON: " + err.Error(),
			Err:     err,
		}
	}

	doc := gjson.Parse(text)
	profiles := lookup(doc, "profiles")
	if !doc.IsObject() || !profiles.IsObject() {
		return &ValidationError{
			Kind:    KindProfiles,
			Message: "❌ Missing or invalid 'profiles' object.",
		}
	}

	for _, entry := range entries(profiles) {
		if err := v.validateProfile(entry.key, entry.value); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) validateProfile(name string, profile gjson.Result) error {
	tables := lookup(profile, "tables")
	if !profile.IsObject() || !tables.IsArray() {
		return &ValidationError{
			Kind:    KindProfile,
			Message: fmt.Sprintf("❌ Profile '%s' must contain a 'tables' array.", name),
			Path:    Path{Profile: name},
		}
	}

	for i, table := range tables.Array() {
		if !table.IsObject() ||
			!v.present(lookup(table, "base_id")) ||
			!v.present(lookup(table, "table_name")) ||
			!v.present(lookup(table, "output_file")) ||
			!lookup(table, "columns").IsArray() {
			return &ValidationError{
				Kind:    KindTable,
				Message: fmt.Sprintf("❌ In profile '%s', table %d is missing required fields.", name, i+1),
				Path:    Path{Profile: name, Table: i + 1},
			}
		}

		for j, column := range lookup(table, "columns").Array() {
			if !column.IsObject() ||
				!v.present(lookup(column, "source")) ||
				!v.present(lookup(column, "type")) {
				return &ValidationError{
					Kind:    KindColumn,
					Message: fmt.Sprintf("❌ In profile '%s', table %d, column %d is missing 'source' or 'type'.", name, i+1, j+1),
					Path:    Path{Profile: name, Table: i + 1, Column: j + 1},
				}
			}
		}
	}
	return nil
}

// errInvalidJSON is reported when the decoder accepts text that strict JSON
// rejects, such as raw control characters inside strings.
var errInvalidJSON = errors.New("text is not strict JSON (control characters in strings must be escaped)")

// syntaxError returns the decoder's message for text, or errInvalidJSON.
func syntaxError(text string) error {
	var parsed any
	if err := gojson.Unmarshal([]byte(text), &parsed); err != nil {
		return err
	}
	return errInvalidJSON
}

type entry struct {
	key   string
	value gjson.Result
}

// entries returns the members of obj in document order. A repeated key keeps
// the position of its first occurrence and the value of its last.
func entries(obj gjson.Result) []entry {
	var out []entry
	index := make(map[string]int)
	obj.ForEach(func(key, value gjson.Result) bool {
		if i, ok := index[key.String()]; ok {
			out[i].value = value
			return true
		}
		index[key.String()] = len(out)
		out = append(out, entry{key: key.String(), value: value})
		return true
	})
	return out
}

// lookup returns the last member named key, without gjson path syntax.
func lookup(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	if !obj.IsObject() {
		return found
	}
	obj.ForEach(func(k, value gjson.Result) bool {
		if k.String() == key {
			found = value
		}
		return true
	})
	return found
}
