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

// Package editor binds a text-editing widget to the config form: it fixes the
// widget options, copies the widget text into the hidden form fields, and runs
// the config validator before a submission is allowed through.
package editor

import (
	"github.com/tablesync/airtable-export/pkg/config"
)

// DOM ids shared by the page, the script and the form handlers.
const (
	ContainerID = "editor"
	ConfigField = "config_data"
	JSONField   = "json_data"
)

// Buffer is the widget's text content.
type Buffer interface {
	Value() string
}

// Form receives hidden field values before it is submitted.
type Form interface {
	SetField(id, value string)
}

// Options are the widget settings. They are fixed; see DefaultOptions.
type Options struct {
	Container       string `json:"-"`
	Mode            string `json:"-"`
	Theme           string `json:"-"`
	UseWorker       bool   `json:"-"`
	FontSize        string `json:"fontSize"`
	UseSoftTabs     bool   `json:"useSoftTabs"`
	ShowPrintMargin bool   `json:"showPrintMargin"`
}

func DefaultOptions() Options {
	return Options{
		Container:       ContainerID,
		Mode:            "ace/mode/json",
		Theme:           "ace/theme/github",
		UseWorker:       true,
		FontSize:        "14px",
		UseSoftTabs:     true,
		ShowPrintMargin: false,
	}
}

// Bridge owns the single widget handle used by both Submit and ValidateAndSubmit.
type Bridge struct {
	buffer    Buffer
	validator *config.Validator
	options   Options
}

type BridgeOption func(*Bridge)

// WithValidator swaps the validator, e.g. for the strict field predicate.
func WithValidator(v *config.Validator) BridgeOption {
	return func(b *Bridge) {
		if v != nil {
			b.validator = v
		}
	}
}

func NewBridge(buffer Buffer, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		buffer:    buffer,
		validator: config.NewValidator(),
		options:   DefaultOptions(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bridge) Options() Options {
	return b.options
}

// Submit copies the widget text verbatim into config_data.
func (b *Bridge) Submit(form Form) {
	form.SetField(ConfigField, b.buffer.Value())
}

// ValidateAndSubmit validates the widget text. On success the raw text is
// written verbatim into json_data and nil is returned, so the submission may
// proceed. On failure nothing is written and the *config.ValidationError is
// returned.
func (b *Bridge) ValidateAndSubmit(form Form) error {
	text := b.buffer.Value()
	if err := b.validator.Validate(text); err != nil {
		return err
	}
	form.SetField(JSONField, text)
	return nil
}

// StaticBuffer is a Buffer over a fixed string, e.g. a posted form field.
type StaticBuffer string

func (s StaticBuffer) Value() string {
	return string(s)
}

// Fields is a Form backed by a map.
type Fields map[string]string

func (f Fields) SetField(id, value string) {
	f[id] = value
}
