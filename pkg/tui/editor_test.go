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

package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablesync/airtable-export/pkg/config"
	"github.com/tablesync/airtable-export/pkg/store"
)

const validConfig = `{"profiles":{"default":{"tables":[{"base_id":"appXYZ","table_name":"Building","output_file":"output/building.hyper","columns":[{"source":"Name","type":"str"}]}]}}}`

func newEditor(t *testing.T, initial string) (*Editor, *store.FileStore) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, st.Put(context.Background(), "a.json", []byte(initial)))

	e, err := New(context.Background(), st, "a.json", config.NewValidator())
	require.NoError(t, err)
	return e, st
}

func TestNewIndentsStoredConfig(t *testing.T) {
	e, _ := newEditor(t, validConfig)
	assert.Contains(t, e.area.GetText(), "{\n  \"profiles\": {\n")
}

func TestNewKeepsUnparseableText(t *testing.T) {
	e, _ := newEditor(t, `{"profiles":`)
	assert.Equal(t, `{"profiles":`, e.area.GetText())
}

func TestNewMissingConfig(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	_, err = New(context.Background(), st, "missing.json", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSave(t *testing.T) {
	e, st := newEditor(t, `{}`)
	e.area.SetText(validConfig, false)

	require.NoError(t, e.Save())
	assert.False(t, e.pages.HasPage(errorPage))

	saved, err := st.Get(context.Background(), "a.json")
	require.NoError(t, err)
	want, err := config.Indent([]byte(validConfig))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(saved))
	assert.Contains(t, e.status.GetText(true), "Successfully saved changes to a.json.")
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	e, st := newEditor(t, validConfig)
	before, err := st.Get(context.Background(), "a.json")
	require.NoError(t, err)

	e.area.SetText(`{"profiles":{"p":{"tables":[{}]}}}`, false)
	err = e.Save()

	var verr *config.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "❌ In profile 'p', table 1 is missing required fields.", verr.Message)
	assert.True(t, e.pages.HasPage(errorPage))

	after, err := st.Get(context.Background(), "a.json")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestHandleKey(t *testing.T) {
	e, st := newEditor(t, `{}`)
	e.area.SetText(validConfig, false)

	assert.Nil(t, e.handleKey(tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl)))
	saved, err := st.Get(context.Background(), "a.json")
	require.NoError(t, err)
	assert.Contains(t, string(saved), "\"Building\"")

	letter := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	assert.Equal(t, letter, e.handleKey(letter))
}

func TestHandleKeyWhileErrorShown(t *testing.T) {
	e, _ := newEditor(t, `{}`)
	e.area.SetText(`[]`, false)
	require.Error(t, e.Save())

	// Keys go to the dialog until it is dismissed.
	event := tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl)
	assert.Equal(t, event, e.handleKey(event))
}

func TestFormat(t *testing.T) {
	e, _ := newEditor(t, `{}`)

	e.area.SetText(`{"b":1,"a":[1,2]}`, false)
	e.Format()
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": [\n    1,\n    2\n  ]\n}", e.area.GetText())

	e.area.SetText(`{"b":`, false)
	e.Format()
	assert.Equal(t, `{"b":`, e.area.GetText())
	assert.Contains(t, e.status.GetText(true), "Invalid JSON")
}
