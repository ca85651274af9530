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

package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")

	require.NoError(t, WriteFile(path, []byte(`{"a":1}`), 0644))
	require.NoError(t, WriteFile(path, []byte(`{"a":2}`), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestDryRun(t *testing.T) {
	SetDryRun(true)
	defer SetDryRun(false)

	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")

	require.NoError(t, WriteFile(path, []byte(`{}`), 0644))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, MkdirAll(filepath.Join(dir, "nested"), 0755))
	_, err = os.Stat(filepath.Join(dir, "nested"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))
	require.NoError(t, Remove(path))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestCreateTemp(t *testing.T) {
	name, err := CreateTemp("export-*.json", []byte(`{"profiles":{}}`))
	require.NoError(t, err)
	defer os.Remove(name)

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, `{"profiles":{}}`, string(data))
}
