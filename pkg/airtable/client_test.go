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

package airtable

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metadata = `{"tables":[
  {"id":"tbl1","name":"Building","fields":[
    {"id":"fld1","name":"Name","type":"singleLineText"},
    {"id":"fld2","name":"Floors","type":"number"}]},
  {"id":"tbl2","name":"Space","fields":[]}
]}`

func TestTableFields(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v0/meta/bases/appXYZ/tables", r.URL.Path)
		assert.Equal(t, "Bearer key123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(metadata))
	}))
	defer server.Close()

	client := NewClient("key123", WithBaseURL(server.URL))

	fields, err := client.TableFields(context.Background(), "appXYZ", "Building")
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "Floors", fields[1].Name)
	assert.Equal(t, "number", fields[1].Type)

	_, err = client.TableFields(context.Background(), "appXYZ", "Missing")
	assert.EqualError(t, err, "table 'Missing' not found in base 'appXYZ'")
	assert.EqualValues(t, 2, calls.Load())
}

func TestTables_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(metadata))
	}))
	defer server.Close()

	tables, err := NewClient("key", WithBaseURL(server.URL)).Tables(context.Background(), "app")
	require.NoError(t, err)
	assert.Len(t, tables, 2)
	assert.EqualValues(t, 2, calls.Load())
}

func TestTables_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"INVALID_PERMISSIONS"}`))
	}))
	defer server.Close()

	_, err := NewClient("key", WithBaseURL(server.URL), WithHTTPClient(server.Client())).Tables(context.Background(), "app")
	assert.EqualError(t, err, `failed to fetch metadata: {"error":"INVALID_PERMISSIONS"}`)

	_, err = NewClient("").Tables(context.Background(), "app")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
