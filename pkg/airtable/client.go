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

// Package airtable reads table metadata from the Airtable REST API.
package airtable

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gojson "github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"github.com/ybbus/httpretry"
)

const DefaultBaseURL = "https://api.airtable.com"

var ErrMissingAPIKey = errors.New("missing AIRTABLE_API_KEY environment variable")

// Field is one column of an Airtable table.
type Field struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Table is the schema of one Airtable table.
type Table struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient returns a client retrying transient failures with exponential
// backoff for up to ten seconds.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http: httpretry.NewCustomClient(
			&http.Client{Timeout: 30 * time.Second},
			httpretry.WithMaxRetryCount(3),
			httpretry.WithBackoffPolicy(httpretry.ExponentialBackoff(200*time.Millisecond, 10*time.Second, 0)),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tables lists the tables of a base.
func (c *Client) Tables(ctx context.Context, baseID string) ([]Table, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	endpoint := fmt.Sprintf("%s/v0/meta/bases/%s/tables", c.baseURL, url.PathEscape(baseID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build metadata request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	log.Debugf("airtable: GET %s", endpoint)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read metadata response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch metadata: %s", string(body))
	}

	var payload struct {
		Tables []Table `json:"tables"`
	}
	if err := gojson.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode metadata response: %w", err)
	}
	return payload.Tables, nil
}

// TableFields returns the fields of the table called tableName in baseID.
func (c *Client) TableFields(ctx context.Context, baseID, tableName string) ([]Field, error) {
	tables, err := c.Tables(ctx, baseID)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if t.Name == tableName {
			return t.Fields, nil
		}
	}
	return nil, fmt.Errorf("table '%s' not found in base '%s'", tableName, baseID)
}
