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

// Package store keeps named JSON export configurations, either as files in a
// directory or as Kubernetes ConfigMaps.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("config file not found")
	ErrExists      = errors.New("a config file with that name already exists")
	ErrInvalidName = errors.New("only .json config files are allowed")
)

// Entry describes a stored config.
type Entry struct {
	Name      string    `json:"name" yaml:"name"`
	Path      string    `json:"path" yaml:"path"`
	Size      int64     `json:"size_bytes" yaml:"size_bytes"`
	SizeHuman string    `json:"size_human" yaml:"size_human"`
	Modified  time.Time `json:"modified" yaml:"modified"`
}

type Store interface {
	// List returns entries sorted by name.
	List(ctx context.Context) ([]Entry, error)
	Stat(ctx context.Context, name string) (Entry, error)
	Get(ctx context.Context, name string) ([]byte, error)
	// Put creates or replaces name.
	Put(ctx context.Context, name string, data []byte) error
	// Create fails with ErrExists when name is already stored.
	Create(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
}

// ValidName accepts plain file names ending in .json.
func ValidName(name string) error {
	if name == "" || filepath.Base(name) != name || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !strings.HasSuffix(name, ".json") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// HumanSize formats a byte count as "12.3 KB".
func HumanSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1f PB", value)
}

func newEntry(name, path string, size int64, modified time.Time) Entry {
	return Entry{
		Name:      name,
		Path:      path,
		Size:      size,
		SizeHuman: HumanSize(size),
		Modified:  modified,
	}
}
