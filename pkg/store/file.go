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

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/tablesync/airtable-export/pkg/fsops"
)

// FileStore keeps configs as files in a single directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := fsops.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create config directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file path backing name.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list config directory: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || ValidName(f.Name()) != nil {
			continue
		}
		info, err := f.Info()
		if err != nil {
			log.Warnf("Skipping %s: %v", f.Name(), err)
			continue
		}
		entries = append(entries, newEntry(f.Name(), s.Path(f.Name()), info.Size(), info.ModTime()))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (s *FileStore) Stat(ctx context.Context, name string) (Entry, error) {
	if err := ValidName(name); err != nil {
		return Entry{}, err
	}
	info, err := os.Stat(s.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	return newEntry(name, s.Path(name), info.Size(), info.ModTime()), nil
}

func (s *FileStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read config %s: %w", name, err)
	}
	return data, nil
}

func (s *FileStore) Put(ctx context.Context, name string, data []byte) error {
	if err := ValidName(name); err != nil {
		return err
	}
	if err := fsops.WriteFile(s.Path(name), data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) Create(ctx context.Context, name string, data []byte) error {
	if _, err := s.Stat(ctx, name); err == nil {
		return ErrExists
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.Put(ctx, name, data)
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if _, err := s.Stat(ctx, name); err != nil {
		return err
	}
	if err := fsops.Remove(s.Path(name)); err != nil {
		return fmt.Errorf("delete config %s: %w", name, err)
	}
	return nil
}
