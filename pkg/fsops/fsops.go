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

// Package fsops wraps the filesystem writes made on behalf of the user. In
// dry-run mode writes are logged instead of performed; reads are never faked.
package fsops

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	dryRun bool
	mu     sync.RWMutex
)

// SetDryRun sets the dry-run mode
func SetDryRun(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	dryRun = enabled
}

// IsDryRun returns true if dry-run mode is enabled
func IsDryRun() bool {
	mu.RLock()
	defer mu.RUnlock()
	return dryRun
}

// WriteFile replaces name with data through a temporary file in the same
// directory, so readers never observe a partial config.
// If dry-run mode is enabled, it logs the operation instead.
func WriteFile(name string, data []byte, perm fs.FileMode) error {
	if IsDryRun() {
		log.Infof("[DRY-RUN] WRITE: %s (%d bytes, perm: %o)", name, len(data), perm)
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}

// Remove removes the named file or (empty) directory.
// If dry-run mode is enabled, it logs the operation instead.
func Remove(name string) error {
	if IsDryRun() {
		log.Infof("[DRY-RUN] REMOVE: %s", name)
		return nil
	}
	return os.Remove(name)
}

// MkdirAll creates a directory named path, along with any necessary parents.
// If dry-run mode is enabled, it logs the operation instead.
func MkdirAll(path string, perm fs.FileMode) error {
	if IsDryRun() {
		log.Infof("[DRY-RUN] MKDIR_ALL: %s (perm: %o)", path, perm)
		return nil
	}
	return os.MkdirAll(path, perm)
}

// CreateTemp writes data to a new temporary file and returns its path.
// Temporary files are scratch space for the exporter and are written even in
// dry-run mode.
func CreateTemp(pattern string, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
