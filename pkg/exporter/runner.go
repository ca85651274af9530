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

// Package exporter runs the external Airtable → Hyper export command for a
// stored config and streams its combined output. Runs can be mocked through
// the "mocks" configuration key, keyed by mock id.
package exporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/tablesync/airtable-export/pkg/fsops"
)

// DefaultCommand is the exporter binary installed by the Python export tool.
// It is a separate program from this one.
const DefaultCommand = "airtable-export"

// MockResponse defines a mock command response
type MockResponse struct {
	Output string
	Error  string
}

var (
	mocks     map[string]MockResponse
	mocksMu   sync.RWMutex
	mocksOnce sync.Once
)

// ResetMocks clears the mock registry and resets the sync.Once
func ResetMocks() {
	mocksMu.Lock()
	defer mocksMu.Unlock()
	mocks = make(map[string]MockResponse)
	mocksOnce = sync.Once{}
}

// LoadMocks loads mock configurations from viper
func LoadMocks() {
	mocksOnce.Do(func() {
		mocksMu.Lock()
		defer mocksMu.Unlock()
		mocks = make(map[string]MockResponse)

		mocksMap, ok := viper.Get("mocks").(map[string]interface{})
		if !ok {
			return
		}
		for mockID, mockData := range mocksMap {
			mockMap, ok := mockData.(map[string]interface{})
			if !ok {
				continue
			}
			response := MockResponse{}
			if s, ok := mockMap["output"].(string); ok {
				response.Output = s
			}
			if s, ok := mockMap["error"].(string); ok {
				response.Error = s
			}
			mocks[strings.ToLower(mockID)] = response
		}
	})
}

func lookupMock(mockID string) (MockResponse, bool) {
	mocksMu.RLock()
	defer mocksMu.RUnlock()
	m, ok := mocks[strings.ToLower(mockID)]
	return m, ok
}

// maxLineSize bounds one line of exporter output.
const maxLineSize = 1024 * 1024

type Runner struct {
	command string
}

func NewRunner(command string) *Runner {
	if command == "" {
		command = DefaultCommand
	}
	return &Runner{command: command}
}

// Args returns the exporter arguments for one config and profile.
func (r *Runner) Args(configPath, profile string) []string {
	return []string{"export", "--config", configPath, "--profile", profile}
}

// CommandLine is the shell form shown to users, e.g. on the config page.
func (r *Runner) CommandLine(configPath, profile string) string {
	return strings.Join(append([]string{r.command}, r.Args(configPath, profile)...), " ")
}

// Stream runs the exporter and copies every output line to w as it arrives.
// mockID selects a mock response registered under "mocks" (e.g. "export.default").
func (r *Runner) Stream(ctx context.Context, w io.Writer, mockID, configPath, profile string) error {
	args := r.Args(configPath, profile)
	cmdString := r.command + " " + strings.Join(args, " ")
	log.Debugf("exporter.Stream: mockID=%q, cmd=%q", mockID, cmdString)

	if mock, ok := lookupMock(mockID); ok {
		log.Debugf("exporter.Stream: using mock for %q", mockID)
		io.WriteString(w, mock.Output)
		if mock.Error != "" {
			return fmt.Errorf("%s", mock.Error)
		}
		return nil
	}

	if fsops.IsDryRun() {
		log.Infof("[DRY-RUN] EXEC: %s", cmdString)
		_, err := fmt.Fprintf(w, "[DRY-RUN] %s\n", cmdString)
		return err
	}

	cmd := exec.CommandContext(ctx, r.command, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("attach exporter output: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start exporter: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(w, scanner.Text()); err != nil {
			cmd.Process.Kill()
			cmd.Wait()
			return fmt.Errorf("write exporter output: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		cmd.Process.Kill()
		io.Copy(io.Discard, stdout)
		cmd.Wait()
		return fmt.Errorf("read exporter output: %w", err)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("exporter failed: %w", err)
	}
	return nil
}
