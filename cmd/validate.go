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

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tablesync/airtable-export/pkg/config"
)

var validateFormat string

var validateCmd = &cobra.Command{
	Use:   "validate <config-file> [config-file...]",
	Short: "Check export config files",
	Long: `Runs the same checks as the web editor on each file and reports the first
problem found in each. Exits non-zero when any file is invalid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, files []string) error {
		report, err := validateFiles(newValidator(), files)
		if err != nil {
			return err
		}
		if err := writeReport(cmd.OutOrStdout(), report, validateFormat); err != nil {
			return err
		}
		if !report.Success {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateFormat, "output", "o", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(validateCmd)
}

type validationReport struct {
	Total   int                       `json:"total" yaml:"total"`
	Passed  int                       `json:"passed" yaml:"passed"`
	Failed  int                       `json:"failed" yaml:"failed"`
	Success bool                      `json:"success" yaml:"success"`
	Results []config.ValidateResponse `json:"results" yaml:"results"`
}

func validateFiles(v *config.Validator, files []string) (validationReport, error) {
	report := validationReport{Total: len(files), Success: true}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return report, fmt.Errorf("read %s: %w", file, err)
		}

		result := config.NewValidateResponse(v.Validate(string(data)))
		result.File = file
		if result.Valid {
			report.Passed++
		} else {
			report.Failed++
			report.Success = false
			log.Infof("%s: %s", file, result.Error.Message)
		}
		report.Results = append(report.Results, result)
	}
	return report, nil
}

func writeReport(w io.Writer, report validationReport, format string) error {
	switch format {
	case "json", "yaml":
		return encode(w, report, format)
	case "text", "":
		for _, r := range report.Results {
			if r.Valid {
				fmt.Fprintf(w, "✅ %s\n", filepath.Base(r.File))
			} else {
				fmt.Fprintf(w, "%s: %s\n", filepath.Base(r.File), r.Error.Message)
			}
		}
		fmt.Fprintf(w, "\n%d checked, %d passed, %d failed\n", report.Total, report.Passed, report.Failed)
		return nil
	default:
		return fmt.Errorf("unknown output format %q: must be text, json or yaml", format)
	}
}
