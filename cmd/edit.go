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
	"context"

	"github.com/spf13/cobra"

	"github.com/tablesync/airtable-export/pkg/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit <config-name>",
	Short: "Edit a stored config in the terminal",
	Long: `Opens a stored config in a terminal editor. Ctrl-S checks the config and saves
it only when it is valid; problems are shown in a dialog.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, names []string) error {
		st, err := newStore()
		if err != nil {
			return err
		}
		e, err := tui.New(context.Background(), st, names[0], newValidator())
		if err != nil {
			return err
		}
		return e.Run()
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
