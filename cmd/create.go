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
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tablesync/airtable-export/pkg/store"
	"github.com/tablesync/airtable-export/pkg/webui"
)

var createOpts struct {
	description string
	baseID      string
	tableName   string
	filename    string
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a config from an Airtable table's fields",
	Long: `Fetches the field list of an Airtable table and stores a new config with a
"default" profile that exports every field.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := newStore()
		if err != nil {
			return err
		}
		return createConfig(cmd.Context(), cmd.OutOrStdout(), st, newAirtableClient())
	},
}

func init() {
	createCmd.Flags().StringVar(&createOpts.description, "description", "", "profile description")
	createCmd.Flags().StringVar(&createOpts.baseID, "base-id", "", "Airtable base ID")
	createCmd.Flags().StringVar(&createOpts.tableName, "table-name", "", "Airtable table name")
	createCmd.Flags().StringVar(&createOpts.filename, "filename", "", "name of the new config, e.g. buildings.json")
	for _, name := range []string{"description", "base-id", "table-name", "filename"} {
		cobra.CheckErr(createCmd.MarkFlagRequired(name))
	}
	rootCmd.AddCommand(createCmd)
}

func createConfig(ctx context.Context, w io.Writer, st store.Store, meta webui.Metadata) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := store.ValidName(createOpts.filename); err != nil {
		return err
	}
	if _, err := st.Stat(ctx, createOpts.filename); err == nil {
		return store.ErrExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	data, err := webui.BuildConfig(ctx, meta, createOpts.description, createOpts.baseID, createOpts.tableName)
	if err != nil {
		return fmt.Errorf("error creating config: %w", err)
	}
	if err := st.Create(ctx, createOpts.filename, data); err != nil {
		return err
	}
	fmt.Fprintf(w, "Config '%s' created successfully.\n", createOpts.filename)
	return nil
}
