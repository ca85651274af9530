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
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/tablesync/airtable-export/pkg/config"
	"github.com/tablesync/airtable-export/pkg/exporter"
)

var (
	profileName    string
	profilesFormat string
)

var profilesCmd = &cobra.Command{
	Use:   "profiles <config-file>",
	Short: "List the profiles and tables of a config",
	Long: `Without --profile, lists every table of every profile with the export command
that runs it. With --profile, prints the tables an export of that profile would
run; legacy configs with a top-level "tables" list are accepted too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, files []string) error {
		data, err := os.ReadFile(files[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", files[0], err)
		}
		runner := exporter.NewRunner(viper.GetString("EXPORT_COMMAND"))
		if profileName == "" {
			return writeTableRefs(cmd.OutOrStdout(), runner, files[0], data, profilesFormat)
		}
		return writeProfile(cmd.OutOrStdout(), data, profileName, profilesFormat)
	},
}

func init() {
	profilesCmd.Flags().StringVar(&profileName, "profile", "", "profile to load")
	profilesCmd.Flags().StringVarP(&profilesFormat, "output", "o", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(profilesCmd)
}

func writeTableRefs(w io.Writer, runner *exporter.Runner, path string, data []byte, format string) error {
	refs := config.TableRefs(data)
	if format != "text" && format != "" {
		return encode(w, refs, format)
	}
	if len(refs) == 0 {
		fmt.Fprintln(w, "No profiles with tables found.")
		return nil
	}
	for _, ref := range refs {
		fmt.Fprintf(w, "%s\t%s\t%s\n  %s\n", ref.Profile, ref.TableName, ref.OutputFile, runner.CommandLine(path, ref.Profile))
	}
	return nil
}

func writeProfile(w io.Writer, data []byte, profile, format string) error {
	tables, err := config.LoadProfile(data, profile)
	if err != nil {
		return err
	}
	if format != "text" && format != "" {
		return encode(w, tables, format)
	}
	for i, t := range tables {
		fmt.Fprintf(w, "%d. %s (%s) -> %s, %d columns\n", i+1, t.TableName, t.BaseID, t.OutputFile, len(t.Columns))
		for _, c := range t.Columns {
			fmt.Fprintf(w, "   - %s\n", describeColumn(c))
		}
		if len(t.ColumnOrder) > 0 {
			fmt.Fprintf(w, "   order: %s\n", strings.Join(t.ColumnOrder, ", "))
		}
	}
	return nil
}

// describeColumn renders a column as "source: type" plus any of its options.
func describeColumn(c config.Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", c.Source, c.Type)
	if c.Regex {
		b.WriteString(" (regex)")
	}
	if c.Rename != "" {
		fmt.Fprintf(&b, " as %s", c.Rename)
	}
	if c.Default != nil {
		fmt.Fprintf(&b, " default=%v", c.Default)
	}
	if c.Format != "" {
		fmt.Fprintf(&b, " format=%s", c.Format)
	}
	return b.String()
}

func encode(w io.Writer, v interface{}, format string) error {
	switch format {
	case "json":
		data, err := gojson.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q: must be text, json or yaml", format)
	}
}
