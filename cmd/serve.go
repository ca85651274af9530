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
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tablesync/airtable-export/pkg/exporter"
	"github.com/tablesync/airtable-export/pkg/fsops"
	"github.com/tablesync/airtable-export/pkg/webui"
)

var webuiCmd = &cobra.Command{
	Use:     "webui",
	Aliases: []string{"serve"},
	Short:   "Start the web config editor",
	Long:    `Launch the web interface for listing, editing, validating and running export configs.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWebUI()
	},
}

func init() {
	rootCmd.AddCommand(webuiCmd)
}

func runWebUI() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := newStore()
	if err != nil {
		return err
	}
	outputDir := viper.GetString("OUTPUT_DIR")
	if err := fsops.MkdirAll(outputDir, 0755); err != nil {
		log.Warnf("Could not create output directory %s: %v", outputDir, err)
	}

	server, err := webui.NewServer(webui.Config{
		Port:          viper.GetInt("PORT"),
		OutputDir:     outputDir,
		LocalhostOnly: viper.GetBool("LOCALHOST_ONLY"),
		CORSOrigins:   corsOrigins(),
		Store:         st,
		Metadata:      newAirtableClient(),
		Exporter:      exporter.NewRunner(viper.GetString("EXPORT_COMMAND")),
		Validator:     newValidator(),
		Sessions:      webui.NewSessionStore(sessionSecret()),
	})
	if err != nil {
		return err
	}
	return server.Start(ctx)
}
