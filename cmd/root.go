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
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tablesync/airtable-export/pkg/args"
	"github.com/tablesync/airtable-export/pkg/exporter"
	"github.com/tablesync/airtable-export/pkg/fsops"
)

var rootCmd = &cobra.Command{
	Use:   "airtable-export-desk",
	Short: "Edit, validate and run Airtable export configs",
	Long: `
airtable-export-desk manages the JSON configs that describe which Airtable tables
are exported to Tableau Hyper files. It serves a web editor that checks each
config before saving, and offers the same checks on the command line.
`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := args.ValidateArgs(); err != nil {
			return err
		}
		fsops.SetDryRun(viper.GetBool("DRY_RUN"))
		exporter.ResetMocks()
		exporter.LoadMocks()
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWebUI()
	},
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

var cfgFile string

func init() {
	SetArguments()
	rootCmd.Long += "\nAvailable Configuration Variables:\n" + args.GenerateArgsHelp() + `

Usage:
  Use the --config flag to specify a configuration file, or set the above variables in the environment, a .env file or a Viper-compatible config file.
`
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.airtable-export-desk.yaml)")
	rootCmd.PersistentFlags().Bool("dry-run", false, "log store writes and export runs instead of performing them")
	rootCmd.PersistentFlags().IntP("port", "p", 8080, "port for the web UI")
	cobra.CheckErr(viper.BindPFlag("DRY_RUN", rootCmd.PersistentFlags().Lookup("dry-run")))
	cobra.CheckErr(viper.BindPFlag("PORT", rootCmd.PersistentFlags().Lookup("port")))
}

func initConfig() {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			log.Fatalf("Config file does not exist: %s", cfgFile)
		}
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Could not determine home directory: %v", err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".airtable-export-desk")
	}

	args.SetDefaults()
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		log.Infof("Using config file: %s", viper.ConfigFileUsed())
	}

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	if level, err := log.ParseLevel(viper.GetString("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	currentDir, err := os.Getwd()
	if err != nil {
		log.Warnf("Could not determine current directory: %v", err)
		return
	}

	logPath := filepath.Join(currentDir, "airtable-export-desk.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Warnf("Could not open log file: %v", err)
		return
	}
	log.SetOutput(logFile)
	logConfigValues()
}

func logConfigValues() {
	log.Info("Configuration values:")
	for _, key := range viper.AllKeys() {
		value := viper.Get(key)
		if args.IsSecret(key) && fmt.Sprint(value) != "" {
			value = "---redacted---"
		}
		log.Infof("%s: %v", key, value)
	}
}
