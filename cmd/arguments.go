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
	"github.com/tablesync/airtable-export/pkg/args"
	"github.com/tablesync/airtable-export/pkg/exporter"
)

func SetArguments() {
	args.SetArguments([]args.Arg{
		// Web UI
		{
			Key:         "PORT",
			Default:     8080,
			Description: "Port the web UI listens on.",
			Type:        "port",
		},
		{
			Key:         "LOCALHOST_ONLY",
			Default:     true,
			Description: "Only answer requests addressed to localhost.",
			Type:        "bool",
		},
		{
			Key:         "CORS_ORIGINS",
			Default:     "*",
			Description: "Comma-separated origins allowed to call /api.",
			Type:        "string",
		},
		{
			Key:         "SESSION_SECRET",
			Default:     "",
			Description: "Key for signing flash message cookies. A random key is used when empty.",
			Type:        "string",
			Secret:      true,
		},
		{
			Key:         "OUTPUT_DIR",
			Default:     "output",
			Description: "Directory the exporter writes .hyper files to.",
			Type:        "dir",
		},

		// Config storage
		{
			Key:         "STORE",
			Default:     "file",
			Description: "Where configs are kept: 'file' or 'configmap'.",
			Type:        "enum",
			Options:     []string{"file", "configmap"},
		},
		{
			Key:          "CONFIG_DIR",
			Default:      "configs",
			Description:  "Directory holding config files.",
			Type:         "dir",
			Dependencies: "STORE=file",
		},
		{
			Key:          "KUBECONFIG",
			Default:      "",
			Description:  "Kubeconfig for the ConfigMap store. In-cluster config is used when empty.",
			Type:         "string",
			Dependencies: "STORE=configmap",
		},
		{
			Key:          "KUBE_NAMESPACE",
			Default:      "default",
			Description:  "Namespace holding config ConfigMaps.",
			Type:         "non-empty-string",
			Dependencies: "STORE=configmap",
		},

		// Airtable and export
		{
			Key:         "AIRTABLE_API_KEY",
			Default:     "",
			Description: "Airtable personal access token used for field metadata.",
			Type:        "string",
			Secret:      true,
		},
		{
			Key:         "AIRTABLE_URL",
			Default:     "https://api.airtable.com",
			Description: "Airtable API base URL.",
			Type:        "non-empty-url",
		},
		{
			Key:         "EXPORT_COMMAND",
			Default:     exporter.DefaultCommand,
			Description: "Python exporter executable run by the web UI. Must not be this program.",
			Type:        "non-empty-string",
		},

		// Behaviour
		{
			Key:         "STRICT_FIELDS",
			Default:     false,
			Description: "Require required config fields to be non-empty strings instead of any truthy value.",
			Type:        "bool",
		},
		{
			Key:         "DRY_RUN",
			Default:     false,
			Description: "Log store writes and export runs instead of performing them.",
			Type:        "bool",
		},
		{
			Key:         "LOG_LEVEL",
			Default:     "info",
			Description: "Log level (debug, info, warn, error).",
			Type:        "string",
			Validators:  []func(value string) error{args.ValidateLogLevel},
		},
	})
}
