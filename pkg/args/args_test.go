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

package args

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func init() {
	SetArguments([]Arg{
		{Key: "PORT", Default: 8080, Description: "Port the web UI listens on.", Type: "port"},
		{Key: "CONFIG_DIR", Default: "configs", Description: "Directory holding config files.", Type: "dir", Dependencies: "STORE=file"},
		{Key: "STORE", Default: "file", Description: "Config storage backend.", Type: "enum", Options: []string{"file", "configmap"}},
		{Key: "KUBE_NAMESPACE", Default: "", Description: "Namespace for config ConfigMaps.", Type: "non-empty-string", Dependencies: "STORE=configmap"},
		{Key: "AIRTABLE_API_KEY", Default: "", Description: "Airtable API key.", Type: "string", Secret: true},
		{Key: "AIRTABLE_URL", Default: "https://api.airtable.com", Description: "Airtable API base URL.", Type: "url"},
		{Key: "LOG_LEVEL", Default: "info", Description: "Log level.", Type: "string", Validators: []func(value string) error{ValidateLogLevel}},
		{Key: "STRICT_FIELDS", Default: false, Description: "Require required fields to be non-empty strings.", Type: "bool"},
	})
}

func resetViper(t *testing.T) {
	t.Helper()
	originalViper := viper.AllSettings()
	t.Cleanup(func() {
		viper.Reset()
		for k, v := range originalViper {
			viper.Set(k, v)
		}
	})
}

func TestIsArgUsed(t *testing.T) {
	resetViper(t)

	tests := []struct {
		name       string
		arg        Arg
		viperSetup map[string]interface{}
		wantUsed   bool
	}{
		{
			name:       "No dependencies - always used",
			arg:        Arg{Key: "PORT"},
			viperSetup: map[string]interface{}{},
			wantUsed:   true,
		},
		{
			name:       "Dependency satisfied - equals specific value",
			arg:        Arg{Key: "KUBE_NAMESPACE", Dependencies: "STORE=configmap"},
			viperSetup: map[string]interface{}{"STORE": "configmap"},
			wantUsed:   true,
		},
		{
			name:       "Dependency not satisfied - equals specific value",
			arg:        Arg{Key: "KUBE_NAMESPACE", Dependencies: "STORE=configmap"},
			viperSetup: map[string]interface{}{"STORE": "file"},
			wantUsed:   false,
		},
		{
			name:       "Dependency satisfied - equals false",
			arg:        Arg{Key: "X", Dependencies: "STRICT_FIELDS=false"},
			viperSetup: map[string]interface{}{"STRICT_FIELDS": false},
			wantUsed:   true,
		},
		{
			name:       "Multiple dependencies - one not satisfied",
			arg:        Arg{Key: "X", Dependencies: "STRICT_FIELDS=true,STORE=configmap"},
			viperSetup: map[string]interface{}{"STRICT_FIELDS": true, "STORE": "file"},
			wantUsed:   false,
		},
		{
			name:       "Malformed dependency",
			arg:        Arg{Key: "X", Dependencies: "STORE"},
			viperSetup: map[string]interface{}{},
			wantUsed:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			for k, v := range tt.viperSetup {
				viper.Set(k, v)
			}

			result := IsArgUsed(tt.arg)
			if result != tt.wantUsed {
				t.Errorf("IsArgUsed() = %v, want %v", result, tt.wantUsed)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		port    string
		wantErr bool
	}{
		{"8080", false},
		{"1", false},
		{"65535", false},
		{"0", true},
		{"65536", true},
		{"http", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			err := ValidatePort(tt.port)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePort(%q) error = %v, wantErr %v", tt.port, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"", false},
		{"https://api.airtable.com", false},
		{"http://localhost:9000", false},
		{"ftp://invalid.com", true},
		{"https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateBool(t *testing.T) {
	for _, v := range []string{"true", "False", " yes ", "n", "1", "0"} {
		if err := ValidateBool(v); err != nil {
			t.Errorf("ValidateBool(%q) unexpected error: %v", v, err)
		}
	}
	if err := ValidateBool("maybe"); err == nil {
		t.Error("ValidateBool(\"maybe\") expected error")
	}
}

func TestValidateArgs(t *testing.T) {
	resetViper(t)

	tests := []struct {
		name    string
		config  map[string]interface{}
		wantErr string
	}{
		{
			name:   "Valid file store config",
			config: map[string]interface{}{"PORT": 8080, "STORE": "file", "CONFIG_DIR": "configs"},
		},
		{
			name:   "Valid configmap store config",
			config: map[string]interface{}{"PORT": "9000", "STORE": "configmap", "KUBE_NAMESPACE": "exports", "LOG_LEVEL": "debug"},
		},
		{
			name:    "Missing namespace for configmap store",
			config:  map[string]interface{}{"PORT": 8080, "STORE": "configmap"},
			wantErr: "KUBE_NAMESPACE is required",
		},
		{
			name:    "Unknown store",
			config:  map[string]interface{}{"PORT": 8080, "STORE": "s3"},
			wantErr: "STORE: must be one of",
		},
		{
			name:    "Invalid port",
			config:  map[string]interface{}{"PORT": 70000, "STORE": "file"},
			wantErr: "PORT: port out of range",
		},
		{
			name:    "Invalid log level",
			config:  map[string]interface{}{"PORT": 8080, "STORE": "file", "LOG_LEVEL": "loud"},
			wantErr: "LOG_LEVEL:",
		},
		{
			name:    "Invalid URL",
			config:  map[string]interface{}{"PORT": 8080, "STORE": "file", "AIRTABLE_URL": "ftp://invalid.com"},
			wantErr: "AIRTABLE_URL: invalid URL scheme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			for k, v := range tt.config {
				viper.Set(k, v)
			}

			err := ValidateArgs()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateArgs() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateArgs() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	resetViper(t)
	viper.Reset()

	SetDefaults()

	if got := viper.GetInt("PORT"); got != 8080 {
		t.Errorf("PORT default = %d, want 8080", got)
	}
	if got := viper.GetString("STORE"); got != "file" {
		t.Errorf("STORE default = %q, want file", got)
	}
	if err := ValidateArgs(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestIsSecret(t *testing.T) {
	if !IsSecret("airtable_api_key") {
		t.Error("AIRTABLE_API_KEY should be secret")
	}
	if IsSecret("PORT") || IsSecret("UNKNOWN") {
		t.Error("PORT and unknown keys should not be secret")
	}
}

func TestGenerateArgsHelp(t *testing.T) {
	help := GenerateArgsHelp()

	if help == "" {
		t.Error("GenerateArgsHelp() returned empty string")
	}

	for _, want := range []string{
		"  - PORT: Port the web UI listens on. (default: 8080).",
		"  - STORE: Config storage backend. (default: \"file\").",
		"KUBE_NAMESPACE",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("GenerateArgsHelp() does not contain %q", want)
		}
	}
}
