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
	"fmt"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Arg struct {
	Key          string
	Default      interface{}
	Description  string
	Type         string
	Options      []string
	Dependencies string // Comma-separated conditions like "STORE=configmap"
	Secret       bool
	Validators   []func(value string) error
}

var Arguments []Arg

func SetArguments(args []Arg) {
	Arguments = args
}

// SetDefaults registers every argument's default with viper.
func SetDefaults() {
	for _, arg := range Arguments {
		viper.SetDefault(arg.Key, arg.Default)
	}
}

// parseDependency parses a single dependency string like "STORE=configmap"
func parseDependency(depStr string) (argName string, expectedValue string, ok bool) {
	parts := strings.SplitN(depStr, "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

func evaluateDependency(depStr string) bool {
	argName, expectedValue, ok := parseDependency(depStr)
	if !ok {
		return false
	}

	if expectedValue == "true" {
		return viper.GetBool(argName)
	}
	if expectedValue == "false" {
		return !viper.GetBool(argName)
	}

	return viper.GetString(argName) == expectedValue
}

func IsArgUsed(arg Arg) bool {
	if arg.Dependencies == "" {
		return true
	}

	for _, dep := range strings.Split(arg.Dependencies, ",") {
		dep = strings.TrimSpace(dep)
		if dep == "" {
			continue
		}
		if !evaluateDependency(dep) {
			return false
		}
	}
	return true
}

// IsSecret reports whether the value of key must not be logged.
func IsSecret(key string) bool {
	for _, arg := range Arguments {
		if strings.EqualFold(arg.Key, key) {
			return arg.Secret
		}
	}
	return false
}

func GenerateArgsHelp() string {
	var helpLines []string

	for _, arg := range Arguments {
		// Format: - KEY: Description (default: value).
		defaultStr := fmt.Sprintf("%v", arg.Default)
		if arg.Type == "string" || arg.Type == "non-empty-string" || arg.Type == "dir" || arg.Type == "enum" {
			defaultStr = fmt.Sprintf("\"%s\"", defaultStr)
		}

		helpLine := fmt.Sprintf("  - %s: %s (default: %s).", arg.Key, arg.Description, defaultStr)
		helpLines = append(helpLines, helpLine)
	}

	return strings.Join(helpLines, "\n")
}

// ValidateURL validates a URL string
func ValidateURL(urlStr string) error {
	if urlStr == "" {
		return nil
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL format: %v", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// ValidatePort validates a TCP port number
func ValidatePort(portStr string) error {
	port, err := strconv.Atoi(strings.TrimSpace(portStr))
	if err != nil {
		return fmt.Errorf("invalid port: %s", portStr)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port out of range (1-65535): %d", port)
	}
	return nil
}

// ValidateBool validates a boolean input string
func ValidateBool(input string) error {
	lower := strings.ToLower(strings.TrimSpace(input))
	validValues := []string{"true", "false", "t", "f", "yes", "no", "y", "n", "1", "0"}
	for _, v := range validValues {
		if lower == v {
			return nil
		}
	}
	return fmt.Errorf("invalid boolean value. Please enter: true/false, yes/no, y/n, or 1/0")
}

// ValidateLogLevel checks the value against the logrus level names.
func ValidateLogLevel(level string) error {
	if level == "" {
		return nil
	}
	if _, err := log.ParseLevel(level); err != nil {
		return err
	}
	return nil
}

func ValidateArgs() error {
	var errors []string

	for _, arg := range Arguments {
		value := viper.GetString(arg.Key)

		if !IsArgUsed(arg) {
			continue
		}

		required := strings.HasPrefix(arg.Type, "non-empty-")
		baseType := strings.TrimPrefix(arg.Type, "non-empty-")

		switch baseType {
		case "bool":
			if value != "" {
				if err := ValidateBool(value); err != nil {
					errors = append(errors, fmt.Sprintf("%s: %v", arg.Key, err))
				}
			}
		case "port":
			if err := ValidatePort(value); err != nil {
				errors = append(errors, fmt.Sprintf("%s: %v", arg.Key, err))
			}
		case "url":
			if err := ValidateURL(value); err != nil {
				errors = append(errors, fmt.Sprintf("%s: %v", arg.Key, err))
			}
		case "enum":
			if len(arg.Options) > 0 {
				validOption := false
				for _, option := range arg.Options {
					if value == option {
						validOption = true
						break
					}
				}
				if !validOption {
					errors = append(errors, fmt.Sprintf("%s: must be one of %v, got: %s", arg.Key, arg.Options, value))
				}
			}
		case "string", "dir":
		}

		for _, validator := range arg.Validators {
			if err := validator(value); err != nil {
				errors = append(errors, fmt.Sprintf("%s: %v", arg.Key, err))
			}
		}

		if required && value == "" {
			errors = append(errors, fmt.Sprintf("%s is required", arg.Key))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}
