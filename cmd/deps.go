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
	"strings"

	"github.com/gorilla/securecookie"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/tablesync/airtable-export/pkg/airtable"
	"github.com/tablesync/airtable-export/pkg/config"
	"github.com/tablesync/airtable-export/pkg/store"
)

// newStore opens the backend selected by STORE.
func newStore() (store.Store, error) {
	switch backend := viper.GetString("STORE"); backend {
	case "file", "":
		return store.NewFileStore(viper.GetString("CONFIG_DIR"))
	case "configmap":
		return store.NewConfigMapStoreFromKubeconfig(viper.GetString("KUBECONFIG"), viper.GetString("KUBE_NAMESPACE"))
	default:
		return nil, fmt.Errorf("unknown STORE %q: must be one of file, configmap", backend)
	}
}

func newValidator() *config.Validator {
	if viper.GetBool("STRICT_FIELDS") {
		return config.NewValidator(config.WithPresence(config.NonEmptyString))
	}
	return config.NewValidator()
}

func newAirtableClient() *airtable.Client {
	return airtable.NewClient(viper.GetString("AIRTABLE_API_KEY"), airtable.WithBaseURL(viper.GetString("AIRTABLE_URL")))
}

func sessionSecret() string {
	if secret := viper.GetString("SESSION_SECRET"); secret != "" {
		return secret
	}
	log.Warn("SESSION_SECRET is not set, flash messages will not survive a restart")
	return string(securecookie.GenerateRandomKey(32))
}

func corsOrigins() []string {
	var origins []string
	for _, o := range strings.Split(viper.GetString("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
