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

package editor

import (
	"bytes"
	"fmt"
	"text/template"

	gojson "github.com/goccy/go-json"
)

var scriptTemplate = template.Must(template.New("init_editor.js").Funcs(template.FuncMap{
	"js": func(v any) (string, error) {
		data, err := gojson.Marshal(v)
		return string(data), err
	},
}).Parse(`document.addEventListener("DOMContentLoaded", function () {
  if (!document.getElementById({{js .Options.Container}})) {
    return;
  }
  const editor = ace.edit({{js .Options.Container}});
  editor.session.setMode({{js .Options.Mode}});
  editor.setTheme({{js .Options.Theme}});
  editor.session.setUseWorker({{js .Options.UseWorker}});
  editor.setOptions({{js .Options}});

  const form = document.querySelector("form");
  form.addEventListener("submit", function (event) {
    const text = editor.getValue();
    document.getElementById({{js .ConfigField}}).value = text;
    if (!{{js .Validate}}) {
      return;
    }
    event.preventDefault();
    fetch({{js .ValidateURL}}, {
      method: "POST",
      headers: { "Content-Type": "text/plain; charset=utf-8" },
      body: text,
    })
      .then(function (response) { return response.json(); })
      .then(function (result) {
        if (!result.valid) {
          alert(result.error.message);
          return;
        }
        document.getElementById({{js .JSONField}}).value = text;
        form.submit();
      })
      .catch(function (err) {
        alert("❌ " + err);
      });
  });
});
`))

// Script renders the page script for the widget. When validateURL is empty the
// script only copies the text into config_data on submit; otherwise it posts
// the text to validateURL first and cancels the submission on failure.
func (b *Bridge) Script(validateURL string) ([]byte, error) {
	var buf bytes.Buffer
	err := scriptTemplate.Execute(&buf, struct {
		Options     Options
		ConfigField string
		JSONField   string
		Validate    bool
		ValidateURL string
	}{
		Options:     b.options,
		ConfigField: ConfigField,
		JSONField:   JSONField,
		Validate:    validateURL != "",
		ValidateURL: validateURL,
	})
	if err != nil {
		return nil, fmt.Errorf("render editor script: %w", err)
	}
	return buf.Bytes(), nil
}
