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

// Package tui is a terminal editor for a single stored config. Ctrl-S runs
// the same validation as the web editor before saving.
package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	log "github.com/sirupsen/logrus"

	"github.com/tablesync/airtable-export/pkg/config"
	"github.com/tablesync/airtable-export/pkg/editor"
	"github.com/tablesync/airtable-export/pkg/store"
)

const (
	editorPage = "editor"
	errorPage  = "error"
	helpText   = "[yellow]Ctrl-S[white] validate & save  [yellow]Ctrl-F[white] format  [yellow]Ctrl-Q[white] quit"
)

// textAreaBuffer exposes the text area as the bridge's buffer.
type textAreaBuffer struct {
	area *tview.TextArea
}

func (b textAreaBuffer) Value() string {
	return b.area.GetText()
}

type Editor struct {
	ctx    context.Context
	name   string
	store  store.Store
	app    *tview.Application
	pages  *tview.Pages
	area   *tview.TextArea
	status *tview.TextView
	bridge *editor.Bridge
}

// New opens name from st in an editor. The text is shown indented when it
// parses as JSON and as stored otherwise.
func New(ctx context.Context, st store.Store, name string, v *config.Validator) (*Editor, error) {
	data, err := st.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if pretty, err := config.Indent(data); err == nil {
		data = pretty
	}

	e := &Editor{
		ctx:    ctx,
		name:   name,
		store:  st,
		app:    tview.NewApplication(),
		pages:  tview.NewPages(),
		area:   tview.NewTextArea(),
		status: tview.NewTextView(),
	}

	opts := editor.DefaultOptions()
	e.area.SetText(string(data), false)
	e.area.SetBorder(true)
	e.area.SetTitle(fmt.Sprintf(" %s (%s) ", name, opts.Mode))
	if opts.UseSoftTabs {
		e.area.SetInputCapture(softTabs(e.area))
	}

	e.status.SetDynamicColors(true)
	e.status.SetText(helpText)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(e.area, 0, 1, true).
		AddItem(e.status, 1, 0, false)
	e.pages.AddPage(editorPage, layout, true, true)

	e.bridge = editor.NewBridge(textAreaBuffer{area: e.area}, editor.WithValidator(v))
	e.app.SetRoot(e.pages, true).SetFocus(e.area)
	e.app.SetInputCapture(e.handleKey)
	return e, nil
}

// softTabs replaces Tab with two spaces.
func softTabs(area *tview.TextArea) func(*tcell.EventKey) *tcell.EventKey {
	return func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyTab {
			_, from, to := area.GetSelection()
			area.Replace(from, to, "  ")
			return nil
		}
		return event
	}
}

func (e *Editor) Run() error {
	return e.app.Run()
}

func (e *Editor) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if e.pages.HasPage(errorPage) {
		return event
	}
	switch event.Key() {
	case tcell.KeyCtrlS:
		_ = e.Save()
		return nil
	case tcell.KeyCtrlF:
		e.Format()
		return nil
	case tcell.KeyCtrlQ:
		e.app.Stop()
		return nil
	}
	return event
}

// Save validates the buffer and stores it indented. A validation failure is
// shown in a dialog and nothing is written.
func (e *Editor) Save() error {
	form := editor.Fields{}
	if err := e.bridge.ValidateAndSubmit(form); err != nil {
		e.showError(err.Error())
		return err
	}

	pretty, err := config.Indent([]byte(form[editor.JSONField]))
	if err != nil {
		e.showError(fmt.Sprintf("❌ Invalid JSON: %v", err))
		return err
	}
	if err := e.store.Put(e.ctx, e.name, pretty); err != nil {
		log.Errorf("Failed to save %s: %v", e.name, err)
		e.showError(fmt.Sprintf("❌ Failed to save %s: %v", e.name, err))
		return err
	}

	log.Infof("Saved config %s", e.name)
	e.area.SetText(string(pretty), false)
	e.status.SetText(fmt.Sprintf("[green]✅ Successfully saved changes to %s.[white]  %s", e.name, helpText))
	return nil
}

// Format re-indents the buffer when it parses as JSON.
func (e *Editor) Format() {
	pretty, err := config.Indent([]byte(e.area.GetText()))
	if err != nil {
		e.status.SetText(fmt.Sprintf("[red]❌ Invalid JSON: %s[white]", tview.Escape(err.Error())))
		return
	}
	e.area.SetText(string(pretty), false)
}

func (e *Editor) showError(message string) {
	modal := tview.NewModal().
		SetText(tview.Escape(message)).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) {
			e.pages.RemovePage(errorPage)
			e.app.SetFocus(e.area)
		})
	e.pages.AddPage(errorPage, modal, false, true)
	e.app.SetFocus(modal)
}
