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

package webui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/tablesync/airtable-export/pkg/args"
	"github.com/tablesync/airtable-export/pkg/config"
	"github.com/tablesync/airtable-export/pkg/editor"
	"github.com/tablesync/airtable-export/pkg/fsops"
	"github.com/tablesync/airtable-export/pkg/store"
)

const maxUploadSize = 5 << 20

type outputFile struct {
	Name      string
	TableName string
	SizeHuman string
	Modified  time.Time
}

type exportCommand struct {
	config.TableRef
	Command string
}

type fieldInfo struct {
	Name       string
	Type       string
	ColumnType string
}

type tableMetadata struct {
	BaseID    string
	TableName string
	Fields    []fieldInfo
	Error     string
}

func (s *Server) render(c *gin.Context, name string, data gin.H) {
	data["Flashes"] = s.flashes(c)
	c.HTML(http.StatusOK, name, data)
}

func (s *Server) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

func viewURL(filename string) string {
	return "/configs/view/" + url.PathEscape(filename)
}

func (s *Server) index(c *gin.Context) {
	entries, err := s.store.List(c.Request.Context())
	if err != nil {
		log.Errorf("Failed to list configs: %v", err)
		s.flash(c, FlashDanger, fmt.Sprintf("❌ Failed to list config files: %v", err))
	}
	s.render(c, "index.html", gin.H{
		"Title":   "Home",
		"Configs": entries,
		"Outputs": s.outputFiles(c, entries),
	})
}

// outputFiles lists the exported files with the table that produced them.
func (s *Server) outputFiles(c *gin.Context, entries []store.Entry) []outputFile {
	files, err := os.ReadDir(s.outputDir)
	if err != nil {
		return nil
	}

	var configs [][]byte
	for _, e := range entries {
		data, err := s.store.Get(c.Request.Context(), e.Name)
		if err != nil {
			continue
		}
		configs = append(configs, data)
	}

	var out []outputFile
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".hyper") {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		out = append(out, outputFile{
			Name:      f.Name(),
			TableName: config.TableNameForFile(configs, f.Name(), ""),
			SizeHuman: store.HumanSize(info.Size()),
			Modified:  info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Server) listConfigs(c *gin.Context) {
	entries, err := s.store.List(c.Request.Context())
	if err != nil {
		log.Errorf("Failed to list configs: %v", err)
		s.flash(c, FlashDanger, fmt.Sprintf("❌ Failed to list config files: %v", err))
	}
	s.render(c, "config_list.html", gin.H{
		"Title":   "Configs",
		"Configs": entries,
	})
}

func (s *Server) viewConfig(c *gin.Context) {
	ctx := c.Request.Context()
	filename := c.Param("filename")

	data, err := s.store.Get(ctx, filename)
	if err != nil {
		s.flashStoreError(c, err)
		s.redirect(c, "/configs")
		return
	}
	entry, err := s.store.Stat(ctx, filename)
	if err != nil {
		log.Warnf("Failed to stat %s: %v", filename, err)
	}

	contents := string(data)
	if pretty, err := config.Indent(data); err == nil {
		contents = string(pretty)
	}

	var commands []exportCommand
	var metadata []tableMetadata
	for _, ref := range config.TableRefs(data) {
		commands = append(commands, exportCommand{
			TableRef: ref,
			Command:  s.commandLine(filename, ref.Profile),
		})
		if ref.Profile == config.DefaultProfile {
			metadata = append(metadata, s.tableMetadata(c, ref))
		}
	}

	s.render(c, "config_view.html", gin.H{
		"Title":    filename,
		"Filename": filename,
		"Config":   contents,
		"FileInfo": entry,
		"Commands": commands,
		"Metadata": metadata,
	})
}

func (s *Server) commandLine(filename, profile string) string {
	configPath := filepath.Join("configs", filename)
	if s.exporter == nil {
		return fmt.Sprintf("airtable-export export --config %s --profile %s", configPath, profile)
	}
	return s.exporter.CommandLine(configPath, profile)
}

// tableMetadata fetches field metadata for one table. Failures are recorded
// on the result so the rest of the page still renders.
func (s *Server) tableMetadata(c *gin.Context, ref config.TableRef) tableMetadata {
	meta := tableMetadata{BaseID: ref.BaseID, TableName: ref.TableName}
	if s.metadata == nil {
		meta.Error = "Airtable metadata is not configured"
		return meta
	}
	fields, err := s.metadata.TableFields(c.Request.Context(), ref.BaseID, ref.TableName)
	if err != nil {
		meta.Error = err.Error()
		return meta
	}
	for _, f := range fields {
		meta.Fields = append(meta.Fields, fieldInfo{Name: f.Name, Type: f.Type, ColumnType: config.ColumnType(f.Type)})
	}
	return meta
}

func (s *Server) editConfig(c *gin.Context) {
	ctx := c.Request.Context()
	filename := c.Param("filename")

	if _, err := s.store.Stat(ctx, filename); err != nil {
		s.flashStoreError(c, err)
		s.redirect(c, "/configs")
		return
	}

	form := editor.Fields{}
	bridge := editor.NewBridge(editor.StaticBuffer(c.PostForm(editor.ConfigField)), editor.WithValidator(s.validator))
	if err := bridge.ValidateAndSubmit(form); err != nil {
		s.flash(c, FlashDanger, err.Error())
		s.redirect(c, viewURL(filename))
		return
	}

	pretty, err := config.Indent([]byte(form[editor.JSONField]))
	if err != nil {
		s.flash(c, FlashDanger, fmt.Sprintf("❌ Invalid JSON: %v", err))
		s.redirect(c, viewURL(filename))
		return
	}
	if err := s.store.Put(ctx, filename, pretty); err != nil {
		log.Errorf("Failed to save %s: %v", filename, err)
		s.flash(c, FlashDanger, fmt.Sprintf("❌ Failed to save %s: %v", filename, err))
		s.redirect(c, viewURL(filename))
		return
	}

	log.Infof("Saved config %s", filename)
	s.flash(c, FlashSuccess, fmt.Sprintf("✅ Successfully saved changes to %s.", filename))
	s.redirect(c, viewURL(filename))
}

func (s *Server) createConfigForm(c *gin.Context) {
	s.render(c, "config_create.html", gin.H{"Title": "Create config"})
}

func (s *Server) createConfig(c *gin.Context) {
	ctx := c.Request.Context()
	description := strings.TrimSpace(c.PostForm("description"))
	baseID := strings.TrimSpace(c.PostForm("base_id"))
	tableName := strings.TrimSpace(c.PostForm("table_name"))
	filename := strings.TrimSpace(c.PostForm("filename"))

	if description == "" || baseID == "" || tableName == "" || filename == "" {
		s.flash(c, FlashDanger, "All fields are required.")
		s.redirect(c, "/configs/create")
		return
	}
	if err := store.ValidName(filename); err != nil {
		s.flash(c, FlashDanger, "Invalid file type. Only .json config files are allowed.")
		s.redirect(c, "/configs/create")
		return
	}
	if _, err := s.store.Stat(ctx, filename); err == nil {
		s.flash(c, FlashDanger, "A config file with that name already exists.")
		s.redirect(c, "/configs/create")
		return
	}

	data, err := BuildConfig(ctx, s.metadata, description, baseID, tableName)
	if err == nil {
		err = s.store.Create(ctx, filename, data)
	}
	if err != nil {
		log.Errorf("Failed to create config %s: %v", filename, err)
		s.flash(c, FlashDanger, fmt.Sprintf("Error creating config: %v", err))
		s.redirect(c, "/configs/create")
		return
	}

	log.Infof("Created config %s for %s/%s", filename, baseID, tableName)
	s.flash(c, FlashSuccess, fmt.Sprintf("Config '%s' created successfully.", filename))
	s.redirect(c, viewURL(filename))
}

// BuildConfig fetches the table's fields and returns an indented config with
// a "default" profile holding one column per field.
func BuildConfig(ctx context.Context, meta Metadata, description, baseID, tableName string) ([]byte, error) {
	if meta == nil {
		return nil, errors.New("airtable metadata is not configured")
	}
	fields, err := meta.TableFields(ctx, baseID, tableName)
	if err != nil {
		return nil, err
	}

	columns := make([]config.Column, 0, len(fields))
	for _, f := range fields {
		columns = append(columns, config.Column{Source: f.Name, Type: config.ColumnType(f.Type)})
	}

	compact, err := config.NewDocument(description, baseID, tableName, columns).MarshalJSON()
	if err != nil {
		return nil, err
	}
	return config.Indent(compact)
}

func (s *Server) uploadConfigForm(c *gin.Context) {
	s.render(c, "upload_config.html", gin.H{"Title": "Upload config"})
}

func (s *Server) uploadConfig(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil || store.ValidName(file.Filename) != nil {
		s.flash(c, FlashDanger, "Invalid file type. Only .json config files are allowed.")
		s.redirect(c, "/")
		return
	}

	data, err := readUpload(file)
	if err == nil {
		err = s.store.Put(c.Request.Context(), file.Filename, data)
	}
	if err != nil {
		log.Errorf("Failed to upload %s: %v", file.Filename, err)
		s.flash(c, FlashDanger, fmt.Sprintf("❌ Failed to upload config file: %v", err))
		s.redirect(c, "/")
		return
	}

	s.flash(c, FlashSuccess, fmt.Sprintf("Config file '%s' uploaded successfully!", file.Filename))
	if err := s.validator.Validate(string(data)); err != nil {
		s.flash(c, FlashWarning, err.Error())
	}
	s.redirect(c, "/")
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	filename := header.Filename
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", filename, err)
	}
	if len(data) > maxUploadSize {
		return nil, fmt.Errorf("%s is larger than %s", filename, store.HumanSize(maxUploadSize))
	}
	return data, nil
}

func (s *Server) deleteConfig(c *gin.Context) {
	filename := c.Param("filename")
	if !strings.HasSuffix(filename, ".json") {
		s.flash(c, FlashDanger, "Only JSON config files can be deleted.")
		s.redirect(c, "/")
		return
	}

	err := s.store.Delete(c.Request.Context(), filename)
	switch {
	case err == nil:
		log.Infof("Deleted config %s", filename)
		s.flash(c, FlashSuccess, fmt.Sprintf("🗑️ Deleted config file: %s", filename))
	case errors.Is(err, store.ErrNotFound):
		s.flash(c, FlashWarning, "Config file not found.")
	default:
		log.Errorf("Failed to delete %s: %v", filename, err)
		s.flash(c, FlashDanger, fmt.Sprintf("❌ Failed to delete config file: %v", err))
	}
	s.redirect(c, "/")
}

func (s *Server) runExportView(c *gin.Context) {
	filename := c.Param("filename")
	profile := c.Param("profile")
	if profile == "" {
		profile = config.DefaultProfile
	}
	s.render(c, "run_export.html", gin.H{
		"Title":     "Export " + filename,
		"Filename":  filename,
		"Profile":   profile,
		"Command":   s.commandLine(filename, profile),
		"StreamURL": "/configs/stream/" + url.PathEscape(filename) + "?profile=" + url.QueryEscape(profile),
	})
}

func (s *Server) download(c *gin.Context) {
	folder := c.Param("folder")
	filename := c.Param("filename")

	switch folder {
	case "configs":
		data, err := s.store.Get(c.Request.Context(), filename)
		if err != nil {
			s.flashStoreError(c, err)
			s.redirect(c, "/")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/json", data)
	case "output":
		if filepath.Base(filename) != filename || strings.HasPrefix(filename, ".") {
			s.flash(c, FlashDanger, "Invalid file name.")
			s.redirect(c, "/")
			return
		}
		path := filepath.Join(s.outputDir, filename)
		if _, err := os.Stat(path); err != nil {
			s.flash(c, FlashDanger, "Output file not found.")
			s.redirect(c, "/")
			return
		}
		c.FileAttachment(path, filename)
	default:
		s.flash(c, FlashDanger, "Invalid folder.")
		s.redirect(c, "/")
	}
}

func (s *Server) help(c *gin.Context) {
	s.render(c, "help.html", gin.H{
		"Title":    "Help",
		"Settings": args.GenerateArgsHelp(),
	})
}

func (s *Server) editorScript(c *gin.Context) {
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", s.script)
}

func (s *Server) flashStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrInvalidName):
		s.flash(c, FlashDanger, "Config file not found.")
	default:
		log.Errorf("Config store error: %v", err)
		s.flash(c, FlashDanger, fmt.Sprintf("❌ %v", err))
	}
}

// materialize returns a path the exporter can read the config from, and a
// cleanup func for any temporary copy.
func (s *Server) materialize(c *gin.Context, filename string) (string, func(), error) {
	if fs, ok := s.store.(*store.FileStore); ok {
		if _, err := fs.Stat(c.Request.Context(), filename); err != nil {
			return "", nil, err
		}
		return fs.Path(filename), func() {}, nil
	}

	data, err := s.store.Get(c.Request.Context(), filename)
	if err != nil {
		return "", nil, err
	}
	path, err := fsops.CreateTemp("airtable-export-*.json", data)
	if err != nil {
		return "", nil, err
	}
	return path, func() {
		if err := os.Remove(path); err != nil {
			log.Warnf("Failed to remove %s: %v", path, err)
		}
	}, nil
}
