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
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/tablesync/airtable-export/pkg/config"
	"github.com/tablesync/airtable-export/pkg/store"
)

// validate checks the raw request body. Invalid configs are still a 200: the
// result is in the body.
func (s *Server) validate(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadSize+1))
	if err != nil {
		Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	if len(body) > maxUploadSize {
		Fail(c, http.StatusRequestEntityTooLarge,
			fmt.Errorf("request body is larger than %s", store.HumanSize(maxUploadSize)), "Config too large to validate")
		return
	}
	c.JSON(http.StatusOK, config.NewValidateResponse(s.validator.Validate(string(body))))
}

func (s *Server) apiListConfigs(c *gin.Context) {
	entries, err := s.store.List(c.Request.Context())
	if err != nil {
		Fail(c, http.StatusInternalServerError, err, "Failed to list config files")
		return
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	Success(c, http.StatusOK, entries, "")
}

// apiTables returns the tables an export of ?profile= would run.
func (s *Server) apiTables(c *gin.Context) {
	filename := c.Param("filename")
	data, err := s.store.Get(c.Request.Context(), filename)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidName) {
			status = http.StatusNotFound
		}
		Fail(c, status, err, "Failed to read config file")
		return
	}

	tables, err := config.LoadProfile(data, c.DefaultQuery("profile", config.DefaultProfile))
	if err != nil {
		Fail(c, http.StatusUnprocessableEntity, err, "Failed to load profile")
		return
	}
	Success(c, http.StatusOK, tables, "")
}

type flushWriter struct {
	w gin.ResponseWriter
}

func (f flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	f.w.Flush()
	return n, err
}

// streamExport runs the exporter and streams its combined output as text.
func (s *Server) streamExport(c *gin.Context) {
	filename := c.Param("filename")
	profile := c.DefaultQuery("profile", config.DefaultProfile)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)
	w := flushWriter{w: c.Writer}

	fmt.Fprintf(w, "▶️ Running export for `%s` using profile `%s`...\n\n", filename, profile)

	if err := s.runExport(c, w, filename, profile); err != nil {
		log.Errorf("Export of %s (%s) failed: %v", filename, profile, err)
		fmt.Fprintf(w, "❌ Error running export: %v\n", err)
	}
}

func (s *Server) runExport(c *gin.Context, w io.Writer, filename, profile string) error {
	if s.exporter == nil {
		return errors.New("no export command configured")
	}
	path, cleanup, err := s.materialize(c, filename)
	if err != nil {
		return err
	}
	defer cleanup()

	log.Infof("Running export for %s using profile %s", filename, profile)
	return s.exporter.Stream(c.Request.Context(), w, "export."+profile, path, profile)
}
