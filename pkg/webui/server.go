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
	"html/template"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"

	"github.com/tablesync/airtable-export/pkg/airtable"
	"github.com/tablesync/airtable-export/pkg/config"
	"github.com/tablesync/airtable-export/pkg/editor"
	"github.com/tablesync/airtable-export/pkg/store"
)

const validateURL = "/api/validate"

// Metadata looks up Airtable field metadata for a table.
type Metadata interface {
	TableFields(ctx context.Context, baseID, tableName string) ([]airtable.Field, error)
}

// Exporter runs the export command for a stored config.
type Exporter interface {
	Stream(ctx context.Context, w io.Writer, mockID, configPath, profile string) error
	CommandLine(configPath, profile string) string
}

type Config struct {
	Port          int
	OutputDir     string
	LocalhostOnly bool
	CORSOrigins   []string
	Store         store.Store
	Metadata      Metadata
	Exporter      Exporter
	Validator     *config.Validator
	Sessions      sessions.Store
}

// Server represents the web UI server
type Server struct {
	port          int
	outputDir     string
	localhostOnly bool
	corsOrigins   []string
	store         store.Store
	metadata      Metadata
	exporter      Exporter
	validator     *config.Validator
	sessions      sessions.Store
	script        []byte
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("webui: a config store is required")
	}
	if cfg.Validator == nil {
		cfg.Validator = config.NewValidator()
	}
	if cfg.Sessions == nil {
		return nil, errors.New("webui: a session store is required")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}

	script, err := editor.NewBridge(nil, editor.WithValidator(cfg.Validator)).Script(validateURL)
	if err != nil {
		return nil, err
	}

	return &Server{
		port:          cfg.Port,
		outputDir:     cfg.OutputDir,
		localhostOnly: cfg.LocalhostOnly,
		corsOrigins:   cfg.CORSOrigins,
		store:         cfg.Store,
		metadata:      cfg.Metadata,
		exporter:      cfg.Exporter,
		validator:     cfg.Validator,
		sessions:      cfg.Sessions,
		script:        script,
	}, nil
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.LoggerWithWriter(log.StandardLogger().WriterLevel(log.DebugLevel)), gin.Recovery())
	if s.localhostOnly {
		router.Use(LocalhostOnly())
	}
	router.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")))

	router.GET("/", s.index)
	router.GET("/help", s.help)
	router.GET("/download/:folder/:filename", s.download)
	router.GET("/static/scripts/init_editor.js", s.editorScript)

	configs := router.Group("/configs")
	configs.GET("", s.listConfigs)
	configs.GET("/view/:filename", s.viewConfig)
	configs.POST("/edit/:filename", s.editConfig)
	configs.GET("/create", s.createConfigForm)
	configs.POST("/create", s.createConfig)
	configs.GET("/upload", s.uploadConfigForm)
	configs.POST("/upload", s.uploadConfig)
	configs.POST("/delete/:filename", s.deleteConfig)
	configs.GET("/run_view/:filename", s.runExportView)
	configs.GET("/run_view/:filename/:profile", s.runExportView)
	configs.GET("/stream/:filename", s.streamExport)

	api := router.Group("/api")
	api.Use(cors.New(s.corsConfig()))
	api.POST("/validate", s.validate)
	api.GET("/configs", s.apiListConfigs)
	api.GET("/configs/:filename/tables", s.apiTables)

	return router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type"}
	origins := make([]string, 0, len(s.corsOrigins))
	for _, o := range s.corsOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Router(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting airtable-export web UI at http://localhost%s", server.Addr)
		fmt.Printf("🚀 Web UI running at http://localhost%s\n", server.Addr)
		fmt.Println("Press Ctrl+C to stop")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down web UI")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// LocalhostOnly rejects requests from non-loopback clients, and requests whose
// Host is not a loopback name.
func LocalhostOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isLoopbackAddr(c.Request.RemoteAddr) && isLoopbackHost(c.Request.Host) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, APIResponse{Status: "error", Message: "Access denied - localhost only"})
	}
}

func isLoopbackAddr(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func isLoopbackHost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
