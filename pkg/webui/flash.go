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
	"encoding/gob"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"
)

const sessionName = "airtable-export"

// Flash categories, matching the page's alert classes.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashWarning = "warning"
)

type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// NewSessionStore returns a cookie store for flash messages.
func NewSessionStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.MaxAge(3600)
	return store
}

func (s *Server) flash(c *gin.Context, category, message string) {
	session, err := s.sessions.Get(c.Request, sessionName)
	if err != nil {
		log.Warnf("Discarding unreadable session: %v", err)
	}
	session.AddFlash(Flash{Category: category, Message: message})
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Errorf("Failed to save flash message: %v", err)
	}
}

// flashes pops all pending flash messages.
func (s *Server) flashes(c *gin.Context) []Flash {
	session, err := s.sessions.Get(c.Request, sessionName)
	if err != nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Errorf("Failed to clear flash messages: %v", err)
	}

	var out []Flash
	for _, f := range raw {
		if flash, ok := f.(Flash); ok {
			out = append(out, flash)
		}
	}
	return out
}
