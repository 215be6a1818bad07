// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

// Package echo renders the canonical request of a call back to the client as
// a JSON document.
package echo

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/cruxstack/envctx/internal/environ"
	"github.com/cruxstack/envctx/internal/httpctx"
	"github.com/cruxstack/envctx/internal/shared"
)

// ContentType is the media type of a rendered document.
const ContentType = "application/json; charset=utf-8"

// Document is the JSON shape of a rendered request.
type Document struct {
	Method    string            `json:"method"`
	URI       string            `json:"uri"`
	Protocol  string            `json:"protocol"`
	Headers   map[string]string `json:"headers"`
	Body      BodyDocument      `json:"body"`
	SessionID string            `json:"session_id,omitempty"`
}

// BodyDocument carries either the form parameters or the raw payload. Raw
// payloads that are not valid UTF-8 go in RawBase64 instead of Raw.
type BodyDocument struct {
	Kind      string              `json:"kind"`
	Form      map[string][]string `json:"form,omitempty"`
	Raw       *string             `json:"raw,omitempty"`
	RawBase64 string              `json:"raw_base64,omitempty"`
}

// NewDocument describes the request held by c.
func NewDocument(c *httpctx.Context) Document {
	req := c.Request()
	doc := Document{
		Method:    req.Method(),
		URI:       req.URI(),
		Protocol:  req.Protocol(),
		Headers:   req.Headers(),
		SessionID: c.SessionID(),
	}

	switch b := req.Body().(type) {
	case environ.FormBody:
		doc.Body = BodyDocument{Kind: b.Kind(), Form: b.Values}
	case environ.RawBody:
		doc.Body = BodyDocument{Kind: b.Kind()}
		if utf8.Valid(b.Data) {
			raw := b.String()
			doc.Body.Raw = &raw
		} else {
			doc.Body.RawBase64 = base64.StdEncoding.EncodeToString(b.Data)
		}
	}
	return doc
}

// Render answers the call with the JSON document of its request. The status
// and headers come from the call's response scaffold, so edits made to it
// earlier in the call are kept.
func Render(c *httpctx.Context) shared.Response {
	scaffold := c.Response()
	if !scaffold.Headers.Has("Content-Type") {
		scaffold.Headers.Set("Content-Type", ContentType)
	}

	status := scaffold.StatusCode()
	if status == 0 {
		status = http.StatusOK
	}

	body, err := json.Marshal(NewDocument(c))
	if err != nil {
		return shared.Response{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
			Body:       []byte("failed to render request"),
		}
	}

	headers := make(map[string]string, len(scaffold.Headers))
	for k, v := range scaffold.Headers {
		headers[k] = v
	}
	return shared.Response{
		StatusCode: status,
		Headers:    headers,
		Body:       body,
	}
}
