// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package environ

import (
	"bytes"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// MaxFormSize bounds how much of a payload the adapters buffer and decode.
const MaxFormSize = 10 << 20

const formURLEncoded = "application/x-www-form-urlencoded"

// setHeaderVars adds HTTP_ variables for every header, the dedicated
// CONTENT_TYPE/CONTENT_LENGTH variables, and basic-auth credentials.
func setHeaderVars(vars map[string]string, headers map[string]string) {
	for k, v := range headers {
		vars[headerVar(k)] = v
		switch strings.ToLower(k) {
		case "content-type":
			vars[VarContentType] = v
		case "content-length":
			vars[VarContentLength] = v
		case "content-md5":
			vars[VarContentMD5] = v
		case "authorization":
			if user, pw, ok := basicAuth(v); ok {
				vars[VarAuthUser] = user
				vars[VarAuthPassword] = pw
			}
		}
	}
}

// basicAuth decodes a Basic authorization value.
func basicAuth(value string) (user, pw string, ok bool) {
	r := http.Request{Header: http.Header{"Authorization": {value}}}
	return r.BasicAuth()
}

// isForm reports whether contentType announces an urlencoded form.
func isForm(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == formURLEncoded
}

// mergeQuery merges an urlencoded string into params. Malformed pairs are skipped.
func mergeQuery(params url.Values, raw string) {
	parsed, _ := url.ParseQuery(raw)
	for k, vs := range parsed {
		params[k] = append(params[k], vs...)
	}
}

// bufferInput reads in whole. A failed read, or a payload larger than
// MaxFormSize, yields an empty payload rather than a truncated one.
func bufferInput(in io.Reader) []byte {
	if in == nil {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(in, MaxFormSize+1))
	if err != nil || len(data) > MaxFormSize {
		return nil
	}
	return data
}

// portOf returns the port carried by a host[:port] value.
func portOf(hostport string) string {
	if _, port, err := net.SplitHostPort(hostport); err == nil {
		return port
	}
	return ""
}

func requestTarget(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}

func newInput(data []byte) io.Reader {
	return bytes.NewReader(data)
}
