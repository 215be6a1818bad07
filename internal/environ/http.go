// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package environ

import (
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// FromHTTP builds a Host from a net/http request, the way a CGI gateway would
// describe it to its child. Native headers are available.
//
// The request body is buffered so it stays readable after form decoding.
func FromHTTP(r *http.Request) *Env {
	env := &Env{
		Vars:    make(map[string]string),
		Headers: make(map[string]string, len(r.Header)+1),
	}

	for k, vs := range r.Header {
		env.Headers[k] = strings.Join(vs, ", ")
	}
	if r.Host != "" {
		env.Headers["Host"] = r.Host
	}
	setHeaderVars(env.Vars, env.Headers)

	target := r.RequestURI
	if r.URL != nil {
		target = r.URL.RequestURI()
	}

	vars := env.Vars
	vars[VarRequestMethod] = r.Method
	vars[VarServerProtocol] = r.Proto
	vars[VarRequestURI] = target
	vars[VarHTTPHost] = r.Host
	vars[VarServerPort] = serverPort(r)
	if r.URL != nil {
		vars[VarQueryString] = r.URL.RawQuery
	}
	if r.TLS != nil {
		vars[VarHTTPS] = "on"
	}
	if host, port, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		vars[VarRemoteAddr] = host
		vars[VarRemotePort] = port
	} else if r.RemoteAddr != "" {
		vars[VarRemoteAddr] = r.RemoteAddr
	}

	var data []byte
	if r.Body != nil && r.Body != http.NoBody {
		data = bufferInput(r.Body)
		r.Body.Close()
	}
	env.Stdin = newInput(data)

	params := env.Params()
	if r.URL != nil {
		mergeQuery(params, r.URL.RawQuery)
	}
	if r.Method == http.MethodPost {
		mergePostForm(r, data, params)
	}
	return env
}

// mergePostForm decodes urlencoded and multipart POST payloads into params.
func mergePostForm(r *http.Request, data []byte, params url.Values) {
	ct := r.Header.Get("Content-Type")
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return
	}
	switch mt {
	case formURLEncoded:
		mergeQuery(params, string(data))
	case "multipart/form-data":
		clone := r.Clone(r.Context())
		clone.Body = io.NopCloser(newInput(data))
		if err := clone.ParseMultipartForm(MaxFormSize); err != nil {
			return
		}
		for k, vs := range clone.MultipartForm.Value {
			params[k] = append(params[k], vs...)
		}
	}
}

// serverPort prefers the port named by the Host header, then the listener's
// address, then the scheme default.
func serverPort(r *http.Request) string {
	if port := portOf(r.Host); port != "" {
		return port
	}
	if addr, ok := r.Context().Value(http.LocalAddrContextKey).(net.Addr); ok {
		if port := portOf(addr.String()); port != "" {
			return port
		}
	}
	if r.TLS != nil {
		return strconv.Itoa(443)
	}
	return DefaultPort
}
