// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package environ

import (
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Defaults used when the host leaves a field out.
const (
	DefaultHost = "localhost"
	DefaultPort = "80"
)

// dedicatedHeaders maps variables that carry a header without the HTTP_ prefix
// to the header they hold. When such a variable exists it wins over its
// HTTP_ twin.
var dedicatedHeaders = map[string]string{
	VarContentType:   HeaderContentType,
	VarContentLength: HeaderContentLength,
	VarContentMD5:    HeaderContentMD5,
}

// Reader resolves the facts of one call from its Host. Method, headers and
// body are computed once and reused; the host must not change mid-call.
type Reader struct {
	host Host
	vars map[string]string

	method  string
	headers Header
	body    Body
}

// NewReader creates a Reader for host.
func NewReader(host Host) *Reader {
	vars := host.Server()
	if vars == nil {
		vars = map[string]string{}
	}
	return &Reader{host: host, vars: vars}
}

func (r *Reader) lookup(name string) (string, bool) {
	v, ok := r.vars[name]
	return v, ok
}

// Method returns the effective request method, uppercased.
//
// A POST carrying a method override is reported as the override. Any other
// declared method ignores the override.
func (r *Reader) Method() string {
	if r.method != "" {
		return r.method
	}

	method, _ := r.lookup(VarRequestMethod)
	if method == "" {
		method = http.MethodGet
	}
	if strings.EqualFold(method, http.MethodPost) {
		if override := r.methodOverride(); override != "" {
			method = override
		}
	}

	r.method = strings.ToUpper(method)
	return r.method
}

func (r *Reader) methodOverride() string {
	if v, ok := r.lookup(VarMethodOverride); ok {
		return strings.TrimSpace(v)
	}
	if native, ok := r.host.NativeHeaders(); ok {
		return strings.TrimSpace(Header(native).Get(HeaderMethodOverride))
	}
	return ""
}

// Protocol returns the server-declared protocol verbatim.
func (r *Reader) Protocol() string {
	return r.vars[VarServerProtocol]
}

// Headers returns the normalized request headers. Every call returns a fresh
// copy of the same collection.
func (r *Reader) Headers() Header {
	if r.headers == nil {
		h := r.baseHeaders()
		r.synthesizeAuthorization(h)
		r.synthesizeETag(h)
		r.mergeForwardedFor(h)
		r.headers = h
	}
	return r.headers.Clone()
}

// baseHeaders collects headers from the native facility, or rebuilds them
// from HTTP_ variables when the host has none.
func (r *Reader) baseHeaders() Header {
	h := make(Header)

	if native, ok := r.host.NativeHeaders(); ok {
		for _, k := range sortedKeys(native) {
			h.Set(k, strings.TrimSpace(native[k]))
		}
		return h
	}

	for _, k := range sortedKeys(r.vars) {
		v := r.vars[k]
		if name, ok := strings.CutPrefix(k, headerVarPrefix); ok {
			if name == "" {
				continue
			}
			if _, dedicated := dedicatedHeaders[name]; dedicated {
				if _, exists := r.vars[name]; exists {
					continue
				}
			}
			h.Set(headerCase(name), strings.TrimSpace(v))
		} else if name, ok := dedicatedHeaders[k]; ok {
			h.Set(name, strings.TrimSpace(v))
		}
	}
	return h
}

func (r *Reader) synthesizeAuthorization(h Header) {
	if h.Has(HeaderAuthorization) {
		return
	}
	if v, ok := r.lookup(VarRedirectAuthorization); ok {
		h.Set(HeaderAuthorization, v)
	} else if user, ok := r.lookup(VarAuthUser); ok {
		pw := r.vars[VarAuthPassword]
		h.Set(HeaderAuthorization, "Basic "+base64.StdEncoding.EncodeToString([]byte(user+":"+pw)))
	} else if digest, ok := r.lookup(VarAuthDigest); ok {
		h.Set(HeaderAuthorization, digest)
	}
}

// synthesizeETag copies the If-None-Match value into ETag, or sets it empty.
// Downstream cache validation reads the client's entity tag from the request
// under the ETag name.
func (r *Reader) synthesizeETag(h Header) {
	if h.Has(HeaderETag) {
		return
	}
	if v, ok := r.lookup(VarIfNoneMatch); ok {
		h.Set(HeaderETag, strings.TrimSpace(v))
	} else if v, ok := h.Lookup(HeaderIfNoneMatch); ok {
		h.Set(HeaderETag, v)
	} else {
		h.Set(HeaderETag, "")
	}
}

func (r *Reader) mergeForwardedFor(h Header) {
	addr := r.vars[VarRemoteAddr]
	existing, ok := h.Lookup(HeaderForwardedFor)
	switch {
	case !ok:
		h.Set(HeaderForwardedFor, addr)
	case !strings.Contains(existing, addr):
		h.Set(HeaderForwardedFor, addr+","+existing)
	}
}

// URI rebuilds the absolute request URI as
// scheme://[user[:pass]@]host:port followed by the raw request target.
func (r *Reader) URI() string {
	scheme := "http"
	if v, ok := r.lookup(VarHTTPS); ok && !strings.EqualFold(v, "off") {
		scheme = "https"
	}

	var auth string
	if user := r.vars[VarAuthUser]; user != "" {
		auth = user
		if pw := r.vars[VarAuthPassword]; pw != "" {
			auth += ":" + pw
		}
		auth += "@"
	}

	// Empty HTTP_HOST and SERVER_PORT count as absent.
	host := r.vars[VarHTTPHost]
	if host == "" {
		host = DefaultHost
	}
	port := r.vars[VarServerPort]

	// A host that already names a port is kept as given. Its port stands in
	// for a missing SERVER_PORT and is not repeated when both agree.
	if _, hostPort, err := net.SplitHostPort(host); err == nil {
		if port == "" || port == hostPort {
			return scheme + "://" + auth + host + r.vars[VarRequestURI]
		}
	}
	if port == "" {
		port = DefaultPort
	}

	return scheme + "://" + auth + host + ":" + port + r.vars[VarRequestURI]
}

// Body materializes the request payload.
//
// For GET, the query part of the request target is merged into the host's
// parameter collection first. GET and POST with parameters yield a FormBody;
// everything else yields the raw input stream, empty when it cannot be read.
func (r *Reader) Body() Body {
	if r.body != nil {
		return r.body
	}

	method := r.Method()
	params := r.host.Params()
	if params == nil {
		params = make(url.Values)
	}

	if method == http.MethodGet {
		if _, query, ok := strings.Cut(r.vars[VarRequestURI], "?"); ok {
			// only the segment up to a second "?" is the query
			query, _, _ = strings.Cut(query, "?")
			// malformed pairs are dropped, the rest still merge
			parsed, _ := url.ParseQuery(query)
			for k, vs := range parsed {
				params[k] = vs
			}
		}
	}

	if (method == http.MethodGet || method == http.MethodPost) && len(params) > 0 {
		r.body = FormBody{Values: CloneValues(params)}
	} else {
		r.body = RawBody{Data: readInput(r.host.Input())}
	}
	return r.body
}

func readInput(in io.Reader) []byte {
	if in == nil {
		return []byte{}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return []byte{}
	}
	return data
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
