// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package environ

import (
	"io"
	"net/http"
	"strings"
)

// FromCGI builds a Host from a CGI process environment (as returned by
// os.Environ) and its standard input. CGI has no native header facility, so
// headers are rebuilt from the HTTP_ variables.
//
// Query parameters come from QUERY_STRING. An urlencoded POST body is decoded
// into the parameters as well and stays readable as raw input.
func FromCGI(environ []string, stdin io.Reader) *Env {
	env := &Env{Vars: make(map[string]string, len(environ))}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env.Vars[k] = v
	}

	params := env.Params()
	if q := env.Vars[VarQueryString]; q != "" {
		mergeQuery(params, q)
	}

	if stdin == nil {
		return env
	}
	if !strings.EqualFold(env.Vars[VarRequestMethod], http.MethodPost) || !isForm(env.Vars[VarContentType]) {
		env.Stdin = stdin
		return env
	}

	data := bufferInput(stdin)
	mergeQuery(params, string(data))
	env.Stdin = newInput(data)
	return env
}
