// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package environ

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// FromLambda builds a Host from an API Gateway v2 HTTP event. API Gateway
// terminates TLS, so the call is always reported as https on port 443.
func FromLambda(req events.APIGatewayV2HTTPRequest) *Env {
	env := &Env{
		Vars:    make(map[string]string),
		Headers: make(map[string]string, len(req.Headers)+1),
	}

	for k, v := range req.Headers {
		env.Headers[k] = v
	}
	if len(req.Cookies) > 0 && !Header(env.Headers).Has("Cookie") {
		env.Headers["cookie"] = strings.Join(req.Cookies, "; ")
	}
	setHeaderVars(env.Vars, env.Headers)

	path := req.RawPath
	if path == "" {
		path = req.RequestContext.HTTP.Path
	}
	host := Header(env.Headers).Get("Host")
	if host == "" {
		host = req.RequestContext.DomainName
	}

	vars := env.Vars
	vars[VarRequestMethod] = req.RequestContext.HTTP.Method
	vars[VarServerProtocol] = req.RequestContext.HTTP.Protocol
	vars[VarRequestURI] = requestTarget(path, req.RawQueryString)
	vars[VarQueryString] = req.RawQueryString
	vars[VarHTTPHost] = host
	vars[VarServerPort] = "443"
	vars[VarHTTPS] = "on"
	vars[VarRemoteAddr] = req.RequestContext.HTTP.SourceIP

	data := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			decoded = nil
		}
		data = decoded
	}
	env.Stdin = newInput(data)

	params := env.Params()
	mergeQuery(params, req.RawQueryString)
	if strings.EqualFold(req.RequestContext.HTTP.Method, http.MethodPost) && isForm(vars[VarContentType]) {
		mergeQuery(params, string(data))
	}
	return env
}
