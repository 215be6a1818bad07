// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package environ

import (
	"net"
	"strconv"

	"github.com/valyala/fasthttp"
)

// FromFastHTTP builds a Host from a fasthttp request context. The payload is
// copied because fasthttp reuses its buffers once the handler returns.
func FromFastHTTP(ctx *fasthttp.RequestCtx) *Env {
	env := &Env{
		Vars:    make(map[string]string),
		Headers: make(map[string]string),
	}

	ctx.Request.Header.VisitAll(func(k, v []byte) {
		name := string(k)
		if prev, ok := env.Headers[name]; ok {
			env.Headers[name] = prev + ", " + string(v)
			return
		}
		env.Headers[name] = string(v)
	})
	setHeaderVars(env.Vars, env.Headers)

	vars := env.Vars
	vars[VarRequestMethod] = string(ctx.Method())
	vars[VarServerProtocol] = string(ctx.Request.Header.Protocol())
	vars[VarRequestURI] = string(ctx.RequestURI())
	vars[VarQueryString] = string(ctx.URI().QueryString())
	vars[VarHTTPHost] = string(ctx.Host())
	vars[VarServerPort] = localPort(ctx)
	if ctx.IsTLS() {
		vars[VarHTTPS] = "on"
	}
	if ip := ctx.RemoteIP(); ip != nil {
		vars[VarRemoteAddr] = ip.String()
	}

	env.Stdin = newInput(append([]byte(nil), ctx.PostBody()...))

	params := env.Params()
	ctx.QueryArgs().VisitAll(func(k, v []byte) {
		params.Add(string(k), string(v))
	})
	if ctx.IsPost() {
		ctx.PostArgs().VisitAll(func(k, v []byte) {
			params.Add(string(k), string(v))
		})
	}
	return env
}

func localPort(ctx *fasthttp.RequestCtx) string {
	if port := portOf(string(ctx.Host())); port != "" {
		return port
	}
	if addr, ok := ctx.LocalAddr().(*net.TCPAddr); ok && addr.Port != 0 {
		return strconv.Itoa(addr.Port)
	}
	if ctx.IsTLS() {
		return "443"
	}
	return DefaultPort
}
