// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package environ

import "net/url"

// Body kinds reported by Body.Kind.
const (
	BodyKindForm = "form"
	BodyKindRaw  = "raw"
)

// Body is the materialized request payload: either FormBody or RawBody.
type Body interface {
	Kind() string
	isBody()
}

// FormBody is a payload already decoded into request parameters.
type FormBody struct {
	Values url.Values
}

// RawBody is an unparsed payload read from the input stream.
type RawBody struct {
	Data []byte
}

// Kind implements Body.
func (FormBody) Kind() string { return BodyKindForm }

// Kind implements Body.
func (RawBody) Kind() string { return BodyKindRaw }

func (FormBody) isBody() {}
func (RawBody) isBody()  {}

// Clone returns a copy that shares no memory with b.
func (b FormBody) Clone() FormBody {
	return FormBody{Values: CloneValues(b.Values)}
}

// Clone returns a copy that shares no memory with b.
func (b RawBody) Clone() RawBody {
	return RawBody{Data: append([]byte{}, b.Data...)}
}

// String returns the payload as text.
func (b RawBody) String() string {
	return string(b.Data)
}

// CloneValues returns a deep copy of v.
func CloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
