// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api defines the request payloads sent to an AION-CR server and the
// typed views of its responses.
//
// Responses are decoded tolerantly: every field has a default that is used
// when the key is absent or holds a value of the wrong JSON type. Decoding
// never fails, so a malformed reply degrades to placeholder output instead of
// an error.
package api

import (
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// parse returns the root of a response body. Invalid JSON yields an empty
// result, which every getter treats as missing.
func parse(raw []byte) gjson.Result {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}
	}
	return gjson.ParseBytes(raw)
}

// member looks up a single object key without interpreting gjson path syntax.
func member(r gjson.Result, key string) gjson.Result {
	if !r.IsObject() {
		return gjson.Result{}
	}
	var found gjson.Result
	r.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found = v
			return false
		}
		return true
	})
	return found
}

func str(r gjson.Result, key, def string) string {
	v := member(r, key)
	if v.Type != gjson.String {
		return def
	}
	return v.Str
}

func float(r gjson.Result, key string) float64 {
	v := member(r, key)
	if v.Type != gjson.Number {
		return 0
	}
	return v.Num
}

// uint64Of accepts only non-negative integer literals; 5.0 or -1 read as 0.
func uint64Of(r gjson.Result, key string) uint64 {
	v := member(r, key)
	if v.Type != gjson.Number || strings.ContainsAny(v.Raw, ".eE-") {
		return 0
	}
	return v.Uint()
}

func boolean(r gjson.Result, key string) bool {
	return member(r, key).Type == gjson.True
}

// object returns the member when it is a JSON object.
func object(r gjson.Result, key string) (gjson.Result, bool) {
	v := member(r, key)
	return v, v.IsObject()
}

// array returns the member's elements when it is a JSON array.
func array(r gjson.Result, key string) ([]gjson.Result, bool) {
	v := member(r, key)
	if !v.IsArray() {
		return nil, false
	}
	return v.Array(), true
}

// entries returns an object's members sorted by key.
func entries(r gjson.Result) []entry {
	var out []entry
	r.ForEach(func(k, v gjson.Result) bool {
		out = append(out, entry{Key: k.String(), Value: v})
		return true
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

type entry struct {
	Key   string
	Value gjson.Result
}
