// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package output

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Tree prints a JSON document as an indented key listing. Object keys are
// visited in sorted order, two spaces per level.
func (f *Formatter) Tree(raw []byte) {
	f.tree(gjson.ParseBytes(raw), 0)
}

func (f *Formatter) tree(value gjson.Result, indent int) {
	prefix := strings.Repeat("  ", indent)

	switch {
	case value.IsObject():
		type kv struct {
			key string
			val gjson.Result
		}
		var members []kv
		value.ForEach(func(k, v gjson.Result) bool {
			members = append(members, kv{k.String(), v})
			return true
		})
		sort.SliceStable(members, func(i, j int) bool { return members[i].key < members[j].key })

		for _, m := range members {
			switch {
			case m.val.IsObject():
				f.Println(prefix + f.Key(m.key) + ":")
				f.tree(m.val, indent+1)
			case m.val.IsArray():
				f.Println(prefix + f.Key(m.key) + ": [array]")
				f.tree(m.val, indent+1)
			default:
				f.Println(prefix + f.Key(m.key) + ": " + scalarText(m.val))
			}
		}

	case value.IsArray():
		for i, item := range value.Array() {
			f.Println(prefix + "[" + strconv.Itoa(i) + "]:")
			f.tree(item, indent+1)
		}

	default:
		f.Println(prefix + scalarText(value))
	}
}

// scalarText renders strings unquoted and every other scalar as JSON.
func scalarText(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.String()
	case gjson.Null:
		return "null"
	}
	if v.Raw == "" {
		return "null"
	}
	return strings.TrimSpace(v.Raw)
}
