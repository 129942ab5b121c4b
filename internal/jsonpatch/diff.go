// Package jsonpatch computes and applies RFC 6902 JSON Patch documents
// restricted to add, remove and replace operations.
package jsonpatch

import (
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

type Operation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpReplace = "replace"
)

// DiffBoth computes the forward (a→b) and backward (b→a) patches in a single
// traversal. Inputs are JSON trees as produced by json.Unmarshal into any.
// Object keys are visited in sorted order so the same transition always
// produces the same operation sequence.
func DiffBoth(a, b any, path string) (fwd, bwd []Operation) {
	if a == nil && b == nil {
		return nil, nil
	}
	if a == nil || b == nil {
		return []Operation{replaceOp(path, b)}, []Operation{replaceOp(path, a)}
	}

	aMap, aIsMap := a.(map[string]any)
	bMap, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		return diffObjects(aMap, bMap, path)
	}

	aArr, aIsArr := a.([]any)
	bArr, bIsArr := b.([]any)
	if aIsArr && bIsArr {
		return diffArrays(aArr, bArr, path)
	}

	// Mismatched kinds, or comparable scalars.
	if aIsMap || bIsMap || aIsArr || bIsArr || a != b {
		return []Operation{replaceOp(path, b)}, []Operation{replaceOp(path, a)}
	}

	return nil, nil
}

func diffObjects(a, b map[string]any, path string) (fwd, bwd []Operation) {
	for _, k := range sortedKeys(a) {
		if _, ok := b[k]; !ok {
			childPath := path + "/" + escapeToken(k)
			fwd = append(fwd, removeOp(childPath))
			bwd = append(bwd, addOp(childPath, a[k]))
		}
	}

	for _, k := range sortedKeys(b) {
		childPath := path + "/" + escapeToken(k)
		av, inA := a[k]
		if !inA {
			fwd = append(fwd, addOp(childPath, b[k]))
			bwd = append(bwd, removeOp(childPath))
			continue
		}
		subFwd, subBwd := DiffBoth(av, b[k], childPath)
		fwd = append(fwd, subFwd...)
		bwd = append(bwd, subBwd...)
	}

	return fwd, bwd
}

func diffArrays(a, b []any, path string) (fwd, bwd []Operation) {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	for i := 0; i < minLen; i++ {
		childPath := path + "/" + strconv.Itoa(i)
		subFwd, subBwd := DiffBoth(a[i], b[i], childPath)
		fwd = append(fwd, subFwd...)
		bwd = append(bwd, subBwd...)
	}

	// a has extra trailing elements: forward removes them highest index first
	// so earlier removes do not shift later paths; backward re-adds ascending.
	for i := len(a) - 1; i >= minLen; i-- {
		fwd = append(fwd, removeOp(path+"/"+strconv.Itoa(i)))
	}
	for i := minLen; i < len(a); i++ {
		bwd = append(bwd, addOp(path+"/"+strconv.Itoa(i), a[i]))
	}

	// b has extra trailing elements: forward adds ascending, backward removes
	// descending.
	for i := minLen; i < len(b); i++ {
		fwd = append(fwd, addOp(path+"/"+strconv.Itoa(i), b[i]))
	}
	for i := len(b) - 1; i >= minLen; i-- {
		bwd = append(bwd, removeOp(path+"/"+strconv.Itoa(i)))
	}

	return fwd, bwd
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func replaceOp(path string, value any) Operation {
	return Operation{Op: OpReplace, Path: path, Value: rawValue(value)}
}

func addOp(path string, value any) Operation {
	return Operation{Op: OpAdd, Path: path, Value: rawValue(value)}
}

func removeOp(path string) Operation {
	return Operation{Op: OpRemove, Path: path}
}

func rawValue(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		// Values come from unmarshalled JSON trees and always re-marshal.
		return json.RawMessage("null")
	}
	return b
}

// escapeToken escapes a JSON Pointer reference token per RFC 6901.
func escapeToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}

func unescapeToken(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	s = strings.ReplaceAll(s, "~0", "~")
	return s
}
