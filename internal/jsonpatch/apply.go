package jsonpatch

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Apply applies a patch to a JSON tree and returns the resulting tree. The
// input document is not modified; containers along each operation's path are
// copied before they are changed.
func Apply(doc any, ops []Operation) (any, error) {
	out := deepCopy(doc)
	for i, op := range ops {
		var err error
		out, err = applyOne(out, op)
		if err != nil {
			return nil, fmt.Errorf("op %d (%s %s): %w", i, op.Op, op.Path, err)
		}
	}
	return out, nil
}

func applyOne(doc any, op Operation) (any, error) {
	var value any
	if op.Op == OpAdd || op.Op == OpReplace {
		if err := json.Unmarshal(op.Value, &value); err != nil {
			return nil, fmt.Errorf("decode value: %w", err)
		}
	}

	if op.Path == "" {
		switch op.Op {
		case OpAdd, OpReplace:
			return value, nil
		default:
			return nil, fmt.Errorf("cannot remove document root")
		}
	}

	if !strings.HasPrefix(op.Path, "/") {
		return nil, fmt.Errorf("invalid pointer %q", op.Path)
	}
	tokens := strings.Split(op.Path[1:], "/")
	for i := range tokens {
		tokens[i] = unescapeToken(tokens[i])
	}
	return mutate(doc, tokens, op.Op, value)
}

func mutate(node any, tokens []string, op string, value any) (any, error) {
	token := tokens[0]
	last := len(tokens) == 1

	switch n := node.(type) {
	case map[string]any:
		if last {
			switch op {
			case OpAdd, OpReplace:
				n[token] = value
			case OpRemove:
				if _, ok := n[token]; !ok {
					return nil, fmt.Errorf("member %q not found", token)
				}
				delete(n, token)
			default:
				return nil, fmt.Errorf("unsupported op %q", op)
			}
			return n, nil
		}
		child, ok := n[token]
		if !ok {
			return nil, fmt.Errorf("member %q not found", token)
		}
		newChild, err := mutate(child, tokens[1:], op, value)
		if err != nil {
			return nil, err
		}
		n[token] = newChild
		return n, nil

	case []any:
		idx, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("array index %q: %w", token, err)
		}
		if last {
			switch op {
			case OpAdd:
				if idx < 0 || idx > len(n) {
					return nil, fmt.Errorf("add index %d out of range", idx)
				}
				n = append(n, nil)
				copy(n[idx+1:], n[idx:])
				n[idx] = value
				return n, nil
			case OpReplace:
				if idx < 0 || idx >= len(n) {
					return nil, fmt.Errorf("replace index %d out of range", idx)
				}
				n[idx] = value
				return n, nil
			case OpRemove:
				if idx < 0 || idx >= len(n) {
					return nil, fmt.Errorf("remove index %d out of range", idx)
				}
				return append(n[:idx], n[idx+1:]...), nil
			default:
				return nil, fmt.Errorf("unsupported op %q", op)
			}
		}
		if idx < 0 || idx >= len(n) {
			return nil, fmt.Errorf("index %d out of range", idx)
		}
		newChild, err := mutate(n[idx], tokens[1:], op, value)
		if err != nil {
			return nil, err
		}
		n[idx] = newChild
		return n, nil

	default:
		return nil, fmt.Errorf("cannot descend into %T", node)
	}
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = deepCopy(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = deepCopy(vv)
		}
		return out
	default:
		return v
	}
}
