package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code with testify, showing the body
// on mismatch.
func AssertStatusCode(t *testing.T, scenario *Scenario, got int, body []byte) {
	t.Helper()
	assert.Equal(t, scenario.ExpectedCode, got,
		"[%s] HTTP status code mismatch\nbody: %s", scenario.Name, string(body))
}

// AssertJSONBody deep-compares actual response bytes against the expected
// JSON after normalising both through a decode (so key order and whitespace
// never matter) and dropping the scenario's ignoreFields from both.
func AssertJSONBody(t *testing.T, scenario *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	expVal, err := decode(expected)
	require.NoError(t, err, "[%s] expected response is not valid JSON", scenario.Name)

	actVal, err := decode(actual)
	if !assert.NoError(t, err, "[%s] actual response is not valid JSON\nbody: %s", scenario.Name, string(actual)) {
		return
	}

	for _, field := range scenario.IgnoreFields {
		parts := strings.Split(field, ".")
		expVal = removePath(expVal, parts)
		actVal = removePath(actVal, parts)
	}

	assert.Equal(t, expVal, actVal, "[%s] response body mismatch\n%s",
		scenario.Name, strings.Join(DiffJSON("", expVal, actVal), "\n"))
}

// Lookup returns the value at a dotted path of a JSON document, formatted as
// text: strings unquoted, numbers as written, everything else as JSON.
func Lookup(body []byte, path string) (string, bool) {
	v, err := decode(body)
	if err != nil {
		return "", false
	}
	for _, part := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]interface{}:
			next, ok := node[part]
			if !ok {
				return "", false
			}
			v = next
		case []interface{}:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return "", false
			}
			v = node[i]
		default:
			return "", false
		}
	}

	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	default:
		out, _ := json.Marshal(x)
		return string(out), true
	}
}

func decode(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func removePath(v interface{}, parts []string) interface{} {
	if len(parts) == 0 {
		return v
	}
	head, rest := parts[0], parts[1:]

	switch node := v.(type) {
	case map[string]interface{}:
		if len(rest) == 0 {
			delete(node, head)
			return node
		}
		if child, ok := node[head]; ok {
			node[head] = removePath(child, rest)
		}
	case []interface{}:
		if head == "*" {
			for i := range node {
				node[i] = removePath(node[i], rest)
			}
			return node
		}
		if i, err := strconv.Atoi(head); err == nil && i >= 0 && i < len(node) {
			node[i] = removePath(node[i], rest)
		}
	}
	return v
}

// DiffJSON returns human-readable difference strings between two decoded
// JSON values.
func DiffJSON(path string, expected, actual interface{}) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual))
		}
		for k, ev := range exp {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing in actual", p))
				continue
			}
			diffs = append(diffs, DiffJSON(p, ev, av)...)
		}
		for k := range act {
			if _, exists := exp[k]; !exists {
				diffs = append(diffs, fmt.Sprintf("  %s.%s: unexpected in actual", keyPath(path), k))
			}
		}
	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual))
		}
		if len(exp) != len(act) {
			diffs = append(diffs, fmt.Sprintf("  %s: array length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := 0; i < len(exp) && i < len(act); i++ {
			diffs = append(diffs, DiffJSON(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
	default:
		if fmt.Sprintf("%v", expected) != fmt.Sprintf("%v", actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
