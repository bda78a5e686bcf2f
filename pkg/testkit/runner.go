package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

// Vars holds captured values, substituted into later steps as "{{name}}".
type Vars map[string]string

func (v Vars) expand(s string) string {
	for name, value := range v {
		s = strings.ReplaceAll(s, "{{"+name+"}}", value)
	}
	return s
}

// Run executes every scenario of the file at path in order against handler.
func Run(t *testing.T, handler http.Handler, path string) Vars {
	t.Helper()

	flow, err := LoadFlow(path)
	if err != nil {
		t.Fatalf("testkit: load %q: %v", path, err)
	}
	return RunFlow(t, handler, flow)
}

// RunFlow executes scenarios in order as subtests sharing one Vars. A failed
// step stops the flow, since later steps usually depend on it.
func RunFlow(t *testing.T, handler http.Handler, flow []*Scenario) Vars {
	t.Helper()

	vars := Vars{}
	for _, s := range flow {
		s := s
		if !t.Run(s.Name, func(t *testing.T) { runScenario(t, handler, s, vars) }) {
			break
		}
	}
	return vars
}

// RunDir runs every *.json file in dir as its own flow. newHandler is called
// once per file so flows never see each other's data. Body files belong in a
// subdirectory, since every top-level file must parse as a flow.
func RunDir(t *testing.T, dir string, newHandler func(t *testing.T) http.Handler) {
	t.Helper()

	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		t.Fatalf("testkit: glob %q: %v", dir, err)
	}

	if len(entries) == 0 {
		t.Fatalf("testkit: no scenario files found in %q", dir)
	}

	for _, path := range entries {
		flow, err := LoadFlow(path)
		if err != nil {
			t.Errorf("testkit: %v", err)
			continue
		}
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		t.Run(name, func(t *testing.T) {
			RunFlow(t, newHandler(t), flow)
		})
	}
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario, vars Vars) {
	t.Helper()

	var reqBody io.Reader
	body, err := s.requestBody()
	if err != nil {
		t.Fatalf("[%s] read request body: %v", s.Name, err)
	}
	if body != nil {
		reqBody = bytes.NewReader([]byte(vars.expand(string(body))))
	}

	method := strings.ToUpper(s.RequestMethod)
	req := httptest.NewRequest(method, vars.expand(s.RequestURL), reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, vars.expand(v))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code, rec.Body.Bytes())

	expected, err := s.expectedBody()
	if err != nil {
		t.Fatalf("[%s] read expected response: %v", s.Name, err)
	}
	if expected != nil {
		AssertJSONBody(t, s, []byte(vars.expand(string(expected))), rec.Body.Bytes())
	}

	for name, path := range s.Capture {
		value, ok := Lookup(rec.Body.Bytes(), path)
		if !ok {
			t.Fatalf("[%s] capture %q: path %q not in response\nbody: %s", s.Name, name, path, rec.Body.String())
		}
		vars[name] = value
	}
}

// DumpScenario returns a human-readable summary of the scenario.
func DumpScenario(s *Scenario) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scenario: %s\n", s.Name)
	fmt.Fprintf(&b, "  %s %s → %d\n", s.RequestMethod, s.RequestURL, s.ExpectedCode)
	if s.RequestFileName != "" {
		fmt.Fprintf(&b, "  requestFile:  %s\n", s.RequestFileName)
	}
	if s.ResponseFileName != "" {
		fmt.Fprintf(&b, "  responseFile: %s\n", s.ResponseFileName)
	}
	for name, path := range s.Capture {
		fmt.Fprintf(&b, "  capture: %s ← %s\n", name, path)
	}
	return b.String()
}
