// Package testkit drives REST API tests from JSON scenario files.
//
// A scenario file holds one scenario object or an array of them. An array is
// a flow: its steps run in order against the same handler and share
// variables, so a later step can address what an earlier one created.
//
//	testdata/
//	  store_lifecycle.json             ← flow
//	  bodies/create_store_req.json     ← request body
//	  bodies/create_store_res.json     ← expected response body
//
// Any "{{name}}" in requestUrl, a request body or an expected response is
// replaced by a captured variable before use:
//
//	{
//	  "name": "create store",
//	  "requestMethod": "POST",
//	  "requestUrl": "/api/v1/stores",
//	  "requestBody": {"name": "Downtown"},
//	  "expectedCode": 201,
//	  "ignoreFields": ["data.createdAt", "data.updatedAt"],
//	  "capture": {"storeId": "data.id"}
//	}
//
// Example _test.go:
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, "testdata", func(t *testing.T) http.Handler {
//	        return newKernel(t).Handler()
//	    })
//	}
package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Scenario describes a single REST API test case.
type Scenario struct {
	// Meta
	Name        string `json:"name"`
	Description string `json:"description"`

	// Request
	RequestMethod   string            `json:"requestMethod"`   // GET, POST, PUT, PATCH, DELETE
	RequestURL      string            `json:"requestUrl"`      // e.g. /api/v1/stores/{{storeId}}
	RequestFileName string            `json:"requestFileName"` // JSON request body file, relative to the scenario
	RequestBody     json.RawMessage   `json:"requestBody"`     // inline body, used when requestFileName is empty
	Headers         map[string]string `json:"headers"`

	// Response assertions
	ExpectedCode       int             `json:"expectedCode"`
	ExpectedStatusCode int             `json:"expectedStatusCode"` // alias for expectedCode
	ResponseFileName   string          `json:"responseFileName"`   // expected response JSON file
	Response           json.RawMessage `json:"response"`           // inline expected response
	IgnoreFields       []string        `json:"ignoreFields"`       // dotted paths dropped before comparing; "*" matches every array element

	// Capture stores values of the response, addressed by dotted path, under
	// variable names for later steps.
	Capture map[string]string `json:"capture"`

	dir string
}

// LoadScenario reads and validates a single scenario object.
func LoadScenario(path string) (*Scenario, error) {
	flow, err := LoadFlow(path)
	if err != nil {
		return nil, err
	}
	if len(flow) != 1 {
		return nil, fmt.Errorf("testkit: %q holds %d scenarios, want 1", path, len(flow))
	}
	return flow[0], nil
}

// LoadFlow reads a scenario file holding either one object or an array.
func LoadFlow(path string) ([]*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var flow []*Scenario
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &flow); err != nil {
			return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
		}
	} else {
		var s Scenario
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
		}
		flow = []*Scenario{&s}
	}

	dir := filepath.Dir(abs)
	for i, s := range flow {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: invalid scenario %d in %q: %w", i, abs, err)
		}
		s.dir = dir
	}
	return flow, nil
}

// validate performs basic sanity checks and applies defaults.
func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		s.ExpectedCode = s.ExpectedStatusCode
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	if s.RequestFileName != "" && len(s.RequestBody) > 0 {
		return fmt.Errorf("requestFileName and requestBody are mutually exclusive")
	}
	if s.ResponseFileName != "" && len(s.Response) > 0 {
		return fmt.Errorf("responseFileName and response are mutually exclusive")
	}
	return nil
}

// requestBody returns the raw request body, or nil when the scenario has none.
func (s *Scenario) requestBody() ([]byte, error) {
	if s.RequestFileName != "" {
		return os.ReadFile(s.resolve(s.RequestFileName))
	}
	if len(s.RequestBody) > 0 {
		return s.RequestBody, nil
	}
	return nil, nil
}

// expectedBody returns the raw expected response, or nil when the scenario
// only checks the status code.
func (s *Scenario) expectedBody() ([]byte, error) {
	if s.ResponseFileName != "" {
		return os.ReadFile(s.resolve(s.ResponseFileName))
	}
	if len(s.Response) > 0 {
		return s.Response, nil
	}
	return nil, nil
}

func (s *Scenario) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}
