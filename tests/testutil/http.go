package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPTestCase drives one handler call. Session and User stand in for the
// CartSession and JWT middleware; Params fills route parameters such as :id.
type HTTPTestCase struct {
	Name    string
	Method  string
	Path    string
	Params  gin.Params
	Body    any
	Session string
	User    uuid.UUID
	Roles   []string

	ExpectedStatus int
	ExpectedBody   map[string]any
	// ExpectedError is the envelope error code, e.g. ORDER_NOT_FOUND
	ExpectedError string

	Setup    func(t *testing.T, tc *TestContext)
	Validate func(t *testing.T, tc *TestContext)
}

// RunHTTPTestCases runs each case as a subtest against handler
func RunHTTPTestCases(t *testing.T, handler gin.HandlerFunc, cases []HTTPTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			RunHTTPTestCase(t, handler, tc)
		})
	}
}

// RunHTTPTestCase runs a single case against handler
func RunHTTPTestCase(t *testing.T, handler gin.HandlerFunc, tc HTTPTestCase) {
	t.Helper()

	var body io.Reader
	if tc.Body != nil {
		raw, err := json.Marshal(tc.Body)
		require.NoError(t, err, "Failed to marshal request body")
		body = bytes.NewReader(raw)
	}

	method := tc.Method
	if method == "" {
		method = http.MethodGet
	}
	path := tc.Path
	if path == "" {
		path = "/"
	}
	req := httptest.NewRequest(method, path, body)
	if tc.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	c.Request = req
	c.Params = tc.Params

	testCtx := &TestContext{Context: c, Recorder: w, Engine: engine}
	if tc.Session != "" {
		testCtx.SetSessionID(tc.Session)
	}
	if tc.User != uuid.Nil {
		testCtx.SetUser(tc.User, tc.Roles...)
	}
	if tc.Setup != nil {
		tc.Setup(t, testCtx)
	}

	handler(c)

	if tc.ExpectedStatus != 0 {
		assert.Equal(t, tc.ExpectedStatus, w.Code, "Unexpected status code")
	}
	if tc.ExpectedBody != nil {
		actual := JSONResponse(t, testCtx)
		for key, want := range tc.ExpectedBody {
			assert.Equal(t, want, actual[key], "Unexpected value for key: %s", key)
		}
	}
	if tc.ExpectedError != "" {
		AssertErrorResponse(t, testCtx, tc.ExpectedError)
	}
	if tc.Validate != nil {
		tc.Validate(t, testCtx)
	}
}

// JSONResponse parses the response body as a JSON object
func JSONResponse(t *testing.T, tc *TestContext) map[string]any {
	t.Helper()

	var result map[string]any
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &result), "Failed to parse JSON response")
	return result
}

// JSONResponseAs parses the response body into T
func JSONResponseAs[T any](t *testing.T, tc *TestContext) T {
	t.Helper()

	var result T
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &result), "Failed to parse JSON response")
	return result
}

// AssertErrorResponse checks the envelope is a failure carrying code
func AssertErrorResponse(t *testing.T, tc *TestContext, code string) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.Equal(t, false, resp["success"], "Expected success to be false")
	errObj, ok := resp["error"].(map[string]any)
	require.True(t, ok, "Expected error object in response")
	assert.Equal(t, code, errObj["code"], "Unexpected error code")
}
