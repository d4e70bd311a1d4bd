package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/internal/model"
	"github.com/rxtech-lab/argo-forecast/internal/pipeline"
	"github.com/rxtech-lab/argo-forecast/mocks"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type ServerTestSuite struct {
	suite.Suite
	server *Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

const prices = `Date,Open,High,Low,Close,Volume
2024-01-01,10,11,9,10.5,1000
2024-01-02,12,13,11,12.5,1100
2024-01-03,11,12,10,11.5,900
2024-01-04,13,14,12,13.5,1200
2024-01-05,14,15,13,14.5,1300
`

func (suite *ServerTestSuite) SetupTest() {
	m, err := model.NewLinearRegression(0, []float64{1, 0, 0, 0, 0, 0, 0, 0})
	suite.Require().NoError(err)

	suite.server = New(pipeline.New(m), nil)
}

func upload(target, filename, content string) *http.Request {
	var body bytes.Buffer

	form := multipart.NewWriter(&body)
	part, _ := form.CreateFormFile("file", filename)
	io.WriteString(part, content)
	form.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", form.FormDataContentType())

	return req
}

func (suite *ServerTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	suite.server.Handler().ServeHTTP(rec, req)

	return rec
}

func (suite *ServerTestSuite) decodeError(rec *httptest.ResponseRecorder) ErrorResponse {
	var response ErrorResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))

	return response
}

func (suite *ServerTestSuite) TestPredict() {
	rec := suite.serve(upload("/api/v1/predictions", "prices.csv", prices))
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	suite.Equal("application/json", rec.Header().Get("Content-Type"))

	var payload map[string]any
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &payload))

	rows := payload["rows"].([]any)
	suite.Len(rows, 4)
	suite.Equal(map[string]any{"date": "2024-01-02", "close": 12.5, "predicted_close": 12.0}, rows[0])
	suite.Equal(map[string]any{"start": "2024-01-02", "end": "2024-01-05"}, payload["range"])
	suite.Equal(false, payload["empty"])
	suite.NotEmpty(payload["run_id"])
}

func (suite *ServerTestSuite) TestPredictWithRangeAndSeries() {
	rec := suite.serve(upload("/api/v1/predictions?start=2024-01-03&end=2024-01-04&series=Close", "prices.csv", prices))
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var payload map[string]any
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &payload))
	suite.Len(payload["rows"], 2)
	suite.Equal([]any{"Close"}, payload["series"])
}

func (suite *ServerTestSuite) TestPredictEmptyRange() {
	rec := suite.serve(upload("/api/v1/predictions?start=2025-01-01&end=2025-02-01", "prices.csv", prices))
	suite.Require().Equal(http.StatusOK, rec.Code)

	var payload map[string]any
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &payload))
	suite.Equal(true, payload["empty"])
}

func (suite *ServerTestSuite) TestPredictErrors() {
	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   string
		stage  string
	}{
		{
			name:   "inverted range",
			target: "/api/v1/predictions?start=2024-01-05&end=2024-01-02",
			body:   prices,
			status: http.StatusBadRequest,
			code:   "range_invalid",
			stage:  "range_selected",
		},
		{
			name:   "missing column",
			target: "/api/v1/predictions",
			body:   "Date,Open,High,Low,Volume\n2024-01-01,1,2,0,5\n",
			status: http.StatusBadRequest,
			code:   "schema_mismatch",
			stage:  "schema_validated_a",
		},
		{
			name:   "bad date",
			target: "/api/v1/predictions",
			body:   strings.Replace(prices, "2024-01-03", "soon", 1),
			status: http.StatusBadRequest,
			code:   "date_parse",
			stage:  "features_built",
		},
		{
			name:   "empty file",
			target: "/api/v1/predictions",
			body:   "",
			status: http.StatusBadRequest,
			code:   "file_read",
			stage:  "file_read",
		},
		{
			name:   "bad start parameter",
			target: "/api/v1/predictions?start=01/02/2024",
			body:   prices,
			status: http.StatusBadRequest,
			code:   "invalid_parameter",
		},
		{
			name:   "unknown series",
			target: "/api/v1/predictions?series=Open",
			body:   prices,
			status: http.StatusBadRequest,
			code:   "invalid_parameter",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			rec := suite.serve(upload(tt.target, "prices.csv", tt.body))
			suite.Equal(tt.status, rec.Code, rec.Body.String())

			response := suite.decodeError(rec)
			suite.Equal(tt.code, response.Code)
			suite.Equal(tt.stage, response.Stage)
			suite.NotEmpty(response.Error)
		})
	}
}

func (suite *ServerTestSuite) TestPredictWithoutFile() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")

	rec := suite.serve(req)
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("invalid_parameter", suite.decodeError(rec).Code)
}

func (suite *ServerTestSuite) TestPredictModelFailure() {
	ctrl := gomock.NewController(suite.T())
	m := mocks.NewMockModel(ctrl)
	m.EXPECT().Predict(gomock.Any()).Return(nil, fmt.Errorf("shape mismatch"))

	suite.server = New(pipeline.New(m), nil)

	rec := suite.serve(upload("/api/v1/predictions", "prices.csv", prices))
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Equal("model_invocation", suite.decodeError(rec).Code)
}

func (suite *ServerTestSuite) TestMethodNotAllowed() {
	rec := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/predictions", nil))
	suite.Equal(http.StatusMethodNotAllowed, rec.Code)
}

func (suite *ServerTestSuite) TestHealth() {
	rec := suite.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func (suite *ServerTestSuite) TestMetrics() {
	suite.serve(upload("/api/v1/predictions", "prices.csv", prices))
	suite.serve(upload("/api/v1/predictions?start=2024-01-05&end=2024-01-02", "prices.csv", prices))

	rec := suite.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	suite.Require().Equal(http.StatusOK, rec.Code)

	body := rec.Body.String()
	suite.Contains(body, `argo_forecast_runs_total{outcome="ok"} 1`)
	suite.Contains(body, `argo_forecast_runs_total{outcome="range_invalid"} 1`)
	suite.Contains(body, "argo_forecast_run_duration_seconds_count 2")
	suite.Contains(body, "argo_forecast_predicted_rows_count 1")
}

func (suite *ServerTestSuite) TestUnencodableBodyBecomesServerError() {
	core, logs := observer.New(zapcore.DebugLevel)
	server := New(suite.server.pipeline, &logger.Logger{Logger: zap.New(core)})

	bodies := map[string]any{
		"infinite number": map[string]float64{"close": math.Inf(1)},
		"channel":         make(chan int),
	}

	for name, body := range bodies {
		suite.Run(name, func() {
			rec := httptest.NewRecorder()
			server.writeJSON(rec, http.StatusOK, body)

			suite.Equal(http.StatusInternalServerError, rec.Code)
			suite.Equal("application/json", rec.Header().Get("Content-Type"))

			response := suite.decodeError(rec)
			suite.Equal(errors.ErrCodeUnknown.String(), response.Code)
			suite.Contains(response.Error, "failed to encode response")
		})
	}

	suite.Len(logs.FilterMessage("Failed to encode response").All(), 2)
}

func (suite *ServerTestSuite) TestWriteJSONKeepsStatus() {
	rec := httptest.NewRecorder()
	suite.server.writeJSON(rec, http.StatusCreated, map[string]int{"rows": 4})

	suite.Equal(http.StatusCreated, rec.Code)
	suite.JSONEq(`{"rows":4}`, rec.Body.String())
}

func (suite *ServerTestSuite) TestStartAndShutdown() {
	suite.Require().NoError(suite.server.Start("127.0.0.1:0"))
	defer suite.server.Shutdown(context.Background())

	resp, err := http.Get("http://" + suite.server.Addr() + "/healthz")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code   errors.ErrorCode
		status int
	}{
		{errors.ErrCodeFileRead, http.StatusBadRequest},
		{errors.ErrCodeDateParse, http.StatusBadRequest},
		{errors.ErrCodeValueParse, http.StatusBadRequest},
		{errors.ErrCodeSchemaMismatch, http.StatusBadRequest},
		{errors.ErrCodeRangeInvalid, http.StatusBadRequest},
		{errors.ErrCodeInvalidParameter, http.StatusBadRequest},
		{errors.ErrCodeModelInvocation, http.StatusUnprocessableEntity},
		{errors.ErrCodeModelNotProvided, http.StatusInternalServerError},
		{errors.ErrCodeUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusFor(errors.New(tt.code, "x")), tt.code.String())
	}

	assert.Equal(t, http.StatusBadRequest, StatusFor(errors.NewSchemaMismatchError("A", []string{"Close"})))
}
