package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/config"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ServerCmdTestSuite struct {
	suite.Suite
	settings config.Config
}

func TestServerCmdSuite(t *testing.T) {
	suite.Run(t, new(ServerCmdTestSuite))
}

const artifact = `format_version: 1.0.0
name: test
intercept: 0
coefficients:
  Open: 1
  High: 0
  Low: 0
  Volume: 0
  Open_lag: 0
  High_lag: 0
  Low_lag: 0
  Volume_lag: 0
`

func (suite *ServerCmdTestSuite) SetupTest() {
	modelPath := filepath.Join(suite.T().TempDir(), "model.yaml")
	suite.Require().NoError(os.WriteFile(modelPath, []byte(artifact), 0o600))

	suite.settings = config.Default()
	suite.settings.ModelPath = modelPath
	suite.settings.LogLevel = "error"
	suite.settings.Server.Addr = "127.0.0.1:0"
}

func (suite *ServerCmdTestSuite) TestServeUntilCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrs := make(chan string, 1)
	done := make(chan error, 1)

	go func() {
		done <- serve(ctx, suite.settings, func(addr string) { addrs <- addr })
	}()

	var addr string
	select {
	case addr = <-addrs:
	case err := <-done:
		suite.FailNow("server stopped early", "%v", err)
	case <-time.After(5 * time.Second):
		suite.FailNow("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	suite.Require().NoError(err)
	resp.Body.Close()
	suite.Equal(http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		suite.NoError(err)
	case <-time.After(5 * time.Second):
		suite.FailNow("server did not shut down")
	}
}

func (suite *ServerCmdTestSuite) TestServeMissingModel() {
	suite.settings.ModelPath = filepath.Join(suite.T().TempDir(), "missing.yaml")

	err := serve(context.Background(), suite.settings, nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeModelLoad))
}

func (suite *ServerCmdTestSuite) TestServeInvalidAddress() {
	suite.settings.Server.Addr = "not an address"

	err := serve(context.Background(), suite.settings, nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}
