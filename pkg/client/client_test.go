package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/pentestreports/mcp-server/pkg/types"
)

type ClientTestSuite struct {
	suite.Suite
	logger zerolog.Logger
}

func (s *ClientTestSuite) SetupTest() {
	s.logger = zerolog.New(os.Stderr)
}

func (s *ClientTestSuite) newClient(baseURL, token string) *Client {
	return New(Config{BaseURL: baseURL, BearerToken: token}, s.logger)
}

func (s *ClientTestSuite) TestExecute_SuccessEnvelope() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/api/report", r.URL.Path)
		s.Equal(http.MethodGet, r.Method)
		s.Equal("Bearer configured-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"_id":"67b1dac12c8d23272ad47cbd","title":"Q1 Assessment"}]`))
	}))
	defer ts.Close()

	c := s.newClient(ts.URL, "configured-token")
	env, err := c.Execute(context.Background(), http.MethodGet, "/report", "", nil)

	s.Require().NoError(err)
	s.True(env.Success)
	s.Equal(http.StatusOK, env.Status)
	s.NotEmpty(env.Timestamp)
	s.Empty(env.Error)

	var reports []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &reports))
	s.Len(reports, 1)
}

func (s *ClientTestSuite) TestExecute_UpstreamErrorIsEnvelopeNotError() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"report not found"}`))
	}))
	defer ts.Close()

	c := s.newClient(ts.URL, "token")
	env, err := c.Execute(context.Background(), http.MethodGet, "/report/aaaaaaaaaaaaaaaaaaaaaaaa", "", nil)

	s.Require().NoError(err, "upstream rejections must be returned as data")
	s.False(env.Success)
	s.Equal(http.StatusNotFound, env.Status)
	s.Equal("report not found", env.Error)
	s.NotEmpty(env.Timestamp)
}

func (s *ClientTestSuite) TestExecute_UpstreamErrorFallsBackToStatusLine() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := s.newClient(ts.URL, "token")
	env, err := c.Execute(context.Background(), http.MethodGet, "/report", "", nil)

	s.Require().NoError(err)
	s.False(env.Success)
	s.Contains(env.Error, "500")
}

func (s *ClientTestSuite) TestExecute_ConnectionRefusedIsInternalError() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // nothing listens anymore

	c := s.newClient(ts.URL, "token")
	env, err := c.Execute(context.Background(), http.MethodGet, "/report", "", nil)

	s.Nil(env)
	s.Require().Error(err)

	var internalErr *types.InternalError
	s.Require().ErrorAs(err, &internalErr)
	s.Contains(internalErr.Error(), "no response received from")
	s.Contains(internalErr.Error(), "/api/report", "error must name the unreachable endpoint")
}

func (s *ClientTestSuite) TestExecute_TimeoutDuringBodyReadIsNoResponse() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Send headers, then stall the body past the caller's deadline.
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		time.Sleep(300 * time.Millisecond)
	}))
	defer ts.Close()

	c := s.newClient(ts.URL, "token")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	env, err := c.Execute(ctx, http.MethodGet, "/report", "", nil)

	s.Nil(env)
	var internalErr *types.InternalError
	s.Require().ErrorAs(err, &internalErr)
	s.Contains(internalErr.Error(), "no response received from")
	s.Contains(internalErr.Error(), "/api/report")
}

func (s *ClientTestSuite) TestExecute_NoTokenIsParamError() {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer ts.Close()

	c := s.newClient(ts.URL, "")
	env, err := c.Execute(context.Background(), http.MethodGet, "/report", "", nil)

	s.Nil(env)
	var paramErr *types.ParamError
	s.Require().ErrorAs(err, &paramErr)
	s.Contains(paramErr.Error(), "no bearer token available")
	s.Zero(requests, "credential resolution failure must not reach the network")
}

func (s *ClientTestSuite) TestExecute_PerCallTokenOverridesDefault() {
	var seen string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
	}))
	defer ts.Close()

	c := s.newClient(ts.URL, "configured-token")
	_, err := c.Execute(context.Background(), http.MethodGet, "/report", "override-token", nil)

	s.Require().NoError(err)
	s.Equal("Bearer override-token", seen)
}

func (s *ClientTestSuite) TestExecute_PerCallTokenWithoutDefault() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	c := s.newClient(ts.URL, "")
	_, err := c.Execute(context.Background(), http.MethodGet, "/report", "per-call", nil)

	s.NoError(err)
}

func (s *ClientTestSuite) TestExecute_BodyIsJSONEncoded() {
	var received map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("application/json", r.Header.Get("Content-Type"))
		s.NoError(json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	c := s.newClient(ts.URL, "token")
	body := map[string]any{"title": "New Report", "testers": []string{}}
	env, err := c.Execute(context.Background(), http.MethodPost, "/report", "", body)

	s.Require().NoError(err)
	s.True(env.Success)
	s.Equal(http.StatusCreated, env.Status)
	s.Equal("New Report", received["title"])
}

func (s *ClientTestSuite) TestExecute_UnencodableBodyIsInternalError() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	c := s.newClient(ts.URL, "token")
	_, err := c.Execute(context.Background(), http.MethodPost, "/report", "", map[string]any{"bad": make(chan int)})

	var internalErr *types.InternalError
	s.Require().ErrorAs(err, &internalErr)
	s.Contains(internalErr.Error(), "failed to encode request body")
}

func (s *ClientTestSuite) TestExecute_NonJSONSuccessBodyStillMarshals() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain text"))
	}))
	defer ts.Close()

	c := s.newClient(ts.URL, "token")
	env, err := c.Execute(context.Background(), http.MethodGet, "/report", "", nil)

	s.Require().NoError(err)
	data, err := json.Marshal(env)
	s.Require().NoError(err)
	s.Contains(string(data), "plain text")
}

func (s *ClientTestSuite) TestEnvelope_EndpointNotSerialized() {
	env := &Envelope{Success: true, Status: 200, Timestamp: "2026-01-01T00:00:00Z", Endpoint: "http://internal"}

	data, err := json.Marshal(env)
	s.Require().NoError(err)
	s.False(strings.Contains(string(data), "http://internal"))
}

func TestTimeoutFor(t *testing.T) {
	if timeoutFor(http.MethodGet) != types.ReadTimeout {
		t.Error("expected read timeout for GET")
	}
	if timeoutFor(http.MethodDelete) != types.ReadTimeout {
		t.Error("expected read timeout for DELETE")
	}
	if timeoutFor(http.MethodPost) != types.WriteTimeout {
		t.Error("expected write timeout for POST")
	}
	if timeoutFor(http.MethodPut) != types.WriteTimeout {
		t.Error("expected write timeout for PUT")
	}
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}
