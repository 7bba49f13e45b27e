package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonhuth/dsa/internal/algo"
	"github.com/jonhuth/dsa/internal/backend"
	"github.com/jonhuth/dsa/internal/catalog"
	"github.com/jonhuth/dsa/internal/playback"
	"github.com/jonhuth/dsa/internal/server"
	"github.com/jonhuth/dsa/internal/step"
	"github.com/jonhuth/dsa/internal/store"
	"github.com/jonhuth/dsa/internal/testutil"
)

var _ playback.Executor = (*Client)(nil)

func newClient(t *testing.T, opts ...backend.Option) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cat, err := catalog.Load()
	require.NoError(t, err)
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	opts = append([]backend.Option{backend.WithStore(st), backend.WithIDGenerator(testutil.NewSequentialIDs(""))}, opts...)
	srv := server.New(cat, backend.New(algo.NewRegistry(), opts...),
		server.WithStore(st), server.WithGatherer(prometheus.NewRegistry()))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c, err := New(ts.URL + "/")
	require.NoError(t, err)
	return c
}

func TestExecute(t *testing.T) {
	c := newClient(t)
	steps, err := c.Execute(context.Background(), "bubble_sort", json.RawMessage(`{"array":[3,1,2]}`))
	require.NoError(t, err)
	require.NotEmpty(t, steps)
	assert.Equal(t, []int{3, 1, 2}, steps[0].State.(step.ArrayState).Values)
	assert.Equal(t, []int{1, 2, 3}, steps[len(steps)-1].State.(step.ArrayState).Values)
}

func TestExecuteRun_ThenFetchRun(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	res, err := c.ExecuteRun(ctx, "fibonacci_memo", json.RawMessage(`{"n":6}`))
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)

	run, err := c.Run(ctx, res.RunID)
	require.NoError(t, err)
	assert.Equal(t, res.Hash, run.StepsHash)
	assert.Len(t, run.Steps, res.Count)
}

func TestAlgorithms(t *testing.T) {
	algos, err := newClient(t).Algorithms(context.Background())
	require.NoError(t, err)
	assert.Len(t, algos, 22)
}

func TestErrorsMapToLocalTypes(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, backend.WithMaxSteps(3))

	_, err := c.Execute(ctx, "bubble_sort", json.RawMessage(`{"array":[1,1000]}`))
	var ie *algo.InputError
	require.True(t, errors.As(err, &ie), "%v", err)
	assert.Equal(t, "array[1]", ie.Field)
	assert.Equal(t, "must be <= 999", ie.Message)

	_, err = c.Execute(ctx, "bogo_sort", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, backend.ErrUnknownAlgorithm)

	_, err = c.Execute(ctx, "bubble_sort", json.RawMessage(`{"array":[5,4,3,2,1]}`))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "%v", err)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, string(backend.StatusQuota), apiErr.Status)
}

func TestSessionOverHTTP(t *testing.T) {
	c := newClient(t)
	loader := &sliceLoader{}
	s := playback.NewSession(c, loader)

	require.NoError(t, s.Run(context.Background(), "bfs", json.RawMessage(`{"graph":{"0":[1,2],"1":[2],"2":[]},"start":0}`)))
	assert.NotEmpty(t, loader.steps)

	err := s.Run(context.Background(), "bfs", json.RawMessage(`{"graph":{"0":[1]},"start":5}`))
	assert.True(t, algo.IsInputError(err))
	assert.Equal(t, err, s.LastError())
}

type sliceLoader struct{ steps []step.Step }

func (l *sliceLoader) Load(steps []step.Step) bool {
	l.steps = steps
	return true
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)
	_, err = New("://nope")
	assert.Error(t, err)
}
