package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// doneEvent closes a step stream.
type doneEvent struct {
	RunID string `json:"run_id,omitempty"`
	Count int    `json:"count"`
	Hash  string `json:"hash"`
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// executeStream runs an algorithm and streams its steps as server-sent
// events: one unnamed event per step, then a "done" event. The run completes
// before the first byte is written, so failures are ordinary JSON errors.
func (s *Server) executeStream(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be {\"input\": {...}}")
		return
	}
	ctx := c.Request.Context()
	res, err := s.exec.ExecuteRun(ctx, c.Param("id"), req.Input)
	if err != nil {
		s.fail(c, err)
		return
	}

	setSSEHeaders(c.Writer)
	c.Status(http.StatusOK)
	for _, st := range res.Steps {
		if ctx.Err() != nil {
			return
		}
		data, err := json.Marshal(st)
		if err != nil {
			s.log.Error("encode step", "step", st.Number, "error", err)
			writeEvent(c, "error", []byte(`{"error":"internal error"}`))
			return
		}
		writeEvent(c, "", data)
	}
	data, _ := json.Marshal(doneEvent{RunID: res.Run.ID, Count: len(res.Steps), Hash: res.Run.StepsHash})
	writeEvent(c, "done", data)
}

func writeEvent(c *gin.Context, event string, data []byte) {
	if event != "" {
		fmt.Fprintf(c.Writer, "event: %s\n", event)
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", data)
	c.Writer.Flush()
}
