package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/keywordiq-backend/internal/platform/apierr"
)

func record(t *testing.T, fn gin.HandlerFunc) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", fn)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, body
}

func TestRespondOKMergesPayload(t *testing.T) {
	code, body := record(t, func(c *gin.Context) {
		RespondOK(c, gin.H{"data": []int{1}, "success": false})
	})
	if code != http.StatusOK || body["success"] != true || body["message"] != MessageSuccess || body["data"] == nil {
		t.Fatalf("code=%d body=%v", code, body)
	}
}

func TestRespondAPIErrorMessages(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apierr.BadRequest("missing_goals", errors.New("goals are required")), 400, "goals are required"},
		{apierr.New(402, "insufficient_credit", errors.New("insufficient credit")), 402, MessageInsufficientPoints},
		{apierr.New(502, "channel_no_results", errors.New("could not generate results")), 502, MessageNoResults},
		{apierr.New(503, "channel_unavailable", errors.New("channel maps is not configured")), 503, MessageUnavailable},
		{apierr.New(504, "upstream_timeout", errors.New("dial tcp 10.0.0.3:443: i/o timeout")), 504, MessageGeneric},
		{apierr.New(500, "settle_failed", errors.New("deadlock detected")), 500, MessageGeneric},
		{errors.New("pq: connection refused"), 500, MessageGeneric},
	}
	for _, tc := range cases {
		code, body := record(t, func(c *gin.Context) { RespondAPIError(c, nil, tc.err) })
		if code != tc.status || body["success"] != false || body["message"] != tc.message {
			t.Fatalf("%v: code=%d body=%v", tc.err, code, body)
		}
	}
}
