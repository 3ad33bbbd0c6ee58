package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/keywordiq-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		c.String(http.StatusOK, td.TraceID+"|"+td.RequestID)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-42")
	req.Header.Set(headerTraceID, strings.Repeat("a", maxInboundIDLength+1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	parts := strings.Split(rec.Body.String(), "|")
	if len(parts) != 2 || parts[1] != "req-42" {
		t.Fatalf("body=%q", rec.Body.String())
	}
	if len(parts[0]) != 36 {
		t.Fatalf("oversized trace id was not replaced: %q", parts[0])
	}
	if rec.Header().Get(headerRequestID) != "req-42" || rec.Header().Get(headerTraceID) != parts[0] {
		t.Fatalf("headers=%v", rec.Header())
	}
}
