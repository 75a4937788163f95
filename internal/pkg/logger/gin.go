package logger

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// SetupGin 挂载访问日志与 panic 恢复，访问日志与 slog 同为 JSON 行格式
func SetupGin(r *gin.Engine, service string) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    LogWriter,
		SkipPaths: []string{"/healthz"},
		Formatter: func(p gin.LogFormatterParams) string {
			var traceID string
			if p.Keys != nil {
				if id, ok := p.Keys[TraceIDKey].(string); ok {
					traceID = id
				}
			}

			if traceID == "" && p.Request != nil {
				if id, ok := p.Request.Context().Value(TraceIDKey).(string); ok {
					traceID = id
				}
			}

			level := "INFO"
			if p.StatusCode >= 500 {
				level = "ERROR"
			}

			return fmt.Sprintf(
				`{"time":"%s","level":"%s","msg":"GIN_ACCESS","service":"%s","trace_id":"%s","method":"%s","path":"%s","status":%d,"client_ip":"%s","latency":"%v"}`+"\n",
				p.TimeStamp.Format(time.RFC3339),
				level,
				service,
				traceID,
				p.Method,
				p.Path,
				p.StatusCode,
				p.ClientIP,
				p.Latency,
			)
		},
	}))

	r.Use(gin.Recovery())
}
