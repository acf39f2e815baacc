package middleware

import (
	"time"

	"stockledger/internal/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// 1リクエスト1行のログと、リクエスト数・処理時間のメトリクス。
func RequestLog(log *zap.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			//エラーはここでレスポンスにしてからステータスを読む
			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			latency := time.Since(start)

			//ルートのパターン（未登録のパスは1つにまとめる）
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			m.RecordHTTPRequest(req.Method, path, status, latency)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", status),
				zap.Duration("latency", latency),
			}
			switch {
			case status >= 500:
				log.Error("request", fields...)
			case status >= 400:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
			return nil
		}
	}
}
