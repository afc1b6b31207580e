package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/registration-relay/pkg/config"
	"github.com/noah-isme/registration-relay/pkg/middleware/requestid"
)

// Redacted replaces secret values before they reach any log sink.
const Redacted = "[REDACTED]"

// maxLoggedBody caps a redacted body in a single log entry.
const maxLoggedBody = 4 << 10

// secretKeys lists payload keys whose values are never logged, compared case-insensitively.
var secretKeys = map[string]struct{}{
	"password":        {},
	"confirmpassword": {},
}

func isSecret(key string) bool {
	_, ok := secretKeys[strings.ToLower(key)]
	return ok
}

func New(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Log.Format {
	case "console":
		zapCfg.Encoding = "console"
	default:
		zapCfg.Encoding = "json"
	}

	if cfg.Log.Level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build()
}

// RedactedFields renders a flat payload as zap fields with secrets masked.
func RedactedFields(payload map[string]string) []zap.Field {
	fields := make([]zap.Field, 0, len(payload))
	for key, value := range payload {
		if isSecret(key) {
			value = Redacted
		}
		fields = append(fields, zap.String(key, value))
	}
	return fields
}

// RedactedObject wraps a payload so it is logged as a single nested object.
func RedactedObject(key string, payload map[string]string) zap.Field {
	return zap.Object(key, zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		for _, f := range RedactedFields(payload) {
			f.AddTo(enc)
		}
		return nil
	}))
}

// RedactedJSON logs a raw body under key with secret keys masked at any depth.
// Bodies that are not JSON are reduced to their length under key+"_bytes".
func RedactedJSON(key string, body []byte) zap.Field {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil || dec.More() {
		return zap.Int(key+"_bytes", len(body))
	}
	out, err := json.Marshal(redactValue(doc))
	if err != nil {
		return zap.Int(key+"_bytes", len(body))
	}
	if len(out) > maxLoggedBody {
		out = out[:maxLoggedBody]
	}
	return zap.ByteString(key, out)
}

func redactValue(v interface{}) interface{} {
	switch typed := v.(type) {
	case map[string]interface{}:
		for k, inner := range typed {
			if isSecret(k) {
				typed[k] = Redacted
				continue
			}
			typed[k] = redactValue(inner)
		}
		return typed
	case []interface{}:
		for i, inner := range typed {
			typed[i] = redactValue(inner)
		}
		return typed
	default:
		return v
	}
}

func GinMiddleware(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		reqID := requestid.Value(c)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		}
		if reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}

		l.Info("http_request", fields...)
	}
}
