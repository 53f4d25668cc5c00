package logger

import (
	"os"

	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap/zapcore"
)

// reportFunc delivers one log entry to the error tracker.
type reportFunc func(level zapcore.Level, msg string, extras map[string]interface{})

// rollbarCore forwards error-level entries to Rollbar alongside the regular zap output.
type rollbarCore struct {
	zapcore.LevelEnabler
	fields []zapcore.Field
	report reportFunc
	flush  func()
}

// NewRollbarCore configures the global Rollbar client and returns a core that reports
// entries at ErrorLevel and above.
func NewRollbarCore(token, env string) zapcore.Core {
	rollbar.SetToken(token)
	rollbar.SetEnvironment(env)
	if host, err := os.Hostname(); err == nil {
		rollbar.SetServerHost(host)
	}
	return newRollbarCore(sendToRollbar, rollbar.Wait)
}

func newRollbarCore(report reportFunc, flush func()) *rollbarCore {
	if flush == nil {
		flush = func() {}
	}
	return &rollbarCore{LevelEnabler: zapcore.ErrorLevel, report: report, flush: flush}
}

func sendToRollbar(level zapcore.Level, msg string, extras map[string]interface{}) {
	if level >= zapcore.DPanicLevel {
		rollbar.Critical(msg, extras)
		return
	}
	rollbar.Error(msg, extras)
}

func (c *rollbarCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = make([]zapcore.Field, 0, len(c.fields)+len(fields))
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return &clone
}

func (c *rollbarCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *rollbarCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	if ent.LoggerName != "" {
		enc.Fields["logger"] = ent.LoggerName
	}
	if ent.Caller.Defined {
		enc.Fields["caller"] = ent.Caller.TrimmedPath()
	}
	c.report(ent.Level, ent.Message, enc.Fields)
	return nil
}

func (c *rollbarCore) Sync() error {
	c.flush()
	return nil
}
