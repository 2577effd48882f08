package logger

import (
	"context"
	"fmt"
	"github.com/maxaizer/recruitment-funnel/internal/config"
	"github.com/maxaizer/recruitment-funnel/pkg/loki"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"path/filepath"
	"strconv"
)

// lokiFailureField marks entries about the pusher itself; they are never shipped to Loki.
const lokiFailureField = "loki_failure"

type pusherErrors struct{}

func (pusherErrors) Error(msg string, args ...any) {
	log.WithFields(log.Fields{lokiFailureField: true, ErrorTypeField: ErrorTypeLoki}).
		Errorf("%s: %v", msg, args)
}

type lokiHook struct {
	pusher *loki.Pusher
	levels []log.Level
}

func newLokiHook(pusher *loki.Pusher, minLevel log.Level) *lokiHook {
	return &lokiHook{pusher: pusher, levels: log.AllLevels[:minLevel+1]}
}

func (h *lokiHook) Levels() []log.Level {
	return h.levels
}

// Fire queues the entry. A full buffer drops it so logging never blocks on Loki.
func (h *lokiHook) Fire(entry *log.Entry) error {
	if _, internal := entry.Data[lokiFailureField]; internal {
		return nil
	}

	err := h.pusher.Push(loki.LogEntry{
		Level:   entry.Level.String(),
		Message: entry.Message,
		Caller:  entryCaller(entry),
		Fields:  stringFields(entry.Data),
	})
	if errors.Is(err, loki.ErrBufferFull) {
		return nil
	}
	return err
}

func entryCaller(entry *log.Entry) string {
	if !entry.HasCaller() {
		return ""
	}
	return filepath.Base(entry.Caller.Function) + ":" + strconv.Itoa(entry.Caller.Line)
}

func stringFields(data log.Fields) map[string]string {
	if len(data) == 0 {
		return nil
	}

	fields := make(map[string]string, len(data))
	for key, value := range data {
		switch v := value.(type) {
		case string:
			fields[key] = v
		case error:
			fields[key] = v.Error()
		default:
			fields[key] = fmt.Sprint(v)
		}
	}
	return fields
}

func enableLoki(ctx context.Context, cfg config.LoggerConfig, minLevel log.Level) error {
	pusher, err := loki.New(ctx, loki.Config{
		Url:      cfg.LokiURL,
		Username: cfg.LokiUser,
		Password: cfg.LokiPassword,
		Labels:   map[string]string{"app": cfg.AppName},
		// error_type has a handful of values, so it is safe as a label
		StreamFields: []string{ErrorTypeField},
	}, pusherErrors{})
	if err != nil {
		return err
	}

	lokiPusher = pusher
	log.AddHook(newLokiHook(pusher, minLevel))
	log.Infof("shipping logs of %s to loki", cfg.AppName)
	return nil
}
