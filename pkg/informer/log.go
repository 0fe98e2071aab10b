package informer

import (
	"time"

	"github.com/rs/zerolog"
)

// NewLog returns an Informer that writes each message to logger.
func NewLog(logger zerolog.Logger) Informer {
	return Func(func(codes []Code, params Params) {
		var event *zerolog.Event
		switch SeverityOf(codes) {
		case SeverityError:
			event = logger.Error()
		case SeverityWarning:
			event = logger.Warn()
		default:
			event = logger.Info()
		}
		strs := make([]string, len(codes))
		for i, c := range codes {
			strs[i] = string(c)
		}
		event = event.Strs("codes", strs)
		for key, value := range params {
			if d, ok := value.(time.Duration); ok {
				event = event.Dur(key, d)
				continue
			}
			event = event.Interface(key, value)
		}
		event.Msg(Format(codes, params))
	})
}
