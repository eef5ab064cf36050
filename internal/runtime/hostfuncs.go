package runtime

import (
	"log/slog"

	"github.com/jward/decltree/internal/objc"
)

// logObject provides log.Info/Warn/Error methods for Risor scripts.
type logObject struct {
	logger *slog.Logger
}

func (l *logObject) Info(msg string) {
	l.logger.Info(msg, "source", "script")
}

func (l *logObject) Warn(msg string) {
	l.logger.Warn(msg, "source", "script")
}

func (l *logObject) Error(msg string) {
	l.logger.Error(msg, "source", "script")
}

// cursorGlobals exposes the fields of c a documentability script may test.
// Absent values are the zero value of their type.
//
//	kind            string  declaration kind raw value, "" when unknown
//	name            string
//	usr             string
//	declaration     string
//	file            string
//	line            int
//	should_document bool    the front end's own decision
func cursorGlobals(c objc.Cursor) map[string]any {
	var kind string
	if k, ok := c.Kind(); ok {
		kind = k.String()
	}
	var file string
	var line int64
	if l, ok := c.Location(); ok {
		file = l.File
		line = int64(l.Line)
	}
	return map[string]any{
		"kind":            kind,
		"name":            c.Name(),
		"usr":             c.USR(),
		"declaration":     c.Declaration(),
		"file":            file,
		"line":            line,
		"should_document": c.ShouldDocument(),
	}
}
