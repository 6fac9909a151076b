package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/quux/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
	)

	logger.Info("read", slog.String("form", "(+ 1 2)"))
	logger.Debug("not shown")
	// Output:
	// level=INFO msg=read form=(+ 1 2)
}

func Example_json() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
		log.WithLevel(log.LevelTrace),
	)

	logger.With(slog.String("component", "reader")).
		Trace("token", slog.String("text", "'"))
	// Output:
	// {"level":"TRACE","msg":"token","component":"reader","text":"'"}
}
