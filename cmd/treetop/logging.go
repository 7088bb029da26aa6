package main

import (
	"io"
	"log/slog"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/treetop/internal/config"
	"github.com/vancomm/treetop/internal/forest"
)

var log = logrus.New()

func setupLogging(stderr io.Writer, verbose bool, logFile string) error {
	log.SetOutput(stderr)
	log.ReplaceHooks(make(logrus.LevelHooks))
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	level, slogLevel := logrus.WarnLevel, slog.LevelWarn
	if verbose || config.Development() {
		level, slogLevel = logrus.DebugLevel, slog.LevelDebug
	}
	log.SetLevel(level)

	forest.Log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slogLevel}))

	lf, err := config.NewLogFile(logFile)
	if err != nil {
		return err
	}
	if lf == nil {
		return nil
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   lf.Path,
		MaxSize:    lf.MaxSizeMB,
		MaxBackups: lf.MaxBackups,
		MaxAge:     lf.MaxAgeDays,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return err
	}
	log.AddHook(hook)

	log.WithFields(logrus.Fields{
		"path":      lf.Path,
		"maxSizeMB": lf.MaxSizeMB,
	}).Debug("logging to file")
	return nil
}
