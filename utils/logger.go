/*
 * Copyright 2026 quarrylabs.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the logger type used throughout the module.
type Logger = logrus.Logger

var (
	loggerRegistryMu sync.RWMutex
	loggerRegistry   = map[string]*logrus.Logger{}
	consoleLogFormat = EnvDefaultString("CONSOLE_LOG_FORMAT", "text")
	defaultLevel     = ParseLogLevel(EnvDefaultString("LOG_LEVEL", "info"))
)

type namedFormatter struct {
	name      string
	formatter logrus.Formatter
}

func (f *namedFormatter) Format(e *logrus.Entry) ([]byte, error) {
	b, err := f.formatter.Format(e)
	if err != nil {
		return nil, err
	}
	return append([]byte(fmt.Sprintf("[%s] ", f.name)), b...), nil
}

// NewLogger returns the named logger, creating and registering it on first use.
func NewLogger(name string) *logrus.Logger {
	loggerRegistryMu.RLock()
	l, ok := loggerRegistry[name]
	loggerRegistryMu.RUnlock()
	if ok {
		return l
	}

	l = logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(defaultLevel)
	var inner logrus.Formatter
	if consoleLogFormat == "json" {
		inner = &logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05.000"}
	} else {
		inner = &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		}
	}
	l.SetFormatter(&namedFormatter{name: name, formatter: inner})

	loggerRegistryMu.Lock()
	if existing, ok := loggerRegistry[name]; ok {
		l = existing
	} else {
		loggerRegistry[name] = l
	}
	loggerRegistryMu.Unlock()
	return l
}

// SetLoggerLevel adjusts the level of a registered logger by name.
func SetLoggerLevel(name string, level string) {
	loggerRegistryMu.RLock()
	l, ok := loggerRegistry[name]
	loggerRegistryMu.RUnlock()
	if ok {
		l.SetLevel(ParseLogLevel(level))
	}
}

// ParseLogLevel maps a level name to a logrus level, defaulting to info.
func ParseLogLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info", "":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

// EnvDefaultString reads an environment variable with a fallback value.
func EnvDefaultString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// EnvDefaultBool reads a boolean environment variable with a fallback value.
func EnvDefaultBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
