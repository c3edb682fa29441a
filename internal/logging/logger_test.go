// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// capture swaps the global logger for one writing to a buffer.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	buf := &bytes.Buffer{}
	SetLogger(NewTestLogger(buf))
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})
	return buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if i := strings.LastIndex(line, "\n"); i >= 0 {
		line = line[i+1:]
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("decode %q: %v", line, err)
	}
	return m
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"warn", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	if !ValidLevel("debug") || !ValidLevel("Warn") {
		t.Error("known levels rejected")
	}
	if ValidLevel("verbose") {
		t.Error("unknown level accepted")
	}
}

func TestWithComponent(t *testing.T) {
	buf := capture(t)
	l := WithComponent("scorer")
	l.Info().Msg("hello")

	m := decodeLine(t, buf)
	if m["component"] != "scorer" {
		t.Errorf("component = %v", m["component"])
	}
	if m["message"] != "hello" {
		t.Errorf("message = %v", m["message"])
	}
}

func TestCtxAddsIDs(t *testing.T) {
	buf := capture(t)
	ctx := ContextWithCorrelationID(context.Background(), "abc12345")
	ctx = ContextWithRunID(ctx, "run-1")
	Ctx(ctx).Warn().Msg("x")

	m := decodeLine(t, buf)
	if m["correlation_id"] != "abc12345" {
		t.Errorf("correlation_id = %v", m["correlation_id"])
	}
	if m["run_id"] != "run-1" {
		t.Errorf("run_id = %v", m["run_id"])
	}
}

func TestCtxWithoutIDs(t *testing.T) {
	buf := capture(t)
	Ctx(context.Background()).Info().Msg("plain")

	m := decodeLine(t, buf)
	if _, ok := m["correlation_id"]; ok {
		t.Error("unexpected correlation_id")
	}
}

func TestGenerateCorrelationID(t *testing.T) {
	a, b := GenerateCorrelationID(), GenerateCorrelationID()
	if len(a) != 8 {
		t.Errorf("len = %d, want 8", len(a))
	}
	if a == b {
		t.Error("ids should differ")
	}
	ctx := ContextWithNewCorrelationID(context.Background())
	if CorrelationIDFromContext(ctx) == "" {
		t.Error("missing id")
	}
}

func TestSlogHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	prevLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prevLevel) })

	logger := slog.New(NewSlogHandler(NewTestLogger(buf)))
	logger.With("service", "pipeline").WithGroup("restart").Warn("service failed",
		"attempt", 3, "backoff", false)

	m := decodeLine(t, buf)
	if m["level"] != "warn" {
		t.Errorf("level = %v", m["level"])
	}
	if m["service"] != "pipeline" {
		t.Errorf("service = %v", m["service"])
	}
	if m["restart.attempt"] != float64(3) {
		t.Errorf("restart.attempt = %v", m["restart.attempt"])
	}
	if m["restart.backoff"] != false {
		t.Errorf("restart.backoff = %v", m["restart.backoff"])
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	h := NewSlogHandler(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestWatermillAdapter(t *testing.T) {
	buf := &bytes.Buffer{}
	prevLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prevLevel) })

	var a watermill.LoggerAdapter = NewWatermillAdapter(NewTestLogger(buf))
	a = a.With(watermill.LogFields{"topic": "content.items"})
	a.Error("publish failed", errors.New("closed"), watermill.LogFields{"uuid": "m1"})

	m := decodeLine(t, buf)
	if m["topic"] != "content.items" {
		t.Errorf("topic = %v", m["topic"])
	}
	if m["uuid"] != "m1" {
		t.Errorf("uuid = %v", m["uuid"])
	}
	if m["error"] != "closed" {
		t.Errorf("error = %v", m["error"])
	}
}
