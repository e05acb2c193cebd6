package server

import (
	"encoding/json"
	"testing"
	"time"
)

func TestWebLogger_ForwardsFormattedMessages(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-123", messageChan)

	messages := []struct {
		format   string
		args     []interface{}
		expected string
	}{
		{"Rendering %dx%d\n", []interface{}{64, 32}, "Rendering 64x32\n"},
		{"Tile %d of %d done\n", []interface{}{3, 8}, "Tile 3 of 8 done\n"},
		{"plain message", nil, "plain message"},
	}
	for _, m := range messages {
		logger.Printf(m.format, m.args...)
	}

	for i, m := range messages {
		select {
		case msg := <-messageChan:
			if msg.Message != m.expected {
				t.Errorf("Message %d: expected %q, got %q", i, m.expected, msg.Message)
			}
			if msg.Level != LevelInfo {
				t.Errorf("Expected level %q, got %q", LevelInfo, msg.Level)
			}
			if time.Since(msg.Timestamp) > time.Second {
				t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for message %d", i)
		}
	}
}

func TestWebLogger_FullChannelDoesNotBlock(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("test-render-789", messageChan)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			logger.Printf("Message %d\n", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Logger blocked on a full channel")
	}

	if msg := <-messageChan; msg.Message != "Message 0\n" {
		t.Errorf("Expected first message to be kept, got %q", msg.Message)
	}
}

func TestMessageLevel(t *testing.T) {
	tests := []struct {
		message string
		level   string
	}{
		{"Rendering 400x200 at 16 samples per pixel: 91 tiles on 8 workers...\n", LevelInfo},
		{"Rendering cancelled after 3 of 91 tiles\n", LevelWarning},
		{"Warning: large image\n", LevelWarning},
		{"Render of preview failed: boom\n", LevelError},
		{"Error: no scene\n", LevelError},
	}
	for _, tt := range tests {
		if got := messageLevel(tt.message); got != tt.level {
			t.Errorf("messageLevel(%q) = %q, expected %q", tt.message, got, tt.level)
		}
	}
}

func TestWebLogger_NilChannel(t *testing.T) {
	logger := NewWebLogger("test-render-nil", nil)
	logger.Printf("Test message with nil channel\n")
}

func TestConsoleMessage_JSONFields(t *testing.T) {
	data, err := json.Marshal(ConsoleMessage{Message: "hi", Timestamp: time.Now(), Level: "info"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"message", "timestamp", "level"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("Expected key %q in %s", key, data)
		}
	}
}
