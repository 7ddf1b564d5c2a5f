package testutils

import (
	"sync"

	"github.com/stretchr/testify/mock"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendTemplate(templateName string, to []string, subject string, data map[string]any) error {
	args := m.Called(templateName, to, subject, data)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(templateName string, to []string, data map[string]any, subject string) error {
	args := m.Called(templateName, to, data, subject)
	return args.Error(0)
}

// SentMessage is a notification captured by RecordingNotifier.
type SentMessage struct {
	Template string
	To       []string
	Data     map[string]any
	Subject  string
}

// RecordingNotifier captures every notification it is handed. It is safe for
// concurrent use.
type RecordingNotifier struct {
	mu       sync.Mutex
	messages []SentMessage
	Err      error
}

func (r *RecordingNotifier) Send(templateName string, to []string, data map[string]any, subject string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, SentMessage{
		Template: templateName,
		To:       append([]string(nil), to...),
		Data:     data,
		Subject:  subject,
	})
	return r.Err
}

func (r *RecordingNotifier) Messages() []SentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SentMessage(nil), r.messages...)
}

func (r *RecordingNotifier) ByTemplate(templateName string) []SentMessage {
	var out []SentMessage
	for _, m := range r.Messages() {
		if m.Template == templateName {
			out = append(out, m)
		}
	}
	return out
}

func (r *RecordingNotifier) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
