package ai

import (
	"context"

	log "github.com/sirupsen/logrus"
)

type fakeCompleter struct {
	reply string
	err   error

	calls        int
	instructions string
	data         string
	options      ChatOptions
}

func (f *fakeCompleter) Name() string {
	return "fake"
}

func (f *fakeCompleter) Chat(_ context.Context, instructions, data string, opts ...ChatOption) (string, error) {
	f.calls++
	f.instructions = instructions
	f.data = data
	f.options = buildChatOptions(opts)
	return f.reply, f.err
}

func testLogger() *log.Entry {
	return log.WithField("test", true)
}
