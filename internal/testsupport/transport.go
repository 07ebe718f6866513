package testsupport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"reelgate/internal/transport"
)

// SentMessage records one SendMessage call observed by the fake client.
type SentMessage struct {
	Ref      transport.MessageRef
	Text     string
	Keyboard transport.Keyboard
}

// EditedMessage records one EditMessage call.
type EditedMessage struct {
	Ref      transport.MessageRef
	Text     string
	Keyboard transport.Keyboard
}

// CopiedMessage records one CopyMessage call.
type CopiedMessage struct {
	From transport.MessageRef
	To   transport.MessageRef
}

// FakeClient is an in-memory transport.Client that records every call. It is
// safe for concurrent use.
type FakeClient struct {
	mu        sync.Mutex
	nextMsgID int64

	Sent     []SentMessage
	Edited   []EditedMessage
	Deleted  []transport.MessageRef
	Copied   []CopiedMessage
	Answered []string

	// FailDelete makes DeleteMessage return an error when set.
	FailDelete error
	// FailCopy makes CopyMessage return an error when set.
	FailCopy error
}

// NewFakeClient returns an empty fake transport client.
func NewFakeClient() *FakeClient {
	return &FakeClient{nextMsgID: 1000}
}

func (c *FakeClient) SendMessage(_ context.Context, chatID int64, text string, keyboard transport.Keyboard) (transport.MessageRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextMsgID++
	ref := transport.MessageRef{ChatID: chatID, MessageID: c.nextMsgID}
	c.Sent = append(c.Sent, SentMessage{Ref: ref, Text: text, Keyboard: keyboard})
	return ref, nil
}

func (c *FakeClient) EditMessage(_ context.Context, ref transport.MessageRef, text string, keyboard transport.Keyboard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Edited = append(c.Edited, EditedMessage{Ref: ref, Text: text, Keyboard: keyboard})
	return nil
}

func (c *FakeClient) DeleteMessage(_ context.Context, ref transport.MessageRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailDelete != nil {
		return c.FailDelete
	}
	c.Deleted = append(c.Deleted, ref)
	return nil
}

func (c *FakeClient) CopyMessage(_ context.Context, toChatID int64, from transport.MessageRef) (transport.MessageRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailCopy != nil {
		return transport.MessageRef{}, c.FailCopy
	}
	c.nextMsgID++
	ref := transport.MessageRef{ChatID: toChatID, MessageID: c.nextMsgID}
	c.Copied = append(c.Copied, CopiedMessage{From: from, To: ref})
	return ref, nil
}

func (c *FakeClient) AnswerCallback(_ context.Context, callbackID string, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Answered = append(c.Answered, callbackID)
	return nil
}

// LastSent returns the most recent sent message, or a zero value when none
// was sent.
func (c *FakeClient) LastSent() SentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Sent) == 0 {
		return SentMessage{}
	}
	return c.Sent[len(c.Sent)-1]
}

// SentCount returns the number of SendMessage calls so far.
func (c *FakeClient) SentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Sent)
}

// DeletedCount returns the number of successful DeleteMessage calls so far.
func (c *FakeClient) DeletedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Deleted)
}

// WaitDeleted blocks until the fake has seen at least n deletions or the
// timeout elapses.
func (c *FakeClient) WaitDeleted(n int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if c.DeletedCount() >= n {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for %d deletions, saw %d", n, c.DeletedCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
