package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageFullBufferMarksClientDead(t *testing.T) {
	c := &Client{Send: make(chan []byte, 1)}

	c.SendMessage(MessageTypePong, nil)
	c.SendMessage(MessageTypePong, nil)

	// The queued message survives; the overflow marked the client dead
	// without closing the channel out from under the hub.
	require.Len(t, c.Send, 1)
	assert.True(t, c.dead)

	assert.NotPanics(t, func() {
		c.SendMessage(MessageTypePong, nil)
		c.closeSend()
	})
}

func TestCloseSendIsIdempotent(t *testing.T) {
	c := &Client{Send: make(chan []byte, 1)}

	assert.NotPanics(t, func() {
		c.closeSend()
		c.closeSend()
	})

	_, open := <-c.Send
	assert.False(t, open)
}

func TestSendMessageAfterCloseIsDropped(t *testing.T) {
	c := &Client{Send: make(chan []byte, 1)}
	c.closeSend()

	assert.NotPanics(t, func() {
		c.SendMessage(MessageTypePong, nil)
	})
}
