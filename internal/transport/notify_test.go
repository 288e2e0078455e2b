package transport

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestHandleNotificationBattery(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	pkt := inboundPacket{notification: true, payload: []byte{notifyBattery, 0x00, 42}}
	handleNotification(logger, pkt)

	if !strings.Contains(buf.String(), "42%") {
		t.Errorf("log output = %q, want it to mention 42%%", buf.String())
	}
}

func TestHandleNotificationIdling(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	pkt := inboundPacket{notification: true, payload: []byte{notifyIdling}}
	handleNotification(logger, pkt)

	if !strings.Contains(buf.String(), "idling") {
		t.Errorf("log output = %q, want it to mention idling", buf.String())
	}
}

func TestHandleNotificationEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	handleNotification(logger, inboundPacket{notification: true})

	if buf.Len() == 0 {
		t.Error("expected a log line for an empty notification payload")
	}
}
