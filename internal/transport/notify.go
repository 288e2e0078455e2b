package transport

import "log"

const (
	notifyPushSettings = 10
	notifyBattery      = 3
	notifyIdling       = 2
)

// handleNotification logs an asynchronous device notification and returns
// without touching the in-flight response's sequence counter. Notification
// payloads beyond the classification byte (and, for battery, the percent
// byte) are not otherwise inspected.
func handleNotification(logger *log.Logger, pkt inboundPacket) {
	if len(pkt.payload) == 0 {
		logger.Printf("polarwatch: notification received with empty payload")
		return
	}
	switch pkt.payload[0] {
	case notifyPushSettings:
		logger.Printf("polarwatch: notification received: push notification settings changed")
	case notifyBattery:
		percent := byte(0)
		if len(pkt.payload) > 2 {
			percent = pkt.payload[2]
		}
		logger.Printf("polarwatch: notification received: battery status: %d%%", percent)
	case notifyIdling:
		logger.Printf("polarwatch: notification received: device is idling")
	default:
		logger.Printf("polarwatch: notification received: unknown type %d (%v)", pkt.payload[0], pkt.payload)
	}
}
