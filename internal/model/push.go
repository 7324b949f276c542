package model

import "time"

// PushSubscription is a registered Web Push endpoint for one device of
// this installation. Having at least one subscription is what "platform
// permission granted" means on the server side.
type PushSubscription struct {
	ID         int64     `json:"id"`
	Endpoint   string    `json:"endpoint"`
	P256dhKey  string    `json:"p256dh_key"`
	AuthKey    string    `json:"auth_key"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
}
