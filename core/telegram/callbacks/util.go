package callbacks

import (
	tele "gopkg.in/telebot.v4"
)

const (
	keyContextKey     = "cb_key"
	payloadContextKey = "cb_payload"
)

// StoreMatch stashes the matched callback key and payload remainder on the
// context so downstream handlers can read them via CallbackKey/CallbackPayload.
func StoreMatch(c tele.Context, key, payload string) {
	if c == nil {
		return
	}
	c.Set(keyContextKey, key)
	c.Set(payloadContextKey, payload)
}

// CallbackKey returns the matched callback key, or the raw data when the
// router has not stashed a match.
func CallbackKey(c tele.Context) string {
	if v, ok := c.Get(keyContextKey).(string); ok && v != "" {
		return v
	}
	if cb := c.Callback(); cb != nil {
		return cb.Data
	}
	return ""
}

// CallbackPayload returns the payload remainder after the matched prefix.
func CallbackPayload(c tele.Context) string {
	if v, ok := c.Get(payloadContextKey).(string); ok {
		return v
	}
	return ""
}
