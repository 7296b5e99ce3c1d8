// Package domain contains core concepts of the relay.
// This file defines ChatMessage and its wire representations.
// Messages are immutable once stamped by the relay.
package domain

import "time"

// TimestampLayout is the wall-clock format stamped on every message.
// The persisted file and the broadcast frames both use it, so it is
// part of the storage and wire compatibility contract.
const TimestampLayout = "2006-01-02 15:04:05"

// ChatMessage is a relayed chat event. Time is always assigned by the
// relay at ingestion, never trusted from the client.
type ChatMessage struct {
	Sender        string `json:"sender"`
	SenderAddress string `json:"senderAddress"`
	Time          string `json:"time"`
	Text          string `json:"message"`
}

// InboundMessage is the raw payload received on the ingest channel.
// The client-supplied Time field is ignored and overwritten.
type InboundMessage struct {
	Type          string `json:"type" validate:"required,eq=MESSAGE"`
	Text          string `json:"message"`
	Sender        string `json:"sender" validate:"required"`
	SenderAddress string `json:"senderAddress"`
	Time          string `json:"time"`
}

// Stamp converts an inbound payload into a ChatMessage carrying the
// relay-local time.
func (m InboundMessage) Stamp(at time.Time) ChatMessage {
	return ChatMessage{
		Sender:        m.Sender,
		SenderAddress: m.SenderAddress,
		Time:          at.Format(TimestampLayout),
		Text:          m.Text,
	}
}
