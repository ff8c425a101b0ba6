package validation

// InboundMessage is the form payload Twilio posts to the webhook for each
// user message. Only the fields the dialogue core needs are bound.
type InboundMessage struct {
	From string `form:"From" validate:"required"` // e.g. "whatsapp:+2250788046736"
	Body string `form:"Body"`                     // may be empty (media-only messages)
	// MessageSid identifies the inbound message for tracing; Twilio always
	// sends it but we don't fail without it.
	MessageSid string `form:"MessageSid"`
}
