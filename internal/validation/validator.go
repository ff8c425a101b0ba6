package validation

import (
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// InboundMessage.From must carry a phone number we can key sessions on.
	v.RegisterStructValidation(inboundMessageStructValidation, InboundMessage{})

	return v
}

// inboundMessageStructValidation ensures From is a WhatsApp-prefixed or
// plain E.164-ish number, not an arbitrary string.
func inboundMessageStructValidation(sl validatorv10.StructLevel) {
	msg := sl.Current().Interface().(InboundMessage)

	number := strings.TrimPrefix(msg.From, "whatsapp:")
	if !strings.HasPrefix(number, "+") || len(number) < 8 {
		sl.ReportError(msg.From, "from", "From", "phone_number", "")
	}
}
