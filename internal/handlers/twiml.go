package handlers

import (
	"encoding/xml"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lusterchocolate/orderbot/internal/dialogue"
)

// twimlMessage mirrors Twilio's <Message> element.
type twimlMessage struct {
	Body  string `xml:"Body"`
	Media string `xml:"Media,omitempty"`
}

// twimlResponse is the <Response> document Twilio expects from a messaging
// webhook.
type twimlResponse struct {
	XMLName  xml.Name       `xml:"Response"`
	Messages []twimlMessage `xml:"Message"`
}

// RenderTwiML serializes replies into a TwiML document.
func RenderTwiML(replies []dialogue.Reply) ([]byte, error) {
	resp := twimlResponse{}
	for _, r := range replies {
		resp.Messages = append(resp.Messages, twimlMessage{Body: r.Text, Media: r.MediaURL})
	}
	out, err := xml.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// WriteTwiML writes the replies as a TwiML response.
func WriteTwiML(c *gin.Context, replies []dialogue.Reply) {
	body, err := RenderTwiML(replies)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "twiml_encoding_failed"})
		return
	}
	c.Data(http.StatusOK, "application/xml", body)
}
