// Package bridge renders the tiny HTML page the popup lands on after the
// gateway redirect. Its only job is to hand the outcome back to the opener
// via postMessage and close itself. The page must never throw: a script
// error here strands the user on a blank popup with the order already
// finalized server-side.
package bridge

import (
	"html/template"
	"io"
)

// Message types posted to the opener window.
const (
	TypeSuccess = "SUCCESS"
	TypeFail    = "FAIL"
	TypeCancel  = "CANCEL"
	TypeError   = "ERROR"
)

// Payload is the data half of the posted message. Only fields relevant to
// the outcome are set; the opener must treat all of them as optional.
type Payload struct {
	OrderID       string `json:"orderId,omitempty"`
	ResultCode    string `json:"resultCode,omitempty"`
	ResultMessage string `json:"resultMessage,omitempty"`
	Tid           string `json:"tid,omitempty"`
	Amount        string `json:"amount,omitempty"`
}

// Message is the envelope posted to the opener.
type Message struct {
	Type    string  `json:"type"`
	Payload Payload `json:"payload"`
}

// The template runs through html/template so the message struct is
// JSON-encoded and escaped in JS context. Everything inside the script is
// wrapped in try/catch: window.opener may be gone, postMessage may be
// blocked, close() may be refused. The fallback text stays visible when
// close() is denied.
var pageTmpl = template.Must(template.New("bridge").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Payment</title></head>
<body>
<p>Processing payment result. You can close this window.</p>
<script>
(function () {
  try {
    var msg = {{.Msg}};
    if (window.opener && !window.opener.closed) {
      window.opener.postMessage(msg, {{.TargetOrigin}});
    }
  } catch (e) {}
  try { window.close(); } catch (e) {}
})();
</script>
</body>
</html>
`))

type pageData struct {
	Msg          Message
	TargetOrigin string
}

// Render writes the continuation page. targetOrigin restricts delivery to
// the host application origin; pass "*" only in local development.
func Render(w io.Writer, msg Message, targetOrigin string) error {
	if msg.Type == "" {
		msg.Type = TypeError
	}
	if targetOrigin == "" {
		targetOrigin = "*"
	}
	return pageTmpl.Execute(w, pageData{Msg: msg, TargetOrigin: targetOrigin})
}

func Success(orderID, tid, amount string) Message {
	return Message{Type: TypeSuccess, Payload: Payload{OrderID: orderID, Tid: tid, Amount: amount}}
}

func Fail(orderID, code, message string) Message {
	return Message{Type: TypeFail, Payload: Payload{OrderID: orderID, ResultCode: code, ResultMessage: message}}
}

func Cancel(orderID string) Message {
	return Message{Type: TypeCancel, Payload: Payload{OrderID: orderID}}
}

func Error(message string) Message {
	return Message{Type: TypeError, Payload: Payload{ResultMessage: message}}
}
