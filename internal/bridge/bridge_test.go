package bridge

import (
	"strings"
	"testing"
)

func render(t *testing.T, msg Message, origin string) string {
	t.Helper()
	var sb strings.Builder
	if err := Render(&sb, msg, origin); err != nil {
		t.Fatalf("render: %v", err)
	}
	return sb.String()
}

func TestRender_SuccessCarriesPayload(t *testing.T) {
	out := render(t, Success("SB260101120000ABC", "StdpayCARD123", "5000"), "https://clearpay.example.com")
	for _, want := range []string{"SUCCESS", "SB260101120000ABC", "StdpayCARD123", "postMessage", "window.close"} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if !strings.Contains(out, "https://clearpay.example.com") {
		t.Error("target origin not embedded")
	}
}

func TestRender_ScriptInjectionEscaped(t *testing.T) {
	out := render(t, Fail("SB1", "9999", `</script><script>alert(1)</script>`), "*")
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Fatal("gateway-controlled message reached the page unescaped")
	}
}

func TestRender_EmptyTypeDegradesToError(t *testing.T) {
	out := render(t, Message{}, "")
	if !strings.Contains(out, "ERROR") {
		t.Error("empty message must render as ERROR, not throw")
	}
}

func TestRender_CancelHasNoResultFields(t *testing.T) {
	out := render(t, Cancel("SB1"), "*")
	if !strings.Contains(out, "CANCEL") {
		t.Error("cancel type missing")
	}
	if strings.Contains(out, "resultCode") {
		t.Error("cancel payload must omit result fields")
	}
}

func TestRender_AlwaysClosesWindow(t *testing.T) {
	for _, msg := range []Message{
		Success("a", "b", "c"),
		Fail("a", "1", "m"),
		Cancel("a"),
		Error("boom"),
	} {
		if !strings.Contains(render(t, msg, "*"), "window.close") {
			t.Errorf("type %s page does not close itself", msg.Type)
		}
	}
}
