package notify

import (
	"fmt"
	"strings"

	"clearpay-api/internal/config"
	"clearpay-api/internal/utils/timeutil"
)

// PaymentAlert raises an ops alert for payment-path anomalies: failed
// compensation, amount tampering, owner-propagation failures. Fields with
// empty values are skipped.
func PaymentAlert(level, title string, fields map[string]string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Time:* %s\n", timeutil.NowSeoul().Format("2006-01-02 15:04:05")))
	for _, k := range []string{"orderId", "tid", "amount", "resultCode", "resultMsg", "reason", "traceId"} {
		if v := fields[k]; v != "" {
			sb.WriteString(fmt.Sprintf("%s: %s\n", escapeMarkdown(k), escapeMarkdown(v)))
		}
	}
	Notify(config.C.Notify.TelegramChatID, level, title, sb.String(), true)
}

// escapeMarkdown escapes Telegram Markdown special characters.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"(", "\\(",
		")", "\\)",
		"~", "\\~",
		"`", "\\`",
		">", "\\>",
		"#", "\\#",
		"+", "\\+",
		"-", "\\-",
		"=", "\\=",
		"|", "\\|",
		"{", "\\{",
		"}", "\\}",
		".", "\\.",
		"!", "\\!",
	)
	return replacer.Replace(s)
}
