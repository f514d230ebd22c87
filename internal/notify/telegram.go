package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
)

type TelegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
	Parse  string `json:"parse_mode"`
}

func init() {
	_ = godotenv.Load()
}

func SendTelegramMessage(chatID string, content string) error {
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		return fmt.Errorf("missing TELEGRAM_BOT_TOKEN in env")
	}
	if chatID == "" {
		return fmt.Errorf("missing telegram chat id")
	}

	msg := TelegramMessage{
		ChatID: chatID,
		Text:   content,
		Parse:  "Markdown",
	}
	body, _ := json.Marshal(msg)
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", botToken)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)
	return nil
}

// Notify sends a formatted ops message. Async send never blocks the caller;
// delivery failure is logged and dropped, alerting must not take down the
// payment path.
func Notify(chatID, level, title, text string, async bool) {
	content := fmt.Sprintf("*[%s]* %s\n%s", level, escapeMarkdown(title), text)
	if async {
		go func() {
			if err := SendTelegramMessage(chatID, content); err != nil {
				log.Printf("telegram send failed: %v", err)
			}
		}()
		return
	}
	if err := SendTelegramMessage(chatID, content); err != nil {
		log.Printf("telegram send failed: %v", err)
	}
}
