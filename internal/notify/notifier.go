// internal/notify/notifier.go
// Boundary notifikasi alert; delivery nyata (SMS/WhatsApp) di luar scope

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Alert adalah payload minimal yang dikirim ke kanal notifikasi.
type Alert struct {
	AlertID  string
	MeterID  string
	Type     string
	Severity string
	Message  string
}

// Notifier dipanggil pipeline ingest untuk setiap anomali.
// Implementasi harus non-blocking terhadap jalur ingest (fire and log).
type Notifier interface {
	Send(ctx context.Context, a Alert) error
}

// LogNotifier menulis alert ke log proses. Pengganti kanal
// SMS/WhatsApp/push yang ditangani sistem lain.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, a Alert) error {
	log.Printf("[ALERT] meter=%s type=%s severity=%s: %s", a.MeterID, a.Type, a.Severity, a.Message)
	return nil
}

// WebhookNotifier POST alert sebagai JSON ke gateway eksternal
// (SMS/WhatsApp bridge milik utility).
type WebhookNotifier struct {
	URL    string
	Client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (w *WebhookNotifier) Send(ctx context.Context, a Alert) error {
	body, err := json.Marshal(map[string]string{
		"alert_id": a.AlertID,
		"meter_id": a.MeterID,
		"type":     a.Type,
		"severity": a.Severity,
		"message":  a.Message,
	})
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("post alert webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("alert webhook status %d", resp.StatusCode)
	}
	return nil
}

// MultiNotifier fan-out ke beberapa kanal; error per kanal hanya dilog.
type MultiNotifier []Notifier

func (m MultiNotifier) Send(ctx context.Context, a Alert) error {
	for _, n := range m {
		if err := n.Send(ctx, a); err != nil {
			log.Printf("[WARN] notifier %T failed: %v", n, err)
		}
	}
	return nil
}

// FromConfig merakit kanal notifikasi: log selalu aktif, webhook
// ditambahkan kalau URL dikonfigurasi.
func FromConfig(webhookURL string) Notifier {
	if webhookURL == "" {
		return LogNotifier{}
	}
	return MultiNotifier{LogNotifier{}, NewWebhookNotifier(webhookURL)}
}
