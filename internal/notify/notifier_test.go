// internal/notify/notifier_test.go

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type recordingNotifier struct{ got []Alert }

func (r *recordingNotifier) Send(_ context.Context, a Alert) error {
	r.got = append(r.got, a)
	return nil
}

type failingNotifier struct{}

func (failingNotifier) Send(context.Context, Alert) error {
	return errors.New("channel down")
}

func sampleAlert() Alert {
	return Alert{
		AlertID:  "a-1",
		MeterID:  "MTR-001",
		Type:     "voltage_surge",
		Severity: "critical",
		Message:  "Voltage 295V exceeds safe range",
	}
}

func TestWebhookNotifierPostsJSON(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	if err := n.Send(context.Background(), sampleAlert()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if body["meter_id"] != "MTR-001" || body["severity"] != "critical" {
		t.Errorf("payload = %v", body)
	}
}

func TestWebhookNotifierNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if err := NewWebhookNotifier(srv.URL).Send(context.Background(), sampleAlert()); err == nil {
		t.Fatal("expected error on 502 response")
	}
}

// Satu kanal gagal tidak boleh menghentikan kanal berikutnya maupun
// mengembalikan error ke pipeline.
func TestMultiNotifierContinuesPastFailure(t *testing.T) {
	rec := &recordingNotifier{}
	m := MultiNotifier{failingNotifier{}, rec}
	if err := m.Send(context.Background(), sampleAlert()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(rec.got) != 1 || rec.got[0].AlertID != "a-1" {
		t.Errorf("second channel not reached: %+v", rec.got)
	}
}

func TestFromConfigComposition(t *testing.T) {
	if _, ok := FromConfig("").(LogNotifier); !ok {
		t.Error("empty URL must return log-only notifier")
	}
	m, ok := FromConfig("http://gateway.local/alerts").(MultiNotifier)
	if !ok || len(m) != 2 {
		t.Fatalf("configured URL must return log+webhook fan-out, got %T", FromConfig("http://gateway.local/alerts"))
	}
}
