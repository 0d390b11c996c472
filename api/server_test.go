package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/masa23/crmmail/config"
	"github.com/masa23/crmmail/inbox"
	"github.com/masa23/crmmail/mailsend"
	"github.com/masa23/crmmail/mailtemplate"
	"github.com/masa23/crmmail/model"
)

var fixedNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent []mailsend.Message
}

func (f *fakeSender) Send(ctx context.Context, account model.EmailAccount, msg mailsend.Message) (mailsend.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	if f.err != nil {
		return mailsend.Result{}, f.err
	}
	return mailsend.Result{MessageID: "abc@example.fr", Raw: []byte("raw")}, nil
}

type fakeProber struct{ err error }

func (f fakeProber) Ping(ctx context.Context) error { return f.err }

type countingSource struct {
	mu     sync.Mutex
	calls  int
	emails []model.EmailRecord
	err    error
}

func (s *countingSource) Fetch(ctx context.Context) ([]model.EmailRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.EmailRecord, len(s.emails))
	copy(out, s.emails)
	return out, nil
}

func testConfig() *config.Config {
	return &config.Config{Accounts: []model.EmailAccount{
		{ID: "commercial", Name: "Commercial", Email: "commercial@example.fr", Department: model.DepartmentCommercial, IsActive: true, IsDefault: true,
			SMTP: model.SMTPSettings{FromEmail: "commercial@example.fr", Password: "secret"}},
		{ID: "support", Name: "Support", Email: "support@example.fr", Department: model.DepartmentSupport, IsActive: true,
			SMTP: model.SMTPSettings{FromEmail: "support@example.fr", Password: "secret"}},
		{ID: "ancien", Name: "Ancien", Email: "ancien@example.fr", IsActive: false},
	}}
}

func testEmails() []model.EmailRecord {
	return []model.EmailRecord{
		{ID: 1, Subject: "Devis Freebox", FromEmail: "client@example.fr", Direction: model.DirectionInbound, Status: model.StatusDelivered, Images: []string{}},
		{ID: 2, Subject: "Relance", FromEmail: "commercial@example.fr", Direction: model.DirectionOutbound, Status: model.StatusDelivered, IsRead: true, Images: []string{}},
	}
}

type testEnv struct {
	e      *echo.Echo
	source *countingSource
	sender *fakeSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	source := &countingSource{emails: testEmails()}
	cache := inbox.New(source, time.Minute)
	cache.Now = func() time.Time { return fixedNow }
	sender := &fakeSender{}

	s := &Server{
		Accounts:  testConfig(),
		Inbox:     cache,
		Templates: mailtemplate.NewEngine(mailtemplate.NewBuiltinStore()),
		Sender:    sender,
		Prober:    fakeProber{},
		Now:       func() time.Time { return fixedNow },
	}
	e := echo.New()
	s.Register(e)
	return &testEnv{e: e, source: source, sender: sender}
}

func (env *testEnv) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: invalid JSON %q", method, path, rec.Body.String())
		}
	}
	return rec.Code, out
}

func TestListEmails(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		query string
		total float64
	}{
		{"", 2},
		{"?direction=inbound", 1},
		{"?direction=outbound&status=delivered", 1},
		{"?search=FREEBOX", 1},
		{"?search=inconnu", 0},
	}

	for _, tt := range tests {
		code, body := env.do(t, http.MethodGet, "/api/emails"+tt.query, "")
		if code != 200 {
			t.Fatalf("GET /api/emails%s = %d", tt.query, code)
		}
		p := body["pagination"].(map[string]any)
		if p["total"] != tt.total || p["page"] != 1.0 || p["limit"] != 50.0 || p["pages"] != 1.0 {
			t.Errorf("GET /api/emails%s pagination = %v", tt.query, p)
		}
		if len(body["emails"].([]any)) != int(tt.total) {
			t.Errorf("GET /api/emails%s emails = %v", tt.query, body["emails"])
		}
		if body["status"] != "ok" {
			t.Errorf("status = %v", body["status"])
		}
	}
	if env.source.calls != 1 {
		t.Errorf("fetch calls = %d; want 1", env.source.calls)
	}
}

func TestListEmailsDegraded(t *testing.T) {
	env := newTestEnv(t)
	env.source.err = errors.New("imap down")

	code, body := env.do(t, http.MethodGet, "/api/emails", "")
	if code != 200 || body["status"] != "degraded" || body["reason"] != "imap down" {
		t.Fatalf("GET /api/emails = %d %v", code, body)
	}
	emails := body["emails"].([]any)
	if len(emails) != 1 || emails[0].(map[string]any)["subject"] != "Synchronisation en cours" {
		t.Errorf("emails = %v", emails)
	}
}

func TestEmailStats(t *testing.T) {
	env := newTestEnv(t)
	_, body := env.do(t, http.MethodGet, "/api/emails/stats", "")

	want := map[string]float64{"total": 2, "nonLus": 1, "favoris": 0, "important": 0, "recus": 1, "envoyes": 1}
	for k, v := range want {
		if body[k] != v {
			t.Errorf("stats[%s] = %v; want %v", k, body[k], v)
		}
	}
}

func TestGetEmailMarksRead(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/api/emails/1", "")
	if code != 200 || body["isRead"] != true {
		t.Fatalf("GET /api/emails/1 = %d %v", code, body)
	}
	_, stats := env.do(t, http.MethodGet, "/api/emails/stats", "")
	if stats["nonLus"] != 0.0 {
		t.Errorf("nonLus = %v; want 0", stats["nonLus"])
	}

	if code, _ := env.do(t, http.MethodGet, "/api/emails/99", ""); code != 404 {
		t.Errorf("GET /api/emails/99 = %d; want 404", code)
	}
	if code, _ := env.do(t, http.MethodGet, "/api/emails/abc", ""); code != 400 {
		t.Errorf("GET /api/emails/abc = %d; want 400", code)
	}
}

func TestUpdateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/emails", "")

	code, body := env.do(t, http.MethodPut, "/api/emails/2", `{"isStarred":true,"id":77,"subject":"Relance modifiée"}`)
	if code != 200 {
		t.Fatalf("PUT /api/emails/2 = %d %v", code, body)
	}
	if body["id"] != 2.0 || body["isStarred"] != true || body["subject"] != "Relance modifiée" || body["isRead"] != true {
		t.Errorf("PUT /api/emails/2 = %v", body)
	}

	if code, _ := env.do(t, http.MethodPut, "/api/emails/99", `{"isRead":true}`); code != 404 {
		t.Errorf("PUT unknown = %d; want 404", code)
	}
	if code, _ := env.do(t, http.MethodPut, "/api/emails/2", `[1,2]`); code != 400 {
		t.Errorf("PUT array = %d; want 400", code)
	}
}

func TestSendEmail(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/emails", "")

	code, body := env.do(t, http.MethodPost, "/api/emails/send", `{"to":"client@example.fr","subject":"Bonjour","textContent":"Texte"}`)
	if code != 200 || body["success"] != true || body["messageId"] != "abc@example.fr" || body["status"] != "ok" {
		t.Fatalf("POST /api/emails/send = %d %v", code, body)
	}
	if body["accountId"] != "commercial" {
		t.Errorf("accountId = %v; want default account", body["accountId"])
	}

	// A successful send invalidates the cache.
	env.do(t, http.MethodGet, "/api/emails", "")
	if env.source.calls != 2 {
		t.Errorf("fetch calls = %d; want 2", env.source.calls)
	}
}

func TestSendEmailWithTemplate(t *testing.T) {
	env := newTestEnv(t)
	code, body := env.do(t, http.MethodPost, "/api/emails/send", `{
		"to": "dupont@example.fr",
		"subject": "ignoré",
		"accountId": "support",
		"templateId": "relance-prospect-chaud",
		"variables": {"nom":"Dupont","produit":"Freebox Ultra","economie":"45","date_expiration":"31/12/2025",
			"telephone":"0600000000","vendeur_nom":"A","vendeur_email":"a@b.fr","vendeur_tel":"0600000001"}
	}`)
	if code != 200 || body["accountId"] != "support" {
		t.Fatalf("POST /api/emails/send = %d %v", code, body)
	}

	msg := env.sender.sent[0]
	if msg.Subject != "Dernière chance - Offre Free Freebox Ultra expire bientôt" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if msg.From != "support@example.fr" || !strings.Contains(msg.Text, "45€") || !strings.Contains(msg.HTML, "31/12/2025") {
		t.Errorf("message = %+v", msg)
	}
}

func TestSendEmailDegraded(t *testing.T) {
	env := newTestEnv(t)
	env.sender.err = errors.New("smtp dial: connection refused")
	env.do(t, http.MethodGet, "/api/emails", "")

	code, body := env.do(t, http.MethodPost, "/api/emails/send", `{"to":"client@example.fr","subject":"Bonjour","textContent":"x"}`)
	if code != 200 || body["success"] != true || body["status"] != "degraded" {
		t.Fatalf("POST /api/emails/send = %d %v", code, body)
	}
	if body["messageId"] != "simulated-1748865600000" {
		t.Errorf("messageId = %v", body["messageId"])
	}
	if body["reason"] != "smtp dial: connection refused" {
		t.Errorf("reason = %v", body["reason"])
	}

	env.do(t, http.MethodGet, "/api/emails", "")
	if env.source.calls != 1 {
		t.Errorf("failed send invalidated the cache")
	}
}

func TestSendEmailValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		body string
		code int
	}{
		{`{"subject":"Bonjour"}`, 400},
		{`{"to":"a@example.fr"}`, 400},
		{`{"to":"a@example.fr","subject":"x","accountId":"ancien"}`, 400},
		{`{"to":"a@example.fr","subject":"x","accountId":"inconnu"}`, 400},
		{`{"to":"a@example.fr","templateId":"absent"}`, 404},
		{`{"to":"pas une adresse","subject":"x"}`, 400},
		{`{"to":"a@example.fr, <cassée","subject":"x"}`, 400},
		{`{"to":"a@example.fr","templateId":"confirmation-ticket-support"}`, 200},
	}

	for _, tt := range tests {
		code, body := env.do(t, http.MethodPost, "/api/emails/send", tt.body)
		if code != tt.code {
			t.Errorf("POST /api/emails/send %s = %d %v; want %d", tt.body, code, body, tt.code)
		}
		if code >= 400 && body["error"] == nil {
			t.Errorf("POST /api/emails/send %s: missing error field", tt.body)
		}
	}

	// Only the template request reached the transport.
	if n := len(env.sender.sent); n != 1 {
		t.Errorf("sender called %d times; want 1", n)
	}
}

func TestRefreshEmails(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/emails", "")

	code, body := env.do(t, http.MethodPost, "/api/emails/refresh", "")
	if code != 200 || body["success"] != true || body["count"] != 2.0 || body["timestamp"] != "2025-06-02T12:00:00Z" {
		t.Errorf("POST /api/emails/refresh = %d %v", code, body)
	}
	if env.source.calls != 2 {
		t.Errorf("fetch calls = %d; want 2", env.source.calls)
	}
}

func TestTestConnection(t *testing.T) {
	env := newTestEnv(t)
	_, body := env.do(t, http.MethodPost, "/api/emails/test-connection", "")
	if body["success"] != true {
		t.Errorf("test-connection = %v", body)
	}

	s := &Server{Prober: fakeProber{err: errors.New("auth failed")}}
	e := echo.New()
	s.Register(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/emails/test-connection", nil))
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), `"success":false`) || !strings.Contains(rec.Body.String(), "auth failed") {
		t.Errorf("test-connection failure = %d %s", rec.Code, rec.Body.String())
	}
}

func TestTemplates(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/email-templates?category=support", nil))
	var list []model.EmailTemplate
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("GET /api/email-templates?category=support = %s", rec.Body.String())
	}

	if code, body := env.do(t, http.MethodGet, "/api/email-templates/notification-facture", ""); code != 200 || body["category"] != "notification" {
		t.Errorf("GET template = %d %v", code, body)
	}
	if code, _ := env.do(t, http.MethodGet, "/api/email-templates/absent", ""); code != 404 {
		t.Errorf("GET absent template = %d; want 404", code)
	}

	code, body := env.do(t, http.MethodPost, "/api/email-templates/process", `{"templateId":"notification-facture","variables":{"nom":"Dupont","montant":"29,99"}}`)
	if code != 200 {
		t.Fatalf("POST process = %d %v", code, body)
	}
	if !strings.Contains(body["textContent"].(string), "29,99€") || !strings.Contains(body["subject"].(string), "{{numero_facture}}") {
		t.Errorf("POST process = %v", body)
	}
	if missing := body["missingVariables"].([]any); len(missing) != 2 {
		t.Errorf("missingVariables = %v", missing)
	}

	if code, _ := env.do(t, http.MethodPost, "/api/email-templates/process", `{"templateId":"absent"}`); code != 404 {
		t.Errorf("POST process absent = %d; want 404", code)
	}
	if code, _ := env.do(t, http.MethodPost, "/api/email-templates/process", `{}`); code != 400 {
		t.Errorf("POST process without id = %d; want 400", code)
	}
}

func TestListAccounts(t *testing.T) {
	env := newTestEnv(t)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/email-accounts", nil))

	if strings.Contains(rec.Body.String(), "secret") || strings.Contains(rec.Body.String(), "smtpSettings") {
		t.Errorf("accounts leak settings: %s", rec.Body.String())
	}
	var accounts []model.AccountSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &accounts); err != nil || len(accounts) != 2 {
		t.Fatalf("GET /api/email-accounts = %s", rec.Body.String())
	}
	if accounts[0].ID != "commercial" || !accounts[0].IsDefault {
		t.Errorf("accounts[0] = %+v", accounts[0])
	}
}

func TestSentJournalDisabled(t *testing.T) {
	env := newTestEnv(t)
	if code, _ := env.do(t, http.MethodGet, "/api/emails/sent", ""); code != 404 {
		t.Errorf("GET /api/emails/sent = %d; want 404", code)
	}
	if code, _ := env.do(t, http.MethodGet, "/api/emails/sent/1/raw", ""); code != 404 {
		t.Errorf("GET /api/emails/sent/1/raw = %d; want 404", code)
	}
}
