package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	ports "urmoney/internal/sheets"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil {
		t.Fatal("expected error for missing GOOGLE_SPREADSHEET_ID")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := New(context.Background(), Config{SpreadsheetID: "test-id"})
	if err == nil {
		t.Fatal("expected error without credentials")
	}
	if !strings.Contains(err.Error(), "missing service account credentials") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadCredentials(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sa.json")
	if err := os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	b, err := loadCredentials(context.Background(), Config{CredentialsJSON: `{"inline":true}`, CredentialsFile: path})
	if err != nil || string(b) != `{"inline":true}` {
		t.Fatalf("inline JSON should win, got %s (err=%v)", b, err)
	}

	b, err = loadCredentials(context.Background(), Config{CredentialsFile: path})
	if err != nil || !strings.Contains(string(b), "service_account") {
		t.Fatalf("expected file contents, got %s (err=%v)", b, err)
	}

	_, err = loadCredentials(context.Background(), Config{CredentialsFile: filepath.Join(dir, "missing.json")})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestClient_AppendJournalNilService(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheetName: "Journal"}
	_, err := c.AppendJournal(context.Background(), ports.JournalRow{})
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("expected not initialized error, got %v", err)
	}
}

func TestClient_AppendJournal(t *testing.T) {
	var gotPath, gotQuery string
	var gotBody gsheet.ValueRange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"spreadsheetId":"sheet-1","updates":{"updatedRange":"Journal!A5:H5","updatedRows":1}}`)
	}))
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	c := newWithService(svc, "sheet-1", "")

	row := ports.JournalRow{
		RecordedAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Event:       "transaction.created",
		EntityID:    42,
		Date:        "2024-03-01",
		Description: "Lunch",
		Type:        "expense",
		Amount:      "12.50",
		Category:    "Food",
	}
	ref, err := c.AppendJournal(context.Background(), row)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "Journal!A5:H5" {
		t.Errorf("ref = %q", ref)
	}
	if !strings.Contains(gotPath, "/spreadsheets/sheet-1/values/") || !strings.HasSuffix(gotPath, ":append") {
		t.Errorf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "valueInputOption=USER_ENTERED") || !strings.Contains(gotQuery, "insertDataOption=INSERT_ROWS") {
		t.Errorf("unexpected query %q", gotQuery)
	}
	if len(gotBody.Values) != 1 || len(gotBody.Values[0]) != 8 {
		t.Fatalf("unexpected body %+v", gotBody.Values)
	}
	if gotBody.Values[0][1] != "transaction.created" || gotBody.Values[0][4] != "Lunch" {
		t.Errorf("unexpected row %v", gotBody.Values[0])
	}
}
