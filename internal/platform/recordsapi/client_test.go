package recordsapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ehr/timeline/internal/platform/middleware"
)

type recorded struct {
	method      string
	path        string
	contentType string
	requestID   string
	body        []byte
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			requestID:   r.Header.Get(middleware.RequestIDHeader),
			body:        body,
		})
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL), &calls
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_ListEncounters(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[
			{"filename":"b.med","content":{"timestamp":"2023-01-05T10:00:00","name":"Ana","age":42,"diagnosis":"Flu",
			 "medical_conducts":{"prescriptions":["Tamiflu"]}}},
			{"filename":"a.med","content":{"timestamp":"2023-01-01T09:00:00","age":"41"}}
		]`)
	})

	records, err := c.ListEncounters(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Content.Age != "42" || records[1].Content.Age != "41" {
		t.Errorf("unexpected ages %q %q", records[0].Content.Age, records[1].Content.Age)
	}
	if got := records[0].Content.MedicalConducts.Prescriptions; len(got) != 1 || got[0] != "Tamiflu" {
		t.Errorf("unexpected prescriptions %v", got)
	}
	if (*calls)[0].path != "/api/timeline" || (*calls)[0].method != http.MethodGet {
		t.Errorf("unexpected call %+v", (*calls)[0])
	}
	if (*calls)[0].requestID == "" {
		t.Error("expected a generated request id")
	}
}

func TestClient_ForwardsRequestID(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})
	ctx := middleware.WithRequestID(context.Background(), "req-123")
	if _, err := c.ListDiagnoses(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (*calls)[0].requestID != "req-123" {
		t.Errorf("expected req-123, got %q", (*calls)[0].requestID)
	}
}

func TestClient_ListChanges(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"diagnosis_changes":[{"timestamp":"2023-01-05T10:00:00","diagnosis":"Flu"}],
			"medication_changes":[{"timestamp":"2023-01-05T10:00:00","medication":"Tamiflu"}]}`)
	})
	set, err := c.ListChanges(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.DiagnosisChanges) != 1 || set.MedicationChanges[0].Medication != "Tamiflu" {
		t.Errorf("unexpected set %+v", set)
	}
}

func TestClient_SetMedicationRegularUse(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})

	if err := c.SetMedicationRegularUse(context.Background(), "Metformin", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := (*calls)[0]
	if call.method != http.MethodPost || call.path != "/api/medications-in-use" {
		t.Errorf("unexpected call %s %s", call.method, call.path)
	}
	if call.contentType != "application/json" {
		t.Errorf("unexpected content type %q", call.contentType)
	}
	var body map[string]any
	if err := json.Unmarshal(call.body, &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body["name"] != "Metformin" || body["regular_use"] != true || len(body) != 2 {
		t.Errorf("unexpected body %s", call.body)
	}
}

func TestClient_AddMedicationAndDiagnosis(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})
	ctx := context.Background()
	if err := c.AddMedication(ctx, "Insulin", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.SetDiagnosisActive(ctx, "Flu", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (*calls)[0].path != "/api/medications-in-use/add" {
		t.Errorf("unexpected path %s", (*calls)[0].path)
	}
	if string((*calls)[1].body) != `{"name":"Flu","active":false}` {
		t.Errorf("unexpected body %s", (*calls)[1].body)
	}
}

func TestClient_StatusError(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	err := c.SetDiagnosisActive(context.Background(), "Flu", true)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusBadGateway || se.Body != "boom" {
		t.Errorf("unexpected status error %+v", se)
	}

	if _, err := c.ListMedicationsInUse(context.Background()); !errors.As(err, &se) {
		t.Errorf("expected StatusError from list, got %v", err)
	}
}

func TestClient_DecodeError(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `not json`)
	})
	if _, err := c.ListEncounters(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestClient_Upload(t *testing.T) {
	var names []string
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		for _, fh := range r.MultipartForm.File["file"] {
			names = append(names, fh.Filename)
		}
		writeJSON(w, http.StatusOK, `{"message":"2 files uploaded"}`)
	})

	res, err := c.Upload(context.Background(), []UploadFile{
		{Name: "a.med", Reader: strings.NewReader(`{"timestamp":"2023-01-01"}`)},
		{Name: "b.med", Reader: strings.NewReader(`{"timestamp":"2023-01-05"}`)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK || res.Text() != "2 files uploaded" {
		t.Errorf("unexpected result %+v", res)
	}
	if len(names) != 2 || names[0] != "a.med" || names[1] != "b.med" {
		t.Errorf("unexpected parts %v", names)
	}
	if !strings.HasPrefix((*calls)[0].contentType, "multipart/form-data") {
		t.Errorf("unexpected content type %q", (*calls)[0].contentType)
	}
}

func TestClient_UploadRejected(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"error":"Invalid file format"}`)
	})
	res, err := c.Upload(context.Background(), []UploadFile{{Name: "x.txt", Reader: strings.NewReader("x")}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OK || res.Text() != "Invalid file format" {
		t.Errorf("unexpected result %+v", res)
	}

	empty := &UploadResult{}
	if empty.Text() != "Upload failed" {
		t.Errorf("unexpected fallback %q", empty.Text())
	}
}

func TestClient_TriggerFetch(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"message":"Fetched 3 records"}`)
	})
	msg, err := c.TriggerFetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Fetched 3 records" {
		t.Errorf("unexpected message %q", msg)
	}
	if (*calls)[0].method != http.MethodPost || (*calls)[0].path != "/api/fetch" {
		t.Errorf("unexpected call %+v", (*calls)[0])
	}
}

func TestClient_Download(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/download/missing.med" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="visit 1.med"`)
		_, _ = io.WriteString(w, `{"timestamp":"2023-01-01"}`)
	})

	f, err := c.Download(context.Background(), "visit 1.med")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Body.Close()
	b, _ := io.ReadAll(f.Body)
	if string(b) != `{"timestamp":"2023-01-01"}` {
		t.Errorf("unexpected body %s", b)
	}
	if f.ContentDisposition != `attachment; filename="visit 1.med"` {
		t.Errorf("unexpected disposition %q", f.ContentDisposition)
	}
	if (*calls)[0].path != "/download/visit 1.med" {
		t.Errorf("unexpected path %q", (*calls)[0].path)
	}

	var se *StatusError
	if _, err := c.Download(context.Background(), "missing.med"); !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 StatusError, got %v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(w, http.StatusOK, `[]`)
	}))
	defer srv.Close()

	c := New(srv.URL, WithTimeout(20*time.Millisecond))
	if _, err := c.ListEncounters(context.Background()); err == nil {
		t.Fatal("expected timeout error")
	}
}
