package gradebook

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestHandleGradebookPage(t *testing.T) {
	gb := newTestGradebook()
	r := gb.Router()

	req := httptest.NewRequest(http.MethodGet, "/gradefast/gradebook.HTM", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Test Project") {
		t.Fatalf("expected project name in page, got %q", w.Body.String())
	}
}

func TestHandleUpdateAppliesAction(t *testing.T) {
	gb := newTestGradebook()
	r := gb.Router()

	form := url.Values{
		"submission_id": {"1"},
		"client_id":     {"c1"},
		"client_seq":    {"1"},
		"action":        {`{"type":"SET_LATE","is_late":true}`},
	}
	req := httptest.NewRequest(http.MethodPost, "/gradefast/_update", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("expected ok status, got %q", w.Body.String())
	}

	sub, ok := gb.subs.GetSubmission(1)
	if !ok {
		t.Fatal("expected submission 1 to exist")
	}
	if !sub.Grade.Items[0].IsLate {
		t.Fatal("expected action to mark submission late")
	}
}

func TestHandleUpdateBadSubmission(t *testing.T) {
	gb := newTestGradebook()
	r := gb.Router()

	form := url.Values{
		"submission_id": {"999"},
		"action":        {`{"type":"SET_LATE","is_late":true}`},
	}
	req := httptest.NewRequest(http.MethodPost, "/gradefast/_update", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "no such submission") {
		t.Fatalf("expected bad-submission status, got %q", w.Body.String())
	}
}

func TestHandleLogNotFound(t *testing.T) {
	gb := newTestGradebook()
	r := gb.Router()

	req := httptest.NewRequest(http.MethodGet, "/gradefast/log/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandleGradesCSVRoute(t *testing.T) {
	gb := newTestGradebook()
	r := gb.Router()

	req := httptest.NewRequest(http.MethodGet, "/gradefast/grades.csv", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "alice") {
		t.Fatalf("expected submission row in CSV, got %q", w.Body.String())
	}
}
