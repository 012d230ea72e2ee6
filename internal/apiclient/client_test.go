package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/1997daniela/employeeVaccineInventory/internal/models"
)

type recorded struct {
	method, path, contentType, auth string
	query                           map[string][]string
	body                            map[string]any
}

func recordingServer(t *testing.T, status int, response string, headers map[string]string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method, rec.path = r.Method, r.URL.Path
		rec.contentType = r.Header.Get("Content-Type")
		rec.auth = r.Header.Get("Authorization")
		rec.query = r.URL.Query()
		rec.body = nil
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			if err := json.Unmarshal(b, &rec.body); err != nil {
				t.Errorf("request body is not a JSON object: %s", b)
			}
		}
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestListSendsCacheBusterAndPaging(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK, `[{"id":2},{"id":1}]`, nil)
	fixed := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	c := New(srv.URL, WithClock(func() time.Time { return fixed }), WithToken("tok"))
	vaccines := NewEntityClient[models.Vaccine](c, "vaccines")

	out, err := vaccines.List(context.Background(), &QueryParams{Page: 1, Size: 20, Sort: []string{"id,desc"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 || *out[0].ID != 2 {
		t.Fatalf("expected server order, got %+v", out)
	}
	if rec.method != http.MethodGet || rec.path != "/api/vaccines" {
		t.Fatalf("unexpected request %s %s", rec.method, rec.path)
	}
	want := map[string]string{"cacheBuster": "1622505600000", "page": "1", "size": "20", "sort": "id,desc"}
	for k, v := range want {
		if got := rec.query[k]; len(got) != 1 || got[0] != v {
			t.Fatalf("query %s: expected %q, got %v", k, v, got)
		}
	}
	if rec.auth != "Bearer tok" {
		t.Fatalf("expected bearer token, got %q", rec.auth)
	}

	if _, err := vaccines.List(context.Background(), nil); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, ok := rec.query["page"]; ok {
		t.Fatalf("nil params should not send paging, got %v", rec.query)
	}
}

func TestWritesSendCleanedPayload(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusCreated, `{"id":42,"vaccineType":"SPUTNIK","doses":2}`, nil)
	c := New(srv.URL)
	vaccines := NewEntityClient[models.Vaccine](c, "vaccines")

	v := models.Vaccine{
		VaccineType:     models.VaccineSputnik,
		VaccinationDate: models.DatePtr("2021-06-01"),
		Doses:           models.IntPtr(2),
		ApplicationUser: &models.ApplicationUser{ID: models.Int64Ptr(7)},
	}
	created, err := vaccines.Create(context.Background(), v)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == nil || *created.ID != 42 {
		t.Fatalf("expected id 42, got %+v", created)
	}
	if rec.method != http.MethodPost || rec.path != "/api/vaccines" || rec.contentType != "application/json" {
		t.Fatalf("unexpected request %s %s %s", rec.method, rec.path, rec.contentType)
	}
	if _, ok := rec.body["id"]; ok {
		t.Fatalf("create should not send an id: %v", rec.body)
	}
	if rec.body["vaccinationDate"] != "2021-06-01" {
		t.Fatalf("unexpected date %v", rec.body["vaccinationDate"])
	}

	v.ID = models.Int64Ptr(42)
	if _, err := vaccines.PartialUpdate(context.Background(), 42, models.Vaccine{ID: v.ID, Doses: models.IntPtr(3)}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if rec.method != http.MethodPatch || rec.path != "/api/vaccines/42" || rec.contentType != "application/merge-patch+json" {
		t.Fatalf("unexpected request %s %s %s", rec.method, rec.path, rec.contentType)
	}
	if len(rec.body) != 2 {
		t.Fatalf("patch should carry only id and doses, got %v", rec.body)
	}

	if _, err := vaccines.Update(context.Background(), 42, v); err != nil {
		t.Fatalf("put: %v", err)
	}
	if rec.method != http.MethodPut || rec.path != "/api/vaccines/42" {
		t.Fatalf("unexpected request %s %s", rec.method, rec.path)
	}
}

func TestCleanPayload(t *testing.T) {
	type ref struct {
		ID any `json:"id"`
	}
	in := struct {
		Name      string  `json:"name"`
		Empty     string  `json:"empty"`
		Nothing   *string `json:"nothing"`
		Zero      int     `json:"zero"`
		Owner     ref     `json:"owner"`
		NoOwner   ref     `json:"noOwner"`
		Unset     ref     `json:"unset"`
		BlankID   ref     `json:"blankId"`
		Tags      []int   `json:"tags"`
		Activated bool    `json:"activated"`
	}{
		Name:    "x",
		Owner:   ref{ID: 7},
		NoOwner: ref{ID: -1},
		BlankID: ref{ID: ""},
		Tags:    []int{1},
	}
	out, err := CleanPayload(in)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	for _, kept := range []string{"name", "zero", "owner", "tags", "activated"} {
		if _, ok := out[kept]; !ok {
			t.Fatalf("expected %q to be kept: %v", kept, out)
		}
	}
	for _, dropped := range []string{"empty", "nothing", "noOwner", "unset", "blankId"} {
		if _, ok := out[dropped]; ok {
			t.Fatalf("expected %q to be dropped: %v", dropped, out)
		}
	}
}

func TestErrorNormalization(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusBadRequest,
		`{"error":"Bad Request","message":"A new vaccine cannot already have an ID"}`,
		map[string]string{"X-employeeVaccineInventoryApp-error": "error.idexists"})
	c := New(srv.URL)

	_, err := NewEntityClient[models.Vaccine](c, "vaccines").Create(context.Background(), models.Vaccine{ID: models.Int64Ptr(1)})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T %v", err, err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Key != "error.idexists" || apiErr.Message != "A new vaccine cannot already have an ID" {
		t.Fatalf("unexpected normalized error %+v", apiErr)
	}
	if StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("StatusOf: got %d", StatusOf(err))
	}

	plain, _ := recordingServer(t, http.StatusNotFound, `not json`, nil)
	_, err = NewEntityClient[models.Vaccine](New(plain.URL), "vaccines").Get(context.Background(), 9)
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound || apiErr.Message != "Not Found" {
		t.Fatalf("expected status text fallback, got %+v", err)
	}
}

func TestTransportErrorHasZeroStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewEntityClient[models.Vaccine](New(url, WithTimeout(time.Second)), "vaccines").List(context.Background(), nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 0 || apiErr.Err == nil {
		t.Fatalf("expected transport APIError, got %#v", err)
	}
}

func TestDeleteToleratesEmptyBody(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusNoContent, ``, nil)
	prior, err := NewEntityClient[models.Vaccine](New(srv.URL), "vaccines").Delete(context.Background(), 5)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if prior.ID != nil {
		t.Fatalf("expected zero value, got %+v", prior)
	}
	if rec.method != http.MethodDelete || rec.path != "/api/vaccines/5" {
		t.Fatalf("unexpected request %s %s", rec.method, rec.path)
	}
}

func TestAuthenticateKeepsToken(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK, `{"id_token":"abc"}`, nil)
	c := New(srv.URL)
	token, err := c.Authenticate(context.Background(), "admin", "admin", false)
	if err != nil || token != "abc" {
		t.Fatalf("authenticate: %q %v", token, err)
	}
	if rec.body["username"] != "admin" {
		t.Fatalf("unexpected login body %v", rec.body)
	}
	if _, err := NewAccountClient(c).Get(context.Background()); err != nil {
		t.Fatalf("account: %v", err)
	}
	if rec.auth != "Bearer abc" || rec.path != "/api/account" {
		t.Fatalf("expected token on later calls, got %q %s", rec.auth, rec.path)
	}
}

func TestTimeoutLeavesSharedClientAlone(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusOK, `[]`, nil)
	shared := &http.Client{}
	c := New(srv.URL, WithHTTPClient(shared), WithTimeout(time.Second))

	if _, err := NewEntityClient[models.Vaccine](c, "vaccines").List(context.Background(), nil); err != nil {
		t.Fatalf("list: %v", err)
	}
	if shared.Timeout != 0 {
		t.Fatalf("shared client was modified: timeout %v", shared.Timeout)
	}
	if c.httpClient.Timeout != time.Second {
		t.Fatalf("expected the timeout on the client's own copy, got %v", c.httpClient.Timeout)
	}
}
