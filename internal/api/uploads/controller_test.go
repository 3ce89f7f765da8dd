package uploads

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Conversly/support-orchestrator/internal/storage"
)

type fakeObjectStore struct {
	calls int
	url   string
	err   error
}

func (f *fakeObjectStore) Upload(ctx context.Context, name, contentType string, payload []byte) (string, error) {
	f.calls++
	return f.url, f.err
}

func multipartFile(t *testing.T, size int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "photo.png")
	if err != nil {
		t.Fatalf("failed to build form file: %v", err)
	}
	if _, err := fw.Write(bytes.Repeat([]byte("x"), size)); err != nil {
		t.Fatalf("failed to write payload: %v", err)
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func doUpload(store *fakeObjectStore, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest("POST", "/uploads", body)
	ctx.Request.Header.Set("Content-Type", contentType)

	NewController(store).Upload(ctx)
	return w
}

func TestUploadReturnsURL(t *testing.T) {
	store := &fakeObjectStore{url: "https://cdn.example/bucket/photo.png"}
	body, contentType := multipartFile(t, 64)

	w := doUpload(store, body, contentType)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if store.calls != 1 {
		t.Fatalf("expected one store call, got %d", store.calls)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(store.url)) {
		t.Fatalf("response missing url: %s", w.Body.String())
	}
}

func TestUploadRejectsOversizedPayload(t *testing.T) {
	store := &fakeObjectStore{}
	body, contentType := multipartFile(t, storage.MaxUploadSize+1)

	w := doUpload(store, body, contentType)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", w.Code, w.Body.String())
	}
	if store.calls != 0 {
		t.Fatalf("oversized payload must never reach the store, got %d calls", store.calls)
	}
}

func TestUploadRequiresFileField(t *testing.T) {
	store := &fakeObjectStore{}

	w := doUpload(store, bytes.NewBuffer(nil), "multipart/form-data; boundary=none")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if store.calls != 0 {
		t.Fatalf("store must not be called without a file, got %d calls", store.calls)
	}
}
