package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/username/portfolion/backend/src/config"
	"github.com/username/portfolion/backend/src/fx"
	"github.com/username/portfolion/backend/src/importer"
	"github.com/username/portfolion/backend/src/logger"
	"github.com/username/portfolion/backend/src/models"
	"github.com/username/portfolion/backend/src/parsers"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	config.Cfg = &config.AppConfig{
		BaseCurrency:       "CZK",
		MaxUploadSizeBytes: 1 << 20,
	}
	os.Exit(m.Run())
}

type fakeGateway struct{}

func (fakeGateway) Save(transactions []models.CanonicalTransaction, provider string) (models.SaveOutcome, error) {
	return models.SaveOutcome{Inserted: len(transactions)}, nil
}

func newTestHandler() *ImportHandler {
	imp := importer.New(parsers.NewRegistry(), fakeGateway{}, fx.NewHistoricalStore(nil), nil, nil, "CZK")
	return NewImportHandler(imp)
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		header.Set("Content-Type", "text/plain")
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte(content))
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestHandleImport(t *testing.T) {
	handler := newTestHandler()
	body, contentType := multipartBody(t, map[string]string{
		"fio.txt": "Fio banka, a.s. - e-Broker\nDne 17. 2. 2021 proveden nákup AAPL: 10 ks za 25,50 celkem 255,00 CZK\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.HandleImport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var results []models.ImportFileResult
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Status != models.ImportSucceeded || results[0].TransactionCount != 1 {
		t.Errorf("results = %+v", results)
	}
}

func TestHandleImportNoFiles(t *testing.T) {
	handler := newTestHandler()
	body, contentType := multipartBody(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.HandleImport(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleImportRejectsDisallowedContentType(t *testing.T) {
	handler := newTestHandler()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="files"; filename="payload.txt"`)
	header.Set("Content-Type", "application/x-msdownload")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("MZ..."))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.HandleImport(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
