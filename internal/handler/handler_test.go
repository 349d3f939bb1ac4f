package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sidata/backend/internal/auth"
	"github.com/sidata/backend/internal/config"
	"github.com/sidata/backend/internal/domain"
	"github.com/sidata/backend/internal/ingest"
	"github.com/sidata/backend/internal/middleware"
	"github.com/sidata/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeArchiver struct {
	keys []string
}

func (a *fakeArchiver) Archive(_ context.Context, entity, filename string, _ []byte) (string, error) {
	key := "imports/" + entity + "/" + filename
	a.keys = append(a.keys, key)
	return key, nil
}

type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	jwt      *auth.JWTService
	archiver *fakeArchiver
}

func setupTestApp(t *testing.T, maxBytes int64) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.AllModels()...))

	log := zap.NewNop()
	jwtService := auth.NewJWTService(config.JWTConfig{Secret: "test-secret", Expiry: time.Hour})
	archiver := &fakeArchiver{}

	dosenRepo := repository.NewDosenRepository(db)
	tarunaRepo := repository.NewTarunaRepository(db)
	dosenImporter := ingest.NewImporter(ingest.DosenProfile(), ingest.Store[domain.Dosen](dosenRepo), ingest.WithMaxBytes(maxBytes))
	tarunaImporter := ingest.NewImporter(ingest.TarunaProfile(nil), ingest.Store[domain.Taruna](tarunaRepo), ingest.WithMaxBytes(maxBytes))

	app := fiber.New()
	Routes{
		Auth:         NewAuthHandler(repository.NewUserRepository(db), jwtService, log),
		Dosen:        NewDosenHandler(dosenRepo, dosenImporter, "UPT001", log),
		DosenImport:  NewImportHandler(dosenImporter, Archiver(archiver), "UPT001", log),
		Taruna:       NewTarunaHandler(tarunaRepo, tarunaImporter, "UPT001", log),
		TarunaImport: NewImportHandler(tarunaImporter, Archiver(archiver), "UPT001", log),
		Middleware:   middleware.NewAuthMiddleware(jwtService),
	}.Register(app.Group("/api/v1"))

	return &testEnv{app: app, db: db, jwt: jwtService, archiver: archiver}
}

func dosenWorkbook(t *testing.T, rows ...[]string) []byte {
	data, err := ingest.RenderWorkbook("Sheet1", ingest.DosenProfile().Columns, rows, nil)
	require.NoError(t, err)
	return data
}

func dosenValues(nip, nama, email string) []string {
	return []string{nip, "", nama, "", "", "Teknik Informatika", "S1 TI", "", "S2", "aktif", email, ""}
}

func uploadRequest(t *testing.T, path, filename string, payload []byte) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func do(t *testing.T, env *testEnv, req *http.Request) (int, map[string]interface{}) {
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(data, &body))
	}
	return resp.StatusCode, body
}

func TestUpload_PartialSuccessIsOK(t *testing.T) {
	env := setupTestApp(t, 0)
	payload := dosenWorkbook(t,
		dosenValues("11111", "Ahmad", "ahmad@kampus.ac.id"),
		dosenValues("12", "Budi", "budi@kampus.ac.id"),
		dosenValues("33333", "Citra", "citra@kampus.ac.id"),
	)

	status, body := do(t, env, uploadRequest(t, "/api/v1/dosen/upload", "dosen.xlsx", payload))
	require.Equal(t, fiber.StatusOK, status)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Upload berhasil: 2 data diproses, 1 gagal", body["message"])
	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, float64(3), summary["total"])
	assert.Equal(t, float64(2), summary["success"])
	assert.Equal(t, float64(1), summary["failed"])
	assert.Equal(t, []interface{}{"Row 3: Format NIP tidak valid (minimal 5 digit angka)"}, body["errors"])
	assert.Equal(t, "imports/dosen/dosen.xlsx", body["archive_key"])

	var stored domain.Dosen
	require.NoError(t, env.db.Where("nip = ?", "11111").First(&stored).Error)
	assert.Equal(t, "UPT001", stored.UptCode)
}

func TestUpload_UnitCodeFromToken(t *testing.T) {
	env := setupTestApp(t, 0)
	token, err := env.jwt.GenerateAccessToken(uuid.New(), "admin_upt", "UPT042")
	require.NoError(t, err)

	req := uploadRequest(t, "/api/v1/dosen/upload", "dosen.xlsx", dosenWorkbook(t, dosenValues("11111", "Ahmad", "ahmad@kampus.ac.id")))
	req.Header.Set("Authorization", "Bearer "+token)
	status, _ := do(t, env, req)
	require.Equal(t, fiber.StatusOK, status)

	var stored domain.Dosen
	require.NoError(t, env.db.Where("nip = ?", "11111").First(&stored).Error)
	assert.Equal(t, "UPT042", stored.UptCode)
}

func TestUpload_RejectsNonExcel(t *testing.T) {
	env := setupTestApp(t, 0)

	status, body := do(t, env, uploadRequest(t, "/api/v1/dosen/upload", "dosen.csv", []byte("NIP,NAMA\n1,2")))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "INVALID_FILE_TYPE", body["error"].(map[string]interface{})["code"])
	assert.Empty(t, env.archiver.keys)
}

func TestUpload_MissingFile(t *testing.T) {
	env := setupTestApp(t, 0)

	status, body := do(t, env, jsonRequest(http.MethodPost, "/api/v1/dosen/upload", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "FILE_REQUIRED", body["error"].(map[string]interface{})["code"])
}

func TestUpload_TooLarge(t *testing.T) {
	env := setupTestApp(t, 64)
	payload := dosenWorkbook(t, dosenValues("11111", "Ahmad", "ahmad@kampus.ac.id"))

	status, body := do(t, env, uploadRequest(t, "/api/v1/dosen/upload", "dosen.xlsx", payload))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "FILE_TOO_LARGE", body["error"].(map[string]interface{})["code"])
}

func TestUpload_InvalidHeaderListsColumns(t *testing.T) {
	env := setupTestApp(t, 0)
	columns := ingest.DosenProfile().Columns[:10]
	payload, err := ingest.RenderWorkbook("Sheet1", columns, [][]string{{"11111", "", "Ahmad"}}, nil)
	require.NoError(t, err)

	status, body := do(t, env, uploadRequest(t, "/api/v1/dosen/upload", "dosen.xlsx", payload))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_HEADER", body["error"].(map[string]interface{})["code"])
	assert.Equal(t, []interface{}{"EMAIL", "TELEPON"}, body["missing_columns"])
	assert.Contains(t, body["message"], "Kolom yang diperlukan: EMAIL, TELEPON")
}

func TestUpload_AllRowsFailed(t *testing.T) {
	env := setupTestApp(t, 0)
	payload := dosenWorkbook(t,
		dosenValues("1", "Ahmad", "ahmad@kampus.ac.id"),
		dosenValues("22222", "Budi", "budi-at-kampus"),
	)

	status, body := do(t, env, uploadRequest(t, "/api/v1/dosen/upload", "dosen.xlsx", payload))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "ALL_ROWS_FAILED", body["error"].(map[string]interface{})["code"])
	assert.Equal(t, []interface{}{
		"Row 2: Format NIP tidak valid (minimal 5 digit angka)",
		"Row 3: Format email tidak valid",
	}, body["errors"])
}

func TestTemplate_DownloadsWorkbook(t *testing.T) {
	env := setupTestApp(t, 0)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/taruna/template", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, ingest.ContentType, resp.Header.Get("Content-Type"))
	assert.Equal(t, "attachment; filename=template_taruna.xlsx", resp.Header.Get("Content-Disposition"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	sheet, err := ingest.ReadWorkbook("template_taruna.xlsx", data, 0)
	require.NoError(t, err)
	assert.Equal(t, "Template Taruna", sheet.Name)
	assert.Equal(t, ingest.TarunaProfile(nil).Labels(), sheet.Header.Texts())
}

func TestDosenCRUD(t *testing.T) {
	env := setupTestApp(t, 0)

	status, body := do(t, env, jsonRequest(http.MethodPost, "/api/v1/dosen", map[string]interface{}{
		"nip": "198012152005", "nama": "Ahmad", "email": "ahmad@kampus.ac.id",
		"gelar_depan": "Dr.", "status": "pensiun", "alamat": "Jl. Merdeka 1", "tanggal_lahir": "1980-12-15",
	}))
	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "PENSION", data["status"])
	assert.Equal(t, "Lektor", data["jabatan"])
	assert.Equal(t, "Dr. Ahmad", data["nama_lengkap"])
	assert.Equal(t, "UPT001", data["upt_code"])
	id := int(data["id"].(float64))

	status, _ = do(t, env, jsonRequest(http.MethodPost, "/api/v1/dosen", map[string]interface{}{
		"nip": "198012152005", "nama": "Lain", "email": "lain@kampus.ac.id",
	}))
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = do(t, env, jsonRequest(http.MethodPost, "/api/v1/dosen", map[string]interface{}{
		"nip": "19801", "nidn": "123", "nama": "Lain", "email": "lain@kampus.ac.id",
	}))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Format NIDN tidak valid (harus 10 digit angka)", body["error"].(map[string]interface{})["message"])

	status, body = do(t, env, jsonRequest(http.MethodPut, "/api/v1/dosen/"+strconv.Itoa(id), map[string]interface{}{"jabatan": "Lektor Kepala"}))
	require.Equal(t, fiber.StatusOK, status)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, "Lektor Kepala", data["jabatan"])
	assert.Equal(t, "Jl. Merdeka 1", data["alamat"])
	assert.Equal(t, "PENSION", data["status"])

	status, body = do(t, env, jsonRequest(http.MethodGet, "/api/v1/dosen/nip/198012152005", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Ahmad", body["data"].(map[string]interface{})["nama"])

	status, body = do(t, env, jsonRequest(http.MethodGet, "/api/v1/dosen?search=ahmad&limit=10", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)
	assert.Equal(t, float64(1), body["meta"].(map[string]interface{})["total_count"])

	status, body = do(t, env, jsonRequest(http.MethodGet, "/api/v1/dosen/stats", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), body["data"].(map[string]interface{})["total"])

	status, _ = do(t, env, jsonRequest(http.MethodDelete, "/api/v1/dosen/"+strconv.Itoa(id), nil))
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, env, jsonRequest(http.MethodGet, "/api/v1/dosen/"+strconv.Itoa(id), nil))
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = do(t, env, jsonRequest(http.MethodGet, "/api/v1/dosen/abc", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestTarunaCreateAndByUpt(t *testing.T) {
	env := setupTestApp(t, 0)

	status, body := do(t, env, jsonRequest(http.MethodPost, "/api/v1/taruna", map[string]interface{}{
		"nim": "20230001", "nama": "Rina", "email": "rina@kampus.ac.id",
		"jenis_kelamin": "perempuan", "tanggal_lahir": "2001-08-20", "semester": 3,
	}))
	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "P", data["jenis_kelamin"])
	assert.Equal(t, float64(time.Now().Year()), data["tahun_masuk"])
	assert.Equal(t, float64(3), data["semester"])
	assert.Equal(t, "AKTIF", data["status"])

	status, _ = do(t, env, jsonRequest(http.MethodPost, "/api/v1/taruna", map[string]interface{}{
		"nim": "20230002", "nama": "Sari", "email": "sari@kampus.ac.id", "tanggal_lahir": "20-08-2001x",
	}))
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = do(t, env, jsonRequest(http.MethodGet, "/api/v1/taruna/upt/UPT001", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = do(t, env, jsonRequest(http.MethodGet, "/api/v1/taruna/nim/20230001", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Rina", body["data"].(map[string]interface{})["nama"])
}

func TestExport_UsesFilters(t *testing.T) {
	env := setupTestApp(t, 0)
	payload := dosenWorkbook(t,
		dosenValues("11111", "Ahmad", "ahmad@kampus.ac.id"),
		dosenValues("22222", "Budi", "budi@kampus.ac.id"),
	)
	status, _ := do(t, env, uploadRequest(t, "/api/v1/dosen/upload", "dosen.xlsx", payload))
	require.Equal(t, fiber.StatusOK, status)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/dosen/export?search=budi", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "attachment; filename=export_dosen.xlsx", resp.Header.Get("Content-Disposition"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	sheet, err := ingest.ReadWorkbook("export_dosen.xlsx", data, 0)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "22222", sheet.Rows[0].Text(0))
}

func TestLoginAndMe(t *testing.T) {
	env := setupTestApp(t, 0)
	hash, err := auth.HashPassword("rahasia123")
	require.NoError(t, err)
	require.NoError(t, repository.NewUserRepository(env.db).Create(context.Background(), &domain.User{
		Email: "admin@kampus.ac.id", PasswordHash: hash, Name: "Admin", Role: domain.RoleAdminUPT, UptCode: "UPT003",
	}))

	status, _ := do(t, env, jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "admin@kampus.ac.id", "password": "salah",
	}))
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := do(t, env, jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "admin@kampus.ac.id", "password": "rahasia123",
	}))
	require.Equal(t, fiber.StatusOK, status)
	token := body["data"].(map[string]interface{})["access_token"].(string)

	req := jsonRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	status, body = do(t, env, req)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "UPT003", body["data"].(map[string]interface{})["upt_code"])

	status, _ = do(t, env, jsonRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
