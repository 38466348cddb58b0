package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"grievanceportal/backend/internal/access"
	"grievanceportal/backend/internal/api/handler"
	"grievanceportal/backend/internal/blob"
	"grievanceportal/backend/internal/complaint"
	"grievanceportal/backend/internal/evidence"
	"grievanceportal/backend/internal/feed"
	"grievanceportal/backend/internal/localization"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/session"
	"grievanceportal/backend/internal/storage"
	"grievanceportal/backend/internal/taxonomy"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const busesCategory = "33333333-3333-3333-3333-333333333333"

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 64)...)

type testServer struct {
	router   http.Handler
	storage  *storage.Service
	sessions *session.Store
	hub      *feed.Hub

	student, other, admin *models.Principal
	studentToken          string
	otherToken            string
	adminToken            string
	busesSub              string
	hostelSub             string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, storage.Migrate(db))

	s := storage.NewStorageService(db, nil)
	blobs, err := blob.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	hasher := session.NewBcryptHasher(bcrypt.MinCost)
	sessions := session.NewStore(s, hasher, []byte("test-secret"), time.Hour)
	catalog := taxonomy.NewCatalog(s)
	require.NoError(t, catalog.Seed(ctx))

	hub := feed.NewHub(s)
	hubCtx, cancel := context.WithCancel(ctx)
	go hub.Run(hubCtx)
	t.Cleanup(cancel)

	complaints := complaint.NewService(s, catalog, access.NewGate(), hub)
	attacher := evidence.NewAttacher(s, blobs, complaints)
	h := handler.NewHandler(sessions, catalog, complaints, attacher, hub, localization.NewDefault())

	r := gin.New()
	h.Register(r)

	ts := &testServer{router: r, storage: s, sessions: sessions, hub: hub}

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	asha := &models.Student{RegistrationNumber: "RA100", FullName: "Asha", PasswordHash: hash}
	ravi := &models.Student{RegistrationNumber: "RA200", FullName: "Ravi", PasswordHash: hash}
	require.NoError(t, s.CreateStudent(ctx, asha))
	require.NoError(t, s.CreateStudent(ctx, ravi))

	adminHash, err := hasher.Hash("adminpass")
	require.NoError(t, err)
	admin := &models.User{Email: "admin@campus.edu", FullName: "Dean", Role: models.RoleAdmin, PasswordHash: adminHash}
	require.NoError(t, s.CreateUser(ctx, admin))

	ts.student = &models.Principal{ID: asha.ID, DisplayName: asha.FullName, Role: models.RoleStudent, RegistrationNumber: "RA100"}
	ts.other = &models.Principal{ID: ravi.ID, DisplayName: ravi.FullName, Role: models.RoleStudent, RegistrationNumber: "RA200"}
	ts.admin = &models.Principal{ID: admin.ID, DisplayName: admin.FullName, Role: models.RoleAdmin}
	ts.studentToken = ts.issue(t, ts.student)
	ts.otherToken = ts.issue(t, ts.other)
	ts.adminToken = ts.issue(t, ts.admin)

	subs, err := s.ListSubcategories(ctx, busesCategory)
	require.NoError(t, err)
	require.NotEmpty(t, subs)
	ts.busesSub = subs[0].ID
	hostel, err := s.ListSubcategories(ctx, "22222222-2222-2222-2222-222222222222")
	require.NoError(t, err)
	require.NotEmpty(t, hostel)
	ts.hostelSub = hostel[0].ID
	return ts
}

func (ts *testServer) issue(t *testing.T, p *models.Principal) string {
	t.Helper()
	token, err := ts.sessions.Issue(p)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func (ts *testServer) fileComplaint(t *testing.T) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/complaints", ts.studentToken, gin.H{
		"title":          "Bus often late",
		"description":    "The 8am campus bus has been late every day this week.",
		"category_id":    busesCategory,
		"subcategory_id": ts.busesSub,
		"incident_date":  "2024-03-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID string `json:"id"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

type upload struct {
	name        string
	contentType string
	data        []byte
}

func (ts *testServer) upload(t *testing.T, complaintID, token string, files ...upload) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="files"; filename="`+f.name+`"`)
		header.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/complaints/"+complaintID+"/evidence", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","feed_clients":0}`, w.Body.String())
}

func TestLoginMeLogout(t *testing.T) {
	ts := newTestServer(t)

	// Arrange + Act: log in
	w := ts.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"user_type":           "student",
		"registration_number": "RA100",
		"password":            "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string           `json:"token"`
		User  models.Principal `json:"user"`
	}
	decode(t, w, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, ts.student.ID, login.User.ID)
	assert.Equal(t, models.RoleStudent, login.User.Role)

	// The session resolves
	w = ts.do(t, http.MethodGet, "/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.Principal
	decode(t, w, &me)
	assert.Equal(t, "Asha", me.DisplayName)

	// Logout revokes it, twice is fine
	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodPost, "/auth/logout", login.Token, nil).Code)
	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodPost, "/auth/logout", login.Token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/auth/me", login.Token, nil).Code)
}

func TestLogin_Failures(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name      string
		body      gin.H
		wantCode  int
		wantField string
	}{
		{"wrong password", gin.H{"user_type": "student", "registration_number": "RA100", "password": "wrong-one"}, http.StatusUnauthorized, ""},
		{"unknown student", gin.H{"user_type": "student", "registration_number": "RA999", "password": "secret1"}, http.StatusUnauthorized, ""},
		{"admin wrong password", gin.H{"user_type": "admin", "email": "admin@campus.edu", "password": "not-the-pass"}, http.StatusUnauthorized, ""},
		{"bad registration number", gin.H{"user_type": "student", "registration_number": "XY100", "password": "secret1"}, http.StatusBadRequest, "registration_number"},
		{"short admin password", gin.H{"user_type": "admin", "email": "admin@campus.edu", "password": "short"}, http.StatusBadRequest, "password"},
		{"unknown user type", gin.H{"user_type": "staff", "password": "secret1"}, http.StatusBadRequest, "user_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/auth/login", "", tt.body)

			assert.Equal(t, tt.wantCode, w.Code)
			var body map[string]any
			decode(t, w, &body)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, body["field"])
			} else {
				assert.Equal(t, "Invalid credentials. Please check your details and try again.", body["error"])
			}
		})
	}
}

func TestLogin_AdminSuccess(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/auth/login", "", gin.H{"user_type": "admin", "email": "admin@campus.edu", "password": "adminpass"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		User models.Principal `json:"user"`
	}
	decode(t, w, &login)
	assert.Equal(t, models.RoleAdmin, login.User.Role)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/auth/me", "/categories", "/complaints", "/complaints/mine", "/dashboard"} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, path, "", nil).Code)
			assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, path, "garbage", nil).Code)
		})
	}
}

func TestCategories(t *testing.T) {
	ts := newTestServer(t)
	ts.fileComplaint(t)

	w := ts.do(t, http.MethodGet, "/categories", ts.studentToken, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var categories []struct {
		ID             string `json:"id"`
		Title          string `json:"title"`
		ComplaintCount int64  `json:"complaint_count"`
	}
	decode(t, w, &categories)
	require.Len(t, categories, 6)
	for _, c := range categories {
		if c.ID == busesCategory {
			assert.EqualValues(t, 1, c.ComplaintCount)
		} else {
			assert.Zero(t, c.ComplaintCount, c.Title)
		}
	}

	w = ts.do(t, http.MethodGet, "/categories/"+busesCategory+"/subcategories", ts.studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subs []models.Subcategory
	decode(t, w, &subs)
	assert.Len(t, subs, 3)
}

func TestCreateComplaint_Validation(t *testing.T) {
	ts := newTestServer(t)
	valid := func() gin.H {
		return gin.H{
			"title":          "Bus often late",
			"description":    "The 8am campus bus has been late every day this week.",
			"category_id":    busesCategory,
			"subcategory_id": ts.busesSub,
			"incident_date":  "2024-03-01",
		}
	}

	tests := []struct {
		name      string
		mutate    func(gin.H)
		wantField string
	}{
		{"short title", func(b gin.H) { b["title"] = "Bus" }, "title"},
		{"short description", func(b gin.H) { b["description"] = "Too short." }, "description"},
		{"missing category", func(b gin.H) { b["category_id"] = "" }, "category_id"},
		{"subcategory from another category", func(b gin.H) { b["subcategory_id"] = ts.hostelSub }, "subcategory_id"},
		{"incident before 2020", func(b gin.H) { b["incident_date"] = "2019-12-31" }, "incident_date"},
		{"incident in the future", func(b gin.H) { b["incident_date"] = time.Now().AddDate(0, 0, 2).Format("2006-01-02") }, "incident_date"},
		{"unparseable date", func(b gin.H) { b["incident_date"] = "last tuesday" }, "incident_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valid()
			tt.mutate(body)

			w := ts.do(t, http.MethodPost, "/complaints", ts.studentToken, body)

			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			var resp map[string]any
			decode(t, w, &resp)
			assert.Equal(t, tt.wantField, resp["field"])
		})
	}

	w := ts.do(t, http.MethodPost, "/complaints", ts.adminToken, valid())
	assert.Equal(t, http.StatusForbidden, w.Code, "admins do not file complaints")
}

func TestComplaintVisibility(t *testing.T) {
	ts := newTestServer(t)
	id := ts.fileComplaint(t)

	// Owner and admin see it; another student does not.
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/complaints/"+id, ts.studentToken, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/complaints/"+id, ts.adminToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/complaints/"+id, ts.otherToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/complaints/does-not-exist", ts.adminToken, nil).Code)

	var mine []models.Complaint
	w := ts.do(t, http.MethodGet, "/complaints/mine", ts.studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, models.StatusPending, mine[0].Status)
	require.NotNil(t, mine[0].Category)
	assert.Equal(t, "Transportation & Security", mine[0].Category.Title)

	var none []models.Complaint
	w = ts.do(t, http.MethodGet, "/complaints/mine", ts.otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &none)
	assert.Empty(t, none)

	// The full list is admin only.
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/complaints", ts.studentToken, nil).Code)

	var all []models.Complaint
	w = ts.do(t, http.MethodGet, "/complaints?category_id="+busesCategory+"&status=pending", ts.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &all)
	assert.Len(t, all, 1)

	w = ts.do(t, http.MethodGet, "/complaints?status=resolved", ts.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &none)
	assert.Empty(t, none)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/complaints?status=lost", ts.adminToken, nil).Code)
}

func TestUpdateStatusAndHistory(t *testing.T) {
	ts := newTestServer(t)
	id := ts.fileComplaint(t)
	path := "/complaints/" + id + "/status"

	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPatch, path, ts.studentToken, gin.H{"status": "resolved"}).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPatch, path, ts.adminToken, gin.H{"status": "closed"}).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPatch, "/complaints/nope/status", ts.adminToken, gin.H{"status": "seen"}).Code)

	w := ts.do(t, http.MethodPatch, path, ts.adminToken, gin.H{"status": "in progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Status    models.Status `json:"status"`
		UpdatedAt time.Time     `json:"updated_at"`
	}
	decode(t, w, &resp)
	assert.Equal(t, models.StatusInProgress, resp.Status)
	assert.False(t, resp.UpdatedAt.IsZero())

	var got models.Complaint
	decode(t, ts.do(t, http.MethodGet, "/complaints/"+id, ts.studentToken, nil), &got)
	assert.Equal(t, models.StatusInProgress, got.Status)

	var history []models.StatusChange
	w = ts.do(t, http.MethodGet, "/complaints/"+id+"/history", ts.studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &history)
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusPending, history[0].From)
	assert.Equal(t, models.StatusInProgress, history[0].To)
}

func TestComments(t *testing.T) {
	ts := newTestServer(t)
	id := ts.fileComplaint(t)
	path := "/complaints/" + id + "/comments"

	assert.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, path, ts.adminToken, gin.H{"content": "We have contacted the transport office."}).Code)
	assert.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, path, ts.studentToken, gin.H{"content": "Thanks."}).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPost, path, ts.otherToken, gin.H{"content": "Me too"}).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, path, ts.studentToken, gin.H{"content": "   "}).Code)

	var comments []models.Comment
	w := ts.do(t, http.MethodGet, path, ts.studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &comments)
	require.Len(t, comments, 2)
	assert.Equal(t, models.RoleAdmin, comments[0].AuthorRole)
}

func TestEvidenceUploadAndDownload(t *testing.T) {
	ts := newTestServer(t)
	id := ts.fileComplaint(t)
	png := upload{name: "bus.png", contentType: "image/png", data: pngBytes}

	// Only the author may attach.
	assert.Equal(t, http.StatusForbidden, ts.upload(t, id, ts.adminToken, png).Code)
	assert.Equal(t, http.StatusForbidden, ts.upload(t, id, ts.otherToken, png).Code)

	w := ts.upload(t, id, ts.studentToken, png)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		EvidenceIDs []string `json:"evidence_ids"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.EvidenceIDs, 1)

	// Author and admin can download it.
	for _, token := range []string{ts.studentToken, ts.adminToken} {
		w = ts.do(t, http.MethodGet, "/complaints/"+id+"/evidence/"+resp.EvidenceIDs[0], token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, pngBytes, w.Body.Bytes())
	}
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/complaints/"+id+"/evidence/"+resp.EvidenceIDs[0], ts.otherToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/complaints/"+id+"/evidence/missing", ts.studentToken, nil).Code)

	var got models.Complaint
	decode(t, ts.do(t, http.MethodGet, "/complaints/"+id, ts.studentToken, nil), &got)
	require.Len(t, got.Evidence, 1)
	assert.Equal(t, "evidence/"+id+"/"+id+"-0.png", got.Evidence[0].FilePath)
}

func TestEvidenceRejections(t *testing.T) {
	ts := newTestServer(t)
	id := ts.fileComplaint(t)
	png := upload{name: "bus.png", contentType: "image/png", data: pngBytes}

	w := ts.upload(t, id, ts.studentToken, png, png, png, png)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Someone else's complaint is refused before the batch is inspected.
	w = ts.upload(t, id, ts.otherToken, png, png, png, png)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.upload(t, id, ts.studentToken, upload{name: "notes.txt", contentType: "text/plain", data: []byte("hello")})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.upload(t, id, ts.studentToken, upload{name: "fake.png", contentType: "image/png", data: []byte("definitely not an image")})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Two now, then two more would exceed the per-complaint limit.
	require.Equal(t, http.StatusCreated, ts.upload(t, id, ts.studentToken, png, png).Code)
	assert.Equal(t, http.StatusBadRequest, ts.upload(t, id, ts.studentToken, png, png).Code)
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)
	id := ts.fileComplaint(t)
	ts.fileComplaint(t)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPatch, "/complaints/"+id+"/status", ts.adminToken, gin.H{"status": "resolved"}).Code)

	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/dashboard", ts.studentToken, nil).Code)

	w := ts.do(t, http.MethodGet, "/dashboard", ts.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash complaint.Dashboard
	decode(t, w, &dash)
	assert.EqualValues(t, 2, dash.Summary.Total)
	assert.EqualValues(t, 1, dash.Summary.Pending)
	assert.EqualValues(t, 1, dash.Summary.Resolved)
	assert.EqualValues(t, 2, dash.ByCategory[busesCategory])
}

func TestErrorsAreLocalized(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+ts.studentToken)
	req.Header.Set("Accept-Language", "hi-IN,hi;q=0.9")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"आपको ऐसा करने की अनुमति नहीं है।"}`, w.Body.String())
}

func TestWebSocketFeed(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.router)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	// No token, no upgrade.
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	adminConn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+ts.adminToken, nil)
	require.NoError(t, err)
	defer adminConn.Close()
	otherConn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Authorization": {"Bearer " + ts.otherToken}})
	require.NoError(t, err)
	defer otherConn.Close()
	require.Eventually(t, func() bool { return ts.hub.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)
	health := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.JSONEq(t, `{"status":"ok","feed_clients":2}`, health.Body.String())

	id := ts.fileComplaint(t)

	require.NoError(t, adminConn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event models.Event
	require.NoError(t, adminConn.ReadJSON(&event))
	assert.Equal(t, models.EventComplaintCreated, event.Type)
	assert.Equal(t, id, event.ComplaintID)

	// Another student's complaint is not pushed to this student.
	require.NoError(t, otherConn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	assert.Error(t, otherConn.ReadJSON(&event))
}
