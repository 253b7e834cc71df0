package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/clubhub/clubhub/auth"
	"github.com/clubhub/clubhub/internal/config"
	"github.com/clubhub/clubhub/internal/db"
	"github.com/clubhub/clubhub/internal/media"
	"github.com/clubhub/clubhub/internal/models"
	"github.com/clubhub/clubhub/internal/obs"
	"github.com/clubhub/clubhub/internal/ratelimit"
	"github.com/clubhub/clubhub/internal/server"
	"github.com/clubhub/clubhub/internal/services"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// fakeStore records uploads and hands out predictable URLs.
type fakeStore struct {
	mu      sync.Mutex
	uploads []media.Upload
	fail    error
}

func (s *fakeStore) Store(_ context.Context, up media.Upload) (media.Stored, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return media.Stored{}, s.fail
	}
	s.uploads = append(s.uploads, up)
	return media.Stored{
		URL:  fmt.Sprintf("https://cdn.test/%d/%s", len(s.uploads), up.Filename),
		Kind: media.DetectKind(up.ContentType, ""),
	}, nil
}

// fakeVerifier accepts exactly one token.
type fakeVerifier struct{ good string }

func (v fakeVerifier) Verify(_ context.Context, token, _ string) (bool, error) {
	return token == v.good, nil
}

type harness struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler
	codec   *auth.Codec
	store   *fakeStore
}

type option func(*server.Deps)

func withEventOverride() option {
	return func(d *server.Deps) { d.Config.Auth.EventAdminOverride = true }
}

func withLoginLimit(perMinute int) option {
	return func(d *server.Deps) { d.LoginLimiter = ratelimit.NewMemory(perMinute) }
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			CORSOrigins:    []string{"http://localhost:5173"},
			MaxBodyBytes:   1 << 20,
			MaxUploadBytes: 10 << 20,
		},
		Auth:  config.AuthConfig{JWTSecret: testSecret},
		Media: config.MediaConfig{Driver: "disk", PublicBaseURL: "/uploads"},
		App:   config.AppConfig{Dev: true},
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))
	return gdb
}

func newHarness(t *testing.T, opts ...option) *harness {
	t.Helper()
	gdb := openTestDB(t)
	store := &fakeStore{}
	deps := server.Deps{
		Config:   testConfig(),
		DB:       gdb,
		Log:      zerolog.Nop(),
		Media:    store,
		BotCheck: fakeVerifier{good: "human"},
		Metrics:  obs.NewMetrics(),
	}
	for _, o := range opts {
		o(&deps)
	}
	h, err := server.New(deps)
	require.NoError(t, err)
	return &harness{t: t, db: gdb, handler: h, codec: auth.NewCodec(testSecret, auth.DefaultTokenTTL), store: store}
}

func (h *harness) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(auth.HeaderName, token)
	}
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	return rr
}

func (h *harness) json(method, path, token string, payload any) *httptest.ResponseRecorder {
	h.t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(h.t, err)
		body = bytes.NewReader(b)
	}
	return h.do(method, path, token, body, "application/json")
}

func (h *harness) upload(method, path, token, filename, contentType string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(h.t, w.WriteField(k, v))
	}
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(h.t, err)
	_, _ = part.Write(data)
	require.NoError(h.t, w.Close())
	return h.do(method, path, token, &buf, w.FormDataContentType())
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[struct {
		Error string `json:"error"`
	}](t, rr).Error
}

func (h *harness) provision(name, email string) *services.Provisioned {
	h.t.Helper()
	out, err := services.NewClubService(h.db).Provision(context.Background(), services.ProvisionInput{Name: name, Email: email, Password: "secret1"})
	require.NoError(h.t, err)
	return out
}

func (h *harness) superAdmin() string {
	h.t.Helper()
	_, err := db.Seed(context.Background(), h.db, db.SeedOptions{})
	require.NoError(h.t, err)
	return h.login(db.DefaultAdminEmail, db.DefaultAdminPassword)
}

func (h *harness) login(email, password string) string {
	h.t.Helper()
	rr := h.json(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(h.t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[struct {
		Token string `json:"token"`
	}](h.t, rr).Token
}

func (h *harness) createPost(token, caption string) models.Post {
	h.t.Helper()
	rr := h.upload(http.MethodPost, "/api/posts/create", token, "photo.jpg", "image/jpeg", []byte("jpeg-bytes"), map[string]string{"caption": caption})
	require.Equal(h.t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[models.Post](h.t, rr)
}

func (h *harness) createEvent(token, title string, when time.Time) models.Event {
	h.t.Helper()
	rr := h.json(http.MethodPost, "/api/events/create", token, map[string]string{
		"title": title, "date": when.Format(time.RFC3339), "location": "Main Hall",
	})
	require.Equal(h.t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[models.Event](h.t, rr)
}

func TestLogin_ClaimsMatchStoredAccount(t *testing.T) {
	h := newHarness(t)
	club := h.provision("Tech Society", "tech@college.edu")

	rr := h.json(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "TECH@college.edu", "password": "secret1"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decode[struct {
		Token string `json:"token"`
		User  struct {
			ID                 string `json:"id"`
			Role               string `json:"role"`
			Email              string `json:"email"`
			ClubName           string `json:"clubName"`
			MustChangePassword bool   `json:"mustChangePassword"`
		} `json:"user"`
	}](t, rr)

	id, err := h.codec.Verify(body.Token)
	require.NoError(t, err)
	assert.Equal(t, club.Account.ID, id.SubjectID)
	assert.Equal(t, club.Account.Role, id.Role)
	assert.Equal(t, club.Club.ID, id.ClubID)
	assert.Equal(t, "Tech Society", body.User.ClubName)
	assert.True(t, body.User.MustChangePassword)

	rr = h.json(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "tech@college.edu", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid Credentials", errorMessage(t, rr))
}

func TestLogin_RateLimited(t *testing.T) {
	h := newHarness(t, withLoginLimit(1))
	creds := map[string]string{"email": "x@college.edu", "password": "whatever"}

	assert.Equal(t, http.StatusBadRequest, h.json(http.MethodPost, "/api/auth/login", "", creds).Code)
	rr := h.json(http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rr.Body.String())
}

func TestLogin_RateLimitKeyIgnoresForwardedFor(t *testing.T) {
	h := newHarness(t, withLoginLimit(1))
	creds, err := json.Marshal(map[string]string{"email": "x@college.edu", "password": "whatever"})
	require.NoError(t, err)

	var codes []int
	for i := 1; i <= 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(creds))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rr := httptest.NewRecorder()
		h.handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{400, 429, 429, 429, 429}, codes)
}

func TestAuthentication_StoreUnavailable(t *testing.T) {
	h := newHarness(t)
	club := h.provision("Tech Society", "tech@college.edu")
	token, err := h.codec.Issue(club.Account.Identity())
	require.NoError(t, err)

	sqlDB, err := h.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	for _, path := range []string{"/api/events/my-events", "/api/auth/all-clubs"} {
		rr := h.do(http.MethodGet, path, token, nil, "")
		assert.Equal(t, http.StatusBadGateway, rr.Code, path)
		assert.Equal(t, "account lookup failed", errorMessage(t, rr), path)
	}
}

func TestAuthentication(t *testing.T) {
	h := newHarness(t)
	club := h.provision("Tech Society", "tech@college.edu")
	ident := club.Account.Identity()

	expired, err := h.codec.WithClock(func() time.Time { return time.Now().Add(-6 * 24 * time.Hour) }).Issue(ident)
	require.NoError(t, err)
	fresh, err := h.codec.Issue(ident)
	require.NoError(t, err)
	orphan, err := h.codec.Issue(auth.Identity{SubjectID: "01HZZZZZZZZZZZZZZZZZZZZZZZ", Role: auth.RoleClubAdmin, ClubID: club.Club.ID})
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		status  int
		message string
	}{
		{"no token", "", http.StatusUnauthorized, "no token, authorization denied"},
		{"garbage", "not-a-token", http.StatusUnauthorized, "token is not valid or has expired"},
		{"expired", expired, http.StatusUnauthorized, "token is not valid or has expired"},
		{"deleted account", orphan, http.StatusUnauthorized, "token is not valid or has expired"},
		{"valid", fresh, http.StatusOK, ""},
	}
	endpoints := []struct{ method, path string }{
		{http.MethodGet, "/api/events/my-events"},
		{http.MethodGet, "/api/applications/my-applications"},
	}
	for _, ep := range endpoints {
		for _, tt := range tests {
			t.Run(ep.path+"/"+tt.name, func(t *testing.T) {
				rr := h.do(ep.method, ep.path, tt.token, nil, "")
				assert.Equal(t, tt.status, rr.Code, rr.Body.String())
				if tt.message != "" {
					assert.Equal(t, tt.message, errorMessage(t, rr))
				}
			})
		}
	}
}

func TestRoleGate(t *testing.T) {
	h := newHarness(t)
	h.provision("Tech Society", "tech@college.edu")
	clubToken := h.login("tech@college.edu", "secret1")
	super := h.superAdmin()

	rr := h.do(http.MethodGet, "/api/auth/all-clubs", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = h.do(http.MethodGet, "/api/auth/all-clubs", clubToken, nil, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "access denied", errorMessage(t, rr))

	rr = h.do(http.MethodGet, "/api/auth/all-clubs", super, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]services.ClubListing](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, "tech@college.edu", list[0].AdminEmail)
}

func TestRegisterClub(t *testing.T) {
	h := newHarness(t)
	super := h.superAdmin()
	body := map[string]string{"name": "Tech Society", "email": "tech@college.edu", "password": "secret1", "category": "Technical"}

	rr := h.json(http.MethodPost, "/api/auth/register-club", super, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "passwordHash")
	assert.NotContains(t, rr.Body.String(), "$2a$")

	// The new account can log in with the provisioned password.
	h.login("tech@college.edu", "secret1")

	// Duplicate name through the alias: rejected, nothing created.
	dup := map[string]string{"name": "Tech Society", "email": "other@college.edu", "password": "secret1"}
	rr = h.json(http.MethodPost, "/api/auth/create-club", super, dup)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Club name already exists", errorMessage(t, rr))

	var clubs, accounts int64
	h.db.Model(&models.Club{}).Count(&clubs)
	h.db.Model(&models.Account{}).Where("email = ?", "other@college.edu").Count(&accounts)
	assert.EqualValues(t, 1, clubs)
	assert.EqualValues(t, 0, accounts)

	rr = h.json(http.MethodPost, "/api/auth/register-club", super, map[string]string{"name": "X"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	details := decode[struct {
		Details map[string]string `json:"details"`
	}](t, rr).Details
	assert.Equal(t, "required", details["email"])
	assert.Equal(t, "required", details["password"])
}

func TestPosts_OwnershipScenario(t *testing.T) {
	h := newHarness(t)
	h.provision("Club A", "a@college.edu")
	h.provision("Club B", "b@college.edu")
	tokenA := h.login("a@college.edu", "secret1")
	tokenB := h.login("b@college.edu", "secret1")

	p1 := h.createPost(tokenA, "hello from A")
	assert.Equal(t, models.MediaImage, p1.MediaType)
	assert.Equal(t, "hello from A", p1.Caption)

	feed := decode[[]models.Post](t, h.do(http.MethodGet, "/api/posts/feed", "", nil, ""))
	require.Len(t, feed, 1)
	require.NotNil(t, feed[0].Club)
	assert.Equal(t, "Club A", feed[0].Club.Name)

	rr := h.do(http.MethodDelete, "/api/posts/"+p1.ID, tokenB, nil, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "User not authorized", errorMessage(t, rr))

	rr = h.do(http.MethodDelete, "/api/posts/"+p1.ID, tokenA, nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	feed = decode[[]models.Post](t, h.do(http.MethodGet, "/api/posts/feed", "", nil, ""))
	assert.Empty(t, feed)

	rr = h.do(http.MethodDelete, "/api/posts/"+p1.ID, tokenA, nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPosts_Create(t *testing.T) {
	h := newHarness(t)
	club := h.provision("Club A", "a@college.edu")
	token := h.login("a@college.edu", "secret1")
	super := h.superAdmin()

	rr := h.upload(http.MethodPost, "/api/posts/create", token, "slides.pdf", "application/pdf", []byte("%PDF"), nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, models.MediaDocument, decode[models.Post](t, rr).MediaType)

	rr = h.upload(http.MethodPost, "/api/posts/create", token, "tool.exe", "application/octet-stream", []byte("MZ"), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.json(http.MethodPost, "/api/posts/create", token, map[string]string{"caption": "no file"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "multipart/form-data body required", errorMessage(t, rr))

	rr = h.do(http.MethodPost, "/api/posts/create", token, strings.NewReader("--x--\r\n"), "multipart/form-data; boundary=x")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// The platform account manages no club and cannot publish.
	rr = h.upload(http.MethodPost, "/api/posts/create", super, "a.jpg", "image/jpeg", []byte("x"), nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	h.store.fail = fmt.Errorf("cdn down")
	rr = h.upload(http.MethodPost, "/api/posts/create", token, "a.jpg", "image/jpeg", []byte("x"), nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	h.store.fail = nil

	byClub := decode[[]models.Post](t, h.do(http.MethodGet, "/api/posts/club/"+club.Club.ID, "", nil, ""))
	assert.Len(t, byClub, 1)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/api/posts/club/missing", "", nil, "").Code)
}

func TestEvents_CreatorOnlyDeletion(t *testing.T) {
	h := newHarness(t)
	h.provision("Club A", "a@college.edu")
	h.provision("Club B", "b@college.edu")
	tokenA := h.login("a@college.edu", "secret1")
	tokenB := h.login("b@college.edu", "secret1")
	super := h.superAdmin()

	ev := h.createEvent(tokenA, "Hackathon", time.Now().Add(48*time.Hour))

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodDelete, "/api/events/"+ev.ID, tokenB, nil, "").Code)
	// Current behavior: the platform account has no override on events.
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodDelete, "/api/events/"+ev.ID, super, nil, "").Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodDelete, "/api/events/"+ev.ID, tokenA, nil, "").Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, "/api/events/"+ev.ID, tokenA, nil, "").Code)
}

func TestEvents_AdminOverrideOptIn(t *testing.T) {
	h := newHarness(t, withEventOverride())
	h.provision("Club A", "a@college.edu")
	tokenA := h.login("a@college.edu", "secret1")
	super := h.superAdmin()

	ev := h.createEvent(tokenA, "Hackathon", time.Now().Add(48*time.Hour))
	assert.Equal(t, http.StatusOK, h.do(http.MethodDelete, "/api/events/"+ev.ID, super, nil, "").Code)
}

func TestEvents_Listing(t *testing.T) {
	h := newHarness(t)
	h.provision("Club A", "a@college.edu")
	h.provision("Club B", "b@college.edu")
	tokenA := h.login("a@college.edu", "secret1")
	tokenB := h.login("b@college.edu", "secret1")

	h.createEvent(tokenA, "later", time.Now().Add(72*time.Hour))
	h.createEvent(tokenA, "sooner", time.Now().Add(24*time.Hour))
	h.createEvent(tokenA, "past", time.Now().Add(-24*time.Hour))
	h.createEvent(tokenB, "other", time.Now().Add(48*time.Hour))

	upcoming := decode[[]models.Event](t, h.do(http.MethodGet, "/api/events", "", nil, ""))
	require.Len(t, upcoming, 3)
	assert.Equal(t, []string{"sooner", "other", "later"}, []string{upcoming[0].Title, upcoming[1].Title, upcoming[2].Title})
	require.NotNil(t, upcoming[0].Club)
	assert.Equal(t, "Club A", upcoming[0].Club.Name)

	mine := decode[[]models.Event](t, h.do(http.MethodGet, "/api/events/my-events", tokenA, nil, ""))
	require.Len(t, mine, 3)
	assert.Equal(t, "past", mine[0].Title)

	rr := h.json(http.MethodPost, "/api/events/create", tokenA, map[string]string{"title": "x", "date": "soon", "location": "y"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestApplications(t *testing.T) {
	h := newHarness(t)
	a := h.provision("Club A", "a@college.edu")
	h.provision("Club B", "b@college.edu")
	tokenA := h.login("a@college.edu", "secret1")
	tokenB := h.login("b@college.edu", "secret1")

	apply := func(clubID, email, captcha string) *httptest.ResponseRecorder {
		return h.json(http.MethodPost, "/api/applications/apply", "", map[string]string{
			"clubId": clubID, "studentName": "Sam", "studentEmail": email,
			"rollNumber": "CS-42", "reason": "robots", "captchaToken": captcha,
		})
	}

	rr := apply(a.Club.ID, "sam@college.edu", "bot")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Captcha verification failed", errorMessage(t, rr))

	assert.Equal(t, http.StatusNotFound, apply("missing", "sam@college.edu", "human").Code)

	rr = apply(a.Club.ID, "sam@college.edu", "human")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = apply(a.Club.ID, "SAM@college.edu", "human")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "You have already applied to this club.", errorMessage(t, rr))

	var n int64
	h.db.Model(&models.Application{}).Count(&n)
	assert.EqualValues(t, 1, n)

	mine := decode[[]models.Application](t, h.do(http.MethodGet, "/api/applications/my-applications", tokenA, nil, ""))
	require.Len(t, mine, 1)
	assert.Equal(t, models.StatusPending, mine[0].Status)
	assert.Empty(t, decode[[]models.Application](t, h.do(http.MethodGet, "/api/applications/my-applications", tokenB, nil, "")))

	path := "/api/applications/" + mine[0].ID + "/status"
	assert.Equal(t, http.StatusForbidden, h.json(http.MethodPut, path, tokenB, map[string]string{"status": "accepted"}).Code)
	assert.Equal(t, http.StatusBadRequest, h.json(http.MethodPut, path, tokenA, map[string]string{"status": "maybe"}).Code)

	rr = h.json(http.MethodPut, path, tokenA, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.StatusAccepted, decode[models.Application](t, rr).Status)
}

func TestProfile(t *testing.T) {
	h := newHarness(t)
	a := h.provision("Club A", "a@college.edu")
	token := h.login("a@college.edu", "secret1")
	super := h.superAdmin()

	update := map[string]any{
		"description": "We build things",
		"socials":     map[string]string{"instagram": "@cluba", "website": "https://cluba.example"},
		"coreTeam":    []map[string]string{{"name": "Ada", "role": "President"}},
	}
	assert.Equal(t, http.StatusForbidden, h.json(http.MethodPut, "/api/auth/update-profile", super, update).Code)

	rr := h.json(http.MethodPut, "/api/auth/update-profile", token, update)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	club := decode[models.Club](t, h.do(http.MethodGet, "/api/auth/club/"+a.Club.ID, "", nil, ""))
	assert.Equal(t, "We build things", club.Description)
	assert.Equal(t, "@cluba", club.Socials.Instagram)
	require.Len(t, club.CoreTeam, 1)
	assert.Equal(t, "Ada", club.CoreTeam[0].Name)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 800, 600))))
	rr = h.upload(http.MethodPut, "/api/auth/update-logo", token, "logo.png", "image/png", buf.Bytes(), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, decode[models.Club](t, rr).LogoURL, "https://cdn.test/")

	stored := h.store.uploads[len(h.store.uploads)-1]
	cfg, _, err := image.DecodeConfig(bytes.NewReader(stored.Data))
	require.NoError(t, err)
	assert.Equal(t, media.LogoSize, cfg.Width)

	rr = h.upload(http.MethodPut, "/api/auth/update-banner", token, "slides.pdf", "application/pdf", []byte("%PDF"), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	clubs := decode[[]models.Club](t, h.do(http.MethodGet, "/api/auth/clubs", "", nil, ""))
	require.Len(t, clubs, 1)
	assert.NotEmpty(t, clubs[0].LogoURL)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/api/auth/club/missing", "", nil, "").Code)
}

func TestChangeInitialPassword(t *testing.T) {
	h := newHarness(t)
	h.provision("Club A", "a@college.edu")
	token := h.login("a@college.edu", "secret1")

	assert.Equal(t, http.StatusBadRequest, h.json(http.MethodPut, "/api/auth/change-initial-password", token, map[string]string{"newPassword": "123"}).Code)
	require.Equal(t, http.StatusOK, h.json(http.MethodPut, "/api/auth/change-initial-password", token, map[string]string{"newPassword": "brand-new"}).Code)

	rr := h.json(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@college.edu", "password": "brand-new"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"mustChangePassword":false`)
}

func TestDeleteClub_Cascades(t *testing.T) {
	h := newHarness(t)
	a := h.provision("Club A", "a@college.edu")
	token := h.login("a@college.edu", "secret1")
	super := h.superAdmin()

	h.createPost(token, "bye")
	h.createEvent(token, "farewell", time.Now().Add(time.Hour))

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodDelete, "/api/auth/user/"+a.Club.ID, token, nil, "").Code)
	require.Equal(t, http.StatusOK, h.do(http.MethodDelete, "/api/auth/user/"+a.Club.ID, super, nil, "").Code)

	assert.Empty(t, decode[[]models.Post](t, h.do(http.MethodGet, "/api/posts/feed", "", nil, "")))
	assert.Empty(t, decode[[]models.Event](t, h.do(http.MethodGet, "/api/events", "", nil, "")))
	// The deleted account's credential no longer authenticates.
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/api/events/my-events", token, nil, "").Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, "/api/auth/user/"+a.Club.ID, super, nil, "").Code)
}

func TestOperationalEndpoints(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/healthz", "", nil, "").Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/readyz", "", nil, "").Code)

	h.do(http.MethodGet, "/api/posts/feed", "", nil, "")
	rr := h.do(http.MethodGet, "/metrics", "", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `path="/api/posts/feed"`)

	rr = h.do(http.MethodGet, "/api/nothing-here", "", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestCORS(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/posts/create", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), auth.HeaderName)

	req = httptest.NewRequest(http.MethodGet, "/api/posts/feed", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestDiskUploadsAreServed(t *testing.T) {
	gdb := openTestDB(t)
	store, err := media.NewDiskStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	h, err := server.New(server.Deps{
		Config:   testConfig(),
		DB:       gdb,
		Log:      zerolog.Nop(),
		Media:    store,
		BotCheck: fakeVerifier{},
	})
	require.NoError(t, err)

	stored, err := store.Store(context.Background(), media.Upload{Filename: "a.txt.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, stored.URL, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "%PDF-1.4", rr.Body.String())
}
