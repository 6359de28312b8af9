package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"realtyflow/assign"
	"realtyflow/auth"
	"realtyflow/config"
	"realtyflow/favorite"
	"realtyflow/inquiry"
	"realtyflow/property"
	"realtyflow/storage"
)

type testServer struct {
	handler    http.Handler
	users      *fakeUserRepo
	properties *fakePropertyRepo
	inquiries  *fakeInquiryRepo
	strategy   *fixedStrategy
	uploadDir  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := newFakeUserRepo()
	properties := &fakePropertyRepo{byID: map[string]property.Property{}}
	inquiries := newFakeInquiryRepo()
	favorites := &fakeFavoriteRepo{pairs: map[string]favorite.Record{}}
	strategy := &fixedStrategy{adminID: "admin-1"}

	authService := auth.NewService(users, "test-secret", time.Hour)
	propertyService := property.NewService(properties)
	inquiryService := inquiry.NewService(&fakePool{}, inquiries, strategy)
	favoriteService := favorite.NewService(favorites)

	uploadDir := t.TempDir()
	store, err := storage.NewDiskStore(uploadDir)
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}

	handlers := NewHandlerSet(zerolog.Nop(), authService, propertyService, inquiryService, favoriteService, store)
	cfg := &config.AppConfig{Environment: "test"}
	server := NewHTTPServer(cfg, zerolog.Nop(), handlers, "")

	return &testServer{
		handler:    server.Handler(),
		users:      users,
		properties: properties,
		inquiries:  inquiries,
		strategy:   strategy,
		uploadDir:  uploadDir,
	}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}

func (ts *testServer) registerAndLogin(t *testing.T, email, role string) string {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    email,
		"password": "password123",
		"role":     role,
		"profile":  map[string]string{"first_name": "Test", "last_name": "User"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", email, rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, rec.Code, rec.Body.String())
	}

	var data struct {
		Token string `json:"token"`
	}
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	if data.Token == "" {
		t.Fatal("expected a token")
	}
	return data.Token
}

func TestAuthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	token := ts.registerAndLogin(t, "buyer@example.com", "buyer")

	rec := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    "buyer@example.com",
		"password": "password123",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: status %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Success {
		t.Fatal("duplicate register: expected success=false")
	}

	rec = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "buyer@example.com",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad login: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/users/profile", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: status %d body %s", rec.Code, rec.Body.String())
	}
	var profile struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Email != "buyer@example.com" || profile.Role != "buyer" {
		t.Fatalf("profile = %+v", profile)
	}

	rec = ts.do(t, http.MethodGet, "/api/users/profile", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/users/profile", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d", rec.Code)
	}
}

func TestCreatePropertyMultipart(t *testing.T) {
	ts := newTestServer(t)
	sellerToken := ts.registerAndLogin(t, "seller@example.com", "seller")
	buyerToken := ts.registerAndLogin(t, "buyer@example.com", "buyer")

	makeRequest := func(token string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		w.WriteField("title", "Sunny Apartment")
		w.WriteField("property_type", "apartment")
		w.WriteField("transaction_type", "sale")
		w.WriteField("price", "250000")
		w.WriteField("address", `{"street":"1 Main St","city":"Springfield","country":"USA"}`)
		w.WriteField("details", `{"bedrooms":2,"bathrooms":1}`)
		w.WriteField("features", `["balcony"]`)
		w.WriteField("imageMetadata", `[{"caption":"Front"}]`)
		fw, err := w.CreateFormFile("propertyImages", "front.jpg")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write([]byte("jpeg-bytes"))
		w.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/properties", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := makeRequest(buyerToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("buyer create: status %d", rec.Code)
	}

	rec = makeRequest(sellerToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seller create: status %d body %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Images []struct {
			URL       string `json:"url"`
			Caption   string `json:"caption"`
			IsPrimary bool   `json:"is_primary"`
		} `json:"images"`
	}
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode property: %v", err)
	}
	if created.Status != "pending" {
		t.Fatalf("status = %q, want pending", created.Status)
	}
	if len(created.Images) != 1 {
		t.Fatalf("images = %d, want 1", len(created.Images))
	}
	img := created.Images[0]
	if !strings.HasPrefix(img.URL, "/uploads/") || !strings.HasSuffix(img.URL, ".jpg") {
		t.Fatalf("image url = %q", img.URL)
	}
	if img.Caption != "Front" || !img.IsPrimary {
		t.Fatalf("image = %+v", img)
	}

	rec = ts.do(t, http.MethodGet, "/api/properties/"+created.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get property: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/properties/missing", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get missing property: status %d", rec.Code)
	}
}

func TestCreatePropertyMalformedAddress(t *testing.T) {
	ts := newTestServer(t)
	sellerToken := ts.registerAndLogin(t, "seller@example.com", "seller")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("title", "Broken")
	w.WriteField("property_type", "house")
	w.WriteField("transaction_type", "sale")
	w.WriteField("price", "100000")
	w.WriteField("address", "{not json")
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/properties", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+sellerToken)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed address: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestCreatePropertyRemovesUploadsOnFailure(t *testing.T) {
	ts := newTestServer(t)
	sellerToken := ts.registerAndLogin(t, "seller@example.com", "seller")
	ts.properties.createErr = errors.New("insert failed")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("title", "Doomed Listing")
	w.WriteField("property_type", "house")
	w.WriteField("transaction_type", "sale")
	w.WriteField("price", "100000")
	fw, err := w.CreateFormFile("propertyImages", "front.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte("jpeg-bytes"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/properties", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+sellerToken)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("failed create: status %d body %s", rec.Code, rec.Body.String())
	}

	entries, err := os.ReadDir(ts.uploadDir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("upload dir has %d leftover files, want 0", len(entries))
	}
}

func TestUpdatePropertyStatusRoles(t *testing.T) {
	ts := newTestServer(t)
	sellerToken := ts.registerAndLogin(t, "seller@example.com", "seller")
	adminToken := ts.registerAndLogin(t, "admin@example.com", "admin")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("title", "Condo Downtown")
	w.WriteField("property_type", "condo")
	w.WriteField("transaction_type", "rent")
	w.WriteField("price", "1800")
	w.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/properties", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+sellerToken)
	createRec := httptest.NewRecorder()
	ts.handler.ServeHTTP(createRec, req)
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", createRec.Code, createRec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	env := decodeEnvelope(t, createRec)
	json.Unmarshal(env.Data, &created)

	rec := ts.do(t, http.MethodPatch, "/api/properties/"+created.ID+"/status", sellerToken, map[string]string{"status": "approved"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("seller approve: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPatch, "/api/properties/"+created.ID+"/status", adminToken, map[string]string{"status": "archived"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad status value: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPatch, "/api/properties/"+created.ID+"/status", adminToken, map[string]string{"status": "approved"})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin approve: status %d body %s", rec.Code, rec.Body.String())
	}
	var updated struct {
		Status string `json:"status"`
	}
	env = decodeEnvelope(t, rec)
	json.Unmarshal(env.Data, &updated)
	if updated.Status != "approved" {
		t.Fatalf("status = %q", updated.Status)
	}
}

func TestFavoriteEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "buyer@example.com", "buyer")

	rec := ts.do(t, http.MethodPost, "/api/favorites", token, map[string]string{"property_id": "prop-1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add favorite: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPost, "/api/favorites", token, map[string]string{"property_id": "prop-1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate favorite: status %d", rec.Code)
	}

	// The flag rides at the top level of the envelope, not under data.
	rec = ts.do(t, http.MethodGet, "/api/favorites/check/prop-1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("check: status %d", rec.Code)
	}
	var check struct {
		Success     bool `json:"success"`
		IsFavorited bool `json:"isFavorited"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &check); err != nil {
		t.Fatalf("decode check: %v", err)
	}
	if !check.Success || !check.IsFavorited {
		t.Fatalf("check = %+v, want success and isFavorited", check)
	}

	rec = ts.do(t, http.MethodGet, "/api/favorites", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	var listed []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &listed); err != nil {
		t.Fatalf("decode favorites list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "prop-1" || listed[0].Title != "Listing" {
		t.Fatalf("favorites list = %+v, want the favorited property", listed)
	}

	rec = ts.do(t, http.MethodDelete, "/api/favorites/prop-1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodDelete, "/api/favorites/prop-1", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("remove again: status %d", rec.Code)
	}
}

func TestInquiryEndpoints(t *testing.T) {
	ts := newTestServer(t)
	buyerToken := ts.registerAndLogin(t, "buyer@example.com", "buyer")
	adminToken := ts.registerAndLogin(t, "admin@example.com", "admin")

	ts.inquiries.properties["prop-1"] = inquiry.PropertyRef{ID: "prop-1", SellerID: "seller-1"}

	rec := ts.do(t, http.MethodPost, "/api/inquiries", buyerToken, map[string]string{
		"property_id": "prop-1",
		"message":     "Is this still available?",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create inquiry: status %d body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		SellerID string `json:"seller_id"`
	}
	env := decodeEnvelope(t, rec)
	json.Unmarshal(env.Data, &created)
	if created.Status != "pending_admin_review" {
		t.Fatalf("status = %q", created.Status)
	}
	if created.SellerID != "admin-1" {
		t.Fatalf("seller_id = %q, want the assigned admin", created.SellerID)
	}

	rec = ts.do(t, http.MethodPatch, "/api/inquiries/"+created.ID+"/status", buyerToken, map[string]string{"status": "closed"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("buyer transition: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPatch, "/api/inquiries/"+created.ID+"/status", adminToken, map[string]string{"status": "responded"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("illegal transition: status %d", rec.Code)
	}

	// Clients send the admin note as "note"; it is stored and rendered as
	// admin_note.
	rec = ts.do(t, http.MethodPatch, "/api/inquiries/"+created.ID+"/status", adminToken, map[string]string{
		"status": "admin_handling",
		"note":   "Screening the buyer first.",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin transition: status %d body %s", rec.Code, rec.Body.String())
	}
	var handling struct {
		Status    string  `json:"status"`
		AdminNote *string `json:"admin_note"`
	}
	env = decodeEnvelope(t, rec)
	json.Unmarshal(env.Data, &handling)
	if handling.AdminNote == nil || *handling.AdminNote != "Screening the buyer first." {
		t.Fatalf("admin_note = %v, want the submitted note", handling.AdminNote)
	}

	rec = ts.do(t, http.MethodPatch, "/api/inquiries/"+created.ID+"/note", adminToken, map[string]string{
		"note": "Buyer checks out.",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update note: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPatch, "/api/inquiries/"+created.ID+"/note", adminToken, map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty note: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPatch, "/api/inquiries/"+created.ID+"/respond", adminToken, map[string]string{
		"response_message": "A viewing is available on Saturday.",
		"note":             "Replied same day.",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("respond: status %d body %s", rec.Code, rec.Body.String())
	}
	var responded struct {
		Status          string  `json:"status"`
		ResponseMessage *string `json:"response_message"`
		AdminNote       *string `json:"admin_note"`
	}
	env = decodeEnvelope(t, rec)
	json.Unmarshal(env.Data, &responded)
	if responded.Status != "responded" || responded.ResponseMessage == nil {
		t.Fatalf("responded = %+v", responded)
	}
	if responded.AdminNote == nil || *responded.AdminNote != "Replied same day." {
		t.Fatalf("admin_note = %v, want the respond note", responded.AdminNote)
	}

	rec = ts.do(t, http.MethodGet, "/api/inquiries/my-inquiries", buyerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("my-inquiries: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/inquiries/admin-inquiries", buyerToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("buyer admin-inquiries: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/inquiries/seller-inquiries", buyerToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("buyer seller-inquiries: status %d", rec.Code)
	}
}

func TestNoAdminAvailableIs500(t *testing.T) {
	ts := newTestServer(t)
	buyerToken := ts.registerAndLogin(t, "buyer@example.com", "buyer")

	ts.inquiries.properties["prop-1"] = inquiry.PropertyRef{ID: "prop-1", SellerID: "seller-1"}
	ts.strategy.fail = true

	rec := ts.do(t, http.MethodPost, "/api/inquiries", buyerToken, map[string]string{
		"property_id": "prop-1",
		"message":     "Anyone there?",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("no admin: status %d body %s", rec.Code, rec.Body.String())
	}
}

// fakes

type fakeUserRepo struct {
	byEmail map[string]auth.User
	byID    map[string]auth.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]auth.User{}, byID: map[string]auth.User{}, nextID: 1}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, params auth.CreateUserParams) (auth.User, error) {
	key := strings.ToLower(params.Email)
	if _, exists := f.byEmail[key]; exists {
		return auth.User{}, auth.ErrDuplicateEmail
	}
	user := auth.User{
		ID:           fmt.Sprintf("user-%d", f.nextID),
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		FirstName:    params.Profile.FirstName,
		LastName:     params.Profile.LastName,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	f.nextID++
	f.byEmail[key] = user
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	user, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID string) (auth.User, error) {
	user, ok := f.byID[userID]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	user, ok := f.byID[userID]
	if !ok {
		return auth.ErrUserNotFound
	}
	user.LastLoginAt = &at
	f.byID[userID] = user
	f.byEmail[strings.ToLower(user.Email)] = user
	return nil
}

type fakePropertyRepo struct {
	byID      map[string]property.Property
	nextID    int
	createErr error
}

func (f *fakePropertyRepo) Create(ctx context.Context, params property.CreateParams) (property.Property, error) {
	if f.createErr != nil {
		return property.Property{}, f.createErr
	}
	f.nextID++
	prop := property.Property{
		ID:              fmt.Sprintf("prop-%d", f.nextID),
		Title:           params.Title,
		Description:     params.Description,
		PropertyType:    params.PropertyType,
		TransactionType: params.TransactionType,
		Price:           params.Price,
		Currency:        params.Currency,
		Status:          property.StatusPending,
		Address:         params.Address,
		Details:         params.Details,
		Features:        params.Features,
		Amenities:       params.Amenities,
		Images:          params.Images,
		SellerID:        params.SellerID,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	f.byID[prop.ID] = prop
	return prop, nil
}

func (f *fakePropertyRepo) GetByID(ctx context.Context, propertyID string) (property.Property, error) {
	prop, ok := f.byID[propertyID]
	if !ok {
		return property.Property{}, property.ErrNotFound
	}
	return prop, nil
}

func (f *fakePropertyRepo) List(ctx context.Context, filters property.Filters) ([]property.Property, error) {
	properties := []property.Property{}
	for _, prop := range f.byID {
		properties = append(properties, prop)
	}
	return properties, nil
}

func (f *fakePropertyRepo) UpdateStatus(ctx context.Context, propertyID string, status property.Status, approvedBy string, approvedAt time.Time) (property.Property, error) {
	prop, ok := f.byID[propertyID]
	if !ok {
		return property.Property{}, property.ErrNotFound
	}
	prop.Status = status
	prop.ApprovedBy = &approvedBy
	prop.ApprovedAt = &approvedAt
	f.byID[propertyID] = prop
	return prop, nil
}

type fakeFavoriteRepo struct {
	pairs  map[string]favorite.Record
	nextID int
}

func (f *fakeFavoriteRepo) key(userID, propertyID string) string {
	return userID + "|" + propertyID
}

func (f *fakeFavoriteRepo) Add(ctx context.Context, userID, propertyID string) (favorite.Record, error) {
	key := f.key(userID, propertyID)
	if _, exists := f.pairs[key]; exists {
		return favorite.Record{}, favorite.ErrDuplicate
	}
	f.nextID++
	rec := favorite.Record{
		Favorite: favorite.Favorite{
			ID:         fmt.Sprintf("fav-%d", f.nextID),
			UserID:     userID,
			PropertyID: propertyID,
			CreatedAt:  time.Now().UTC(),
		},
		Property: favorite.PropertySummary{ID: propertyID, Title: "Listing"},
	}
	f.pairs[key] = rec
	return rec, nil
}

func (f *fakeFavoriteRepo) Remove(ctx context.Context, userID, propertyID string) error {
	key := f.key(userID, propertyID)
	if _, exists := f.pairs[key]; !exists {
		return favorite.ErrNotFound
	}
	delete(f.pairs, key)
	return nil
}

func (f *fakeFavoriteRepo) ListByUser(ctx context.Context, userID string) ([]favorite.Record, error) {
	records := []favorite.Record{}
	for _, rec := range f.pairs {
		if rec.UserID == userID {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (f *fakeFavoriteRepo) Exists(ctx context.Context, userID, propertyID string) (bool, error) {
	_, exists := f.pairs[f.key(userID, propertyID)]
	return exists, nil
}

type fixedStrategy struct {
	adminID string
	fail    bool
}

func (s *fixedStrategy) Pick(ctx context.Context, q assign.Querier) (string, error) {
	if s.fail {
		return "", assign.ErrNoAdmin
	}
	return s.adminID, nil
}

type fakeInquiryRepo struct {
	properties map[string]inquiry.PropertyRef
	inquiries  map[string]inquiry.Inquiry
	events     map[string][]inquiry.Event
	nextID     int
}

func newFakeInquiryRepo() *fakeInquiryRepo {
	return &fakeInquiryRepo{
		properties: map[string]inquiry.PropertyRef{},
		inquiries:  map[string]inquiry.Inquiry{},
		events:     map[string][]inquiry.Event{},
	}
}

func (f *fakeInquiryRepo) LockProperty(ctx context.Context, tx pgx.Tx, propertyID string) (inquiry.PropertyRef, error) {
	ref, ok := f.properties[propertyID]
	if !ok {
		return inquiry.PropertyRef{}, inquiry.ErrPropertyNotFound
	}
	return ref, nil
}

func (f *fakeInquiryRepo) Insert(ctx context.Context, tx pgx.Tx, params inquiry.InsertParams) (inquiry.Inquiry, error) {
	f.nextID++
	inq := inquiry.Inquiry{
		ID:                fmt.Sprintf("inq-%d", f.nextID),
		PropertyID:        params.PropertyID,
		BuyerID:           params.BuyerID,
		SellerID:          params.SellerID,
		OriginalSellerID:  params.OriginalSellerID,
		Message:           params.Message,
		InquiryType:       params.InquiryType,
		ContactPreference: params.ContactPreference,
		Status:            params.Status,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}
	f.inquiries[inq.ID] = inq
	return inq, nil
}

func (f *fakeInquiryRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, inquiryID string) (inquiry.Inquiry, error) {
	inq, ok := f.inquiries[inquiryID]
	if !ok {
		return inquiry.Inquiry{}, inquiry.ErrNotFound
	}
	return inq, nil
}

func (f *fakeInquiryRepo) Update(ctx context.Context, tx pgx.Tx, params inquiry.UpdateParams) (inquiry.Inquiry, error) {
	inq, ok := f.inquiries[params.InquiryID]
	if !ok {
		return inquiry.Inquiry{}, inquiry.ErrNotFound
	}
	if inq.Status != params.ExpectedStatus {
		return inquiry.Inquiry{}, inquiry.ErrStaleStatus
	}
	inq.Status = params.NextStatus
	if params.SellerID != nil {
		inq.SellerID = *params.SellerID
	}
	if params.Note != nil {
		inq.AdminNote = params.Note
	}
	if params.ResponseMessage != nil {
		inq.ResponseMessage = params.ResponseMessage
	}
	if params.ResponseDate != nil {
		inq.ResponseDate = params.ResponseDate
	}
	inq.UpdatedAt = params.UpdatedAt
	f.inquiries[inq.ID] = inq
	return inq, nil
}

func (f *fakeInquiryRepo) AppendEvent(ctx context.Context, tx pgx.Tx, inquiryID, eventType string, actorID *string, payload map[string]any) error {
	f.events[inquiryID] = append(f.events[inquiryID], inquiry.Event{
		ID:        int64(len(f.events[inquiryID]) + 1),
		InquiryID: inquiryID,
		Type:      eventType,
		ActorID:   actorID,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (f *fakeInquiryRepo) GetByID(ctx context.Context, inquiryID string) (inquiry.Record, error) {
	inq, ok := f.inquiries[inquiryID]
	if !ok {
		return inquiry.Record{}, inquiry.ErrNotFound
	}
	return inquiry.Record{Inquiry: inq}, nil
}

func (f *fakeInquiryRepo) ListByBuyer(ctx context.Context, buyerID string) ([]inquiry.Record, error) {
	return f.filter(func(inq inquiry.Inquiry) bool { return inq.BuyerID == buyerID }), nil
}

func (f *fakeInquiryRepo) ListByAssignee(ctx context.Context, userID string) ([]inquiry.Record, error) {
	return f.filter(func(inq inquiry.Inquiry) bool { return inq.SellerID == userID }), nil
}

func (f *fakeInquiryRepo) ListByOriginalSeller(ctx context.Context, sellerID string) ([]inquiry.Record, error) {
	return f.filter(func(inq inquiry.Inquiry) bool { return inq.OriginalSellerID == sellerID }), nil
}

func (f *fakeInquiryRepo) ListEvents(ctx context.Context, inquiryID string) ([]inquiry.Event, error) {
	return f.events[inquiryID], nil
}

func (f *fakeInquiryRepo) filter(keep func(inquiry.Inquiry) bool) []inquiry.Record {
	records := []inquiry.Record{}
	for _, inq := range f.inquiries {
		if keep(inq) {
			records = append(records, inquiry.Record{Inquiry: inq})
		}
	}
	return records
}

type fakePool struct{}

func (f *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	return &fakeTx{}, nil
}

type fakeTx struct{}

func (f *fakeTx) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("fakeTx does not support nested transactions")
}

func (f *fakeTx) Commit(context.Context) error { return nil }

func (f *fakeTx) Rollback(context.Context) error { return nil }

func (f *fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}

func (f *fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}

func (f *fakeTx) LargeObjects() pgx.LargeObjects {
	panic("not implemented")
}

func (f *fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}

func (f *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}

func (f *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not implemented")
}

func (f *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("not implemented")
}

func (f *fakeTx) Conn() *pgx.Conn { return nil }
