package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/campus-desk/complaint-service/internal/api/http/handlers"
	"github.com/campus-desk/complaint-service/internal/auth"
	"github.com/campus-desk/complaint-service/internal/config"
	"github.com/campus-desk/complaint-service/internal/domain"
	"github.com/campus-desk/complaint-service/internal/observability"
	"github.com/campus-desk/complaint-service/internal/repository"
	"github.com/campus-desk/complaint-service/internal/service"
)

type memUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.seq++
	user.ID = fmt.Sprintf("u-%d", m.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	stored, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user := *stored
	return &user, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, stored := range m.users {
		if stored.Email == email {
			user := *stored
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) ListExcluding(_ context.Context, excludeID string, opts repository.UserListOptions) ([]repository.UserWithComplaintCount, error) {
	var result []repository.UserWithComplaintCount
	for _, stored := range m.users {
		if stored.ID == excludeID {
			continue
		}
		result = append(result, repository.UserWithComplaintCount{User: *stored})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	offset := opts.Offset
	if offset > len(result) {
		offset = len(result)
	}
	result = result[offset:]
	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (m *memUserRepo) CountExcluding(_ context.Context, excludeID string) (int, error) {
	count := 0
	for _, stored := range m.users {
		if stored.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (m *memUserRepo) DeleteByEmailPrefix(_ context.Context, prefix string) error {
	for id, stored := range m.users {
		if strings.HasPrefix(stored.Email, prefix) {
			delete(m.users, id)
		}
	}
	return nil
}

type memComplaintRepo struct {
	seq        int
	complaints map[string]*domain.Complaint
	comments   map[string][]domain.Comment
}

func newMemComplaintRepo() *memComplaintRepo {
	return &memComplaintRepo{
		complaints: map[string]*domain.Complaint{},
		comments:   map[string][]domain.Comment{},
	}
}

func (m *memComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	m.seq++
	complaint.ID = fmt.Sprintf("c-%d", m.seq)
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now()
	}
	complaint.UpdatedAt = complaint.CreatedAt
	stored := *complaint
	m.complaints[complaint.ID] = &stored
	return nil
}

func (m *memComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	if _, ok := m.complaints[complaint.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *complaint
	m.complaints[complaint.ID] = &stored
	return nil
}

func (m *memComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	stored, ok := m.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	complaint := *stored
	complaint.Comments = append([]domain.Comment{}, m.comments[id]...)
	return &complaint, nil
}

func (m *memComplaintRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.complaints[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.complaints, id)
	delete(m.comments, id)
	return nil
}

func (m *memComplaintRepo) ListWithFilter(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	matched := m.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	offset := filter.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	for i := range matched {
		matched[i].Comments = append([]domain.Comment{}, m.comments[matched[i].ID]...)
	}
	return matched, nil
}

func (m *memComplaintRepo) CountWithFilter(_ context.Context, filter repository.ComplaintFilter) (int, error) {
	return len(m.match(filter)), nil
}

func (m *memComplaintRepo) match(filter repository.ComplaintFilter) []domain.Complaint {
	var matched []domain.Complaint
	for _, stored := range m.complaints {
		if filter.SubmittedBy != nil && stored.SubmittedBy != *filter.SubmittedBy {
			continue
		}
		if filter.Status != nil && stored.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && stored.Category != *filter.Category {
			continue
		}
		if filter.Priority != nil && stored.Priority != *filter.Priority {
			continue
		}
		matched = append(matched, *stored)
	}
	return matched
}

func (m *memComplaintRepo) AddComment(_ context.Context, comment *domain.Comment) error {
	m.seq++
	comment.ID = fmt.Sprintf("cm-%d", m.seq)
	comment.CreatedAt = time.Now()
	m.comments[comment.ComplaintID] = append(m.comments[comment.ComplaintID], *comment)
	return nil
}

func (m *memComplaintRepo) ListComments(_ context.Context, complaintID string) ([]domain.Comment, error) {
	return append([]domain.Comment{}, m.comments[complaintID]...), nil
}

func (m *memComplaintRepo) BulkInsert(ctx context.Context, complaints []domain.Complaint) error {
	for i := range complaints {
		if err := m.Create(ctx, &complaints[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *memComplaintRepo) DeleteByTitlePrefix(_ context.Context, prefix string) error {
	for id, stored := range m.complaints {
		if strings.HasPrefix(stored.Title, prefix) {
			delete(m.complaints, id)
		}
	}
	return nil
}

type stubAnalyticsRepo struct{}

func (stubAnalyticsRepo) TimelineCounts(context.Context, time.Time) ([]repository.TimelineBucket, error) {
	return nil, nil
}

func (stubAnalyticsRepo) CategoryCounts(context.Context, time.Time) ([]repository.LabelCount, error) {
	return nil, nil
}

func (stubAnalyticsRepo) StatusCounts(context.Context, time.Time) ([]repository.LabelCount, error) {
	return nil, nil
}

func (stubAnalyticsRepo) PriorityCounts(context.Context, time.Time) ([]repository.LabelCount, error) {
	return nil, nil
}

func (stubAnalyticsRepo) ResolutionStats(context.Context, time.Time) (repository.ResolutionStats, error) {
	return repository.ResolutionStats{}, nil
}

func (stubAnalyticsRepo) TotalInWindow(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (stubAnalyticsRepo) DelayedByCategory(context.Context, time.Time, time.Time) ([]repository.LabelCount, error) {
	return nil, nil
}

type testEnv struct {
	t     *testing.T
	app   *fiber.App
	users *memUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "integration-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
		},
	}
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	users := newMemUserRepo()
	complaints := newMemComplaintRepo()

	authSvc := service.NewAuthService(cfg, users)
	complaintSvc := service.NewComplaintService(complaints, nil)
	userSvc := service.NewUserAdminService(cfg, users)
	analyticsSvc := service.NewAnalyticsService(stubAnalyticsRepo{})
	seedSvc := service.NewSeedService(cfg, users, complaints, logger)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", nil, nil),
		Auth:           handlers.NewAuthHandler(authSvc),
		Complaints:     handlers.NewComplaintsHandler(complaintSvc),
		Users:          handlers.NewUsersHandler(userSvc, authSvc),
		Analytics:      handlers.NewAnalyticsHandler(analyticsSvc),
		Seed:           handlers.NewSeedHandler(seedSvc),
		AuthMiddleware: auth.NewAuthMiddleware(authSvc.TokenManager(), users),
	})

	return &testEnv{t: t, app: app, users: users}
}

func (e *testEnv) request(method, path, token string, body any) (int, map[string]any) {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		e.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		e.t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			// list endpoints return arrays, wrap them for uniform access
			var list []any
			if err := json.Unmarshal(raw, &list); err != nil {
				e.t.Fatalf("decode body %q: %v", raw, err)
			}
			decoded = map[string]any{"items": list}
		}
	}
	return resp.StatusCode, decoded
}

func (e *testEnv) registerAndLogin(name, email, password string) string {
	e.t.Helper()
	status, _ := e.request(http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":       name,
		"email":      email,
		"password":   password,
		"department": "Computer Science",
	})
	if status != http.StatusCreated {
		e.t.Fatalf("register %s: status %d", email, status)
	}
	return e.login(email, password)
}

func (e *testEnv) login(email, password string) string {
	e.t.Helper()
	status, body := e.request(http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	if status != http.StatusOK {
		e.t.Fatalf("login %s: status %d", email, status)
	}
	token, _ := body["token"].(string)
	if token == "" {
		e.t.Fatalf("login %s: no token in response %v", email, body)
	}
	return token
}

func (e *testEnv) seedAdmin(email, password string) string {
	e.t.Helper()
	hash, err := auth.HashPassword(password, 4)
	if err != nil {
		e.t.Fatalf("hash password: %v", err)
	}
	admin := &domain.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: hash,
		Department:   "Administration",
		Role:         domain.RoleAdmin,
	}
	if err := e.users.Create(context.Background(), admin); err != nil {
		e.t.Fatalf("seed admin: %v", err)
	}
	return e.login(email, password)
}

func TestHealthLive(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.request(http.MethodGet, "/health/live", "", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["status"] != "alive" {
		t.Fatalf("body = %v", body)
	}
}

func TestComplaintLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := env.registerAndLogin("Ada", "ada@example.com", "pw123456")
	otherToken := env.registerAndLogin("Grace", "grace@example.com", "pw123456")
	adminToken := env.seedAdmin("admin@example.com", "adminpw123")

	status, created := env.request(http.MethodPost, "/api/complaints", ownerToken, fiber.Map{
		"title":       "Leaking roof",
		"description": "Water drips into room 204 whenever it rains",
		"category":    "Infrastructure",
		"priority":    "High",
	})
	if status != http.StatusCreated {
		t.Fatalf("create: status %d body %v", status, created)
	}
	if created["status"] != "Pending" {
		t.Fatalf("new complaint status = %v", created["status"])
	}
	if created["resolvedAt"] != nil {
		t.Fatalf("new complaint has resolvedAt %v", created["resolvedAt"])
	}
	complaintID, _ := created["id"].(string)

	status, mine := env.request(http.MethodGet, "/api/complaints", ownerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("owner list: status %d", status)
	}
	if items, _ := mine["items"].([]any); len(items) != 1 {
		t.Fatalf("owner list = %v", mine)
	}

	status, others := env.request(http.MethodGet, "/api/complaints", otherToken, nil)
	if status != http.StatusOK {
		t.Fatalf("other list: status %d", status)
	}
	if items, _ := others["items"].([]any); len(items) != 0 {
		t.Fatalf("other student sees foreign complaints: %v", others)
	}

	status, _ = env.request(http.MethodPatch, "/api/complaints/"+complaintID+"/status", ownerToken, fiber.Map{"status": "Resolved"})
	if status != http.StatusForbidden {
		t.Fatalf("student status change: status %d", status)
	}

	status, updated := env.request(http.MethodPatch, "/api/complaints/"+complaintID+"/status", adminToken, fiber.Map{"status": "Resolved"})
	if status != http.StatusOK {
		t.Fatalf("admin status change: status %d body %v", status, updated)
	}
	if updated["status"] != "Resolved" {
		t.Fatalf("status after resolve = %v", updated["status"])
	}
	if updated["resolvedAt"] == nil {
		t.Fatal("resolvedAt not stamped on resolution")
	}

	status, page := env.request(http.MethodGet, "/api/complaints/admin", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("admin list: status %d", status)
	}
	if total, _ := page["totalComplaints"].(float64); total != 1 {
		t.Fatalf("totalComplaints = %v", page["totalComplaints"])
	}

	status, commented := env.request(http.MethodPost, "/api/complaints/"+complaintID+"/comments", adminToken, fiber.Map{"text": "Plumber scheduled for Monday"})
	if status != http.StatusCreated {
		t.Fatalf("add comment: status %d body %v", status, commented)
	}
	if comments, _ := commented["comments"].([]any); len(comments) != 1 {
		t.Fatalf("comments = %v", commented["comments"])
	}

	status, _ = env.request(http.MethodDelete, "/api/complaints/"+complaintID, otherToken, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("non-owner delete: status %d", status)
	}
	status, _ = env.request(http.MethodDelete, "/api/complaints/"+complaintID, adminToken, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("admin delete of foreign complaint: status %d", status)
	}
	status, deleted := env.request(http.MethodDelete, "/api/complaints/"+complaintID, ownerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("owner delete: status %d", status)
	}
	if deleted["message"] != "Complaint deleted successfully" {
		t.Fatalf("delete message = %v", deleted["message"])
	}
	status, _ = env.request(http.MethodDelete, "/api/complaints/"+complaintID, ownerToken, nil)
	if status != http.StatusNotFound {
		t.Fatalf("repeat delete: status %d", status)
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.request(http.MethodGet, "/api/complaints", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("no token: status %d body %v", status, body)
	}
	status, _ = env.request(http.MethodGet, "/api/complaints", "not-a-jwt", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("garbage token: status %d", status)
	}
}

func TestAdminRoutesForbiddenForStudents(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("Ada", "ada@example.com", "pw123456")

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/complaints/admin"},
		{http.MethodGet, "/api/users"},
		{http.MethodPost, "/api/users/create"},
		{http.MethodPost, "/api/seed"},
	} {
		status, _ := env.request(route.method, route.path, token, fiber.Map{})
		if status != http.StatusForbidden {
			t.Fatalf("%s %s as student: status %d", route.method, route.path, status)
		}
	}
}

func TestValidateReturnsPrincipal(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("Ada", "ada@example.com", "pw123456")

	status, body := env.request(http.MethodGet, "/api/auth/validate", token, nil)
	if status != http.StatusOK {
		t.Fatalf("validate: status %d", status)
	}
	user, _ := body["user"].(map[string]any)
	if user["email"] != "ada@example.com" {
		t.Fatalf("validate user = %v", body)
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatal("password hash leaked in validate response")
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("Ada", "ada@example.com", "pw123456")

	status, body := env.request(http.MethodPost, "/api/users/change-password", token, fiber.Map{
		"currentPassword": "wrong",
		"newPassword":     "newpw1234",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("wrong current password: status %d body %v", status, body)
	}

	status, body = env.request(http.MethodPost, "/api/users/change-password", token, fiber.Map{
		"currentPassword": "pw123456",
		"newPassword":     "newpw1234",
	})
	if status != http.StatusOK {
		t.Fatalf("change password: status %d body %v", status, body)
	}
	if body["message"] != "Password updated successfully" {
		t.Fatalf("message = %v", body["message"])
	}
	env.login("ada@example.com", "newpw1234")
}

func TestUserListExcludesCaller(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin("Ada", "ada@example.com", "pw123456")
	adminToken := env.seedAdmin("admin@example.com", "adminpw123")

	status, body := env.request(http.MethodGet, "/api/users", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("user list: status %d", status)
	}
	if total, _ := body["totalUsers"].(float64); total != 1 {
		t.Fatalf("totalUsers = %v", body["totalUsers"])
	}
	users, _ := body["users"].([]any)
	for _, entry := range users {
		u, _ := entry.(map[string]any)
		if u["email"] == "admin@example.com" {
			t.Fatal("listing includes the calling admin")
		}
	}
}

func TestListIncludesCommentThreads(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("Ada", "ada@example.com", "pw123456")

	status, created := env.request(http.MethodPost, "/api/complaints", token, fiber.Map{
		"title":       "Leaking roof",
		"description": "Water drips into room 204 whenever it rains",
		"category":    "Infrastructure",
		"priority":    "High",
	})
	if status != http.StatusCreated {
		t.Fatalf("create: status %d", status)
	}
	complaintID, _ := created["id"].(string)

	status, _ = env.request(http.MethodPost, "/api/complaints/"+complaintID+"/comments", token, fiber.Map{"text": "Any update?"})
	if status != http.StatusCreated {
		t.Fatalf("add comment: status %d", status)
	}

	status, listed := env.request(http.MethodGet, "/api/complaints", token, nil)
	if status != http.StatusOK {
		t.Fatalf("list: status %d", status)
	}
	items, _ := listed["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("list = %v", listed)
	}
	entry, _ := items[0].(map[string]any)
	comments, _ := entry["comments"].([]any)
	if len(comments) != 1 {
		t.Fatalf("listed complaint carries %d comments, want 1", len(comments))
	}
	comment, _ := comments[0].(map[string]any)
	if comment["text"] != "Any update?" {
		t.Fatalf("comment text = %v", comment["text"])
	}
}

func TestAnalyticsRejectsBadDays(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("Ada", "ada@example.com", "pw123456")

	for _, days := range []string{"0", "-5", "abc"} {
		status, body := env.request(http.MethodGet, "/api/analytics?days="+days, token, nil)
		if status != http.StatusBadRequest {
			t.Fatalf("days=%s: status %d body %v", days, status, body)
		}
	}

	status, _ := env.request(http.MethodGet, "/api/analytics", token, nil)
	if status != http.StatusOK {
		t.Fatalf("default window: status %d", status)
	}
}

func TestAnalyticsEmptyWindow(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("Ada", "ada@example.com", "pw123456")

	status, body := env.request(http.MethodGet, "/api/analytics?days=7", token, nil)
	if status != http.StatusOK {
		t.Fatalf("analytics: status %d body %v", status, body)
	}
	if body["resoluationRate"] != "NaN" {
		t.Fatalf("resoluationRate = %v", body["resoluationRate"])
	}
	if body["averageResolutionDuration"] != "0.00" {
		t.Fatalf("averageResolutionDuration = %v", body["averageResolutionDuration"])
	}
}
