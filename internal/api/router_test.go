package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpboard/config"
	"helpboard/internal/payment"
	"helpboard/internal/testutil"
	"helpboard/pkg/logger"
)

const adminCode = "secret-code"

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

type testServer struct {
	router *gin.Engine
	db     *sqlx.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	rdb, _ := testutil.NewRedis(t)
	cfg := &config.Config{
		LogLevel: "debug",
		Admin: config.AdminConfig{
			Code:       adminCode,
			SessionTTL: time.Hour,
			LoginRate:  1,
			LoginBurst: 10,
		},
		Payment:  config.PaymentConfig{Provider: payment.ProviderManual, CardNumber: "2204000011112222"},
		Listing:  config.ListingConfig{Visibility: "paid"},
		Donation: config.DonationConfig{AutoConfirm: true},
	}

	services, err := NewServices(cfg, logger.NewNop(), db, rdb, payment.NewManual(cfg.Payment.CardNumber), nopNotifier{})
	require.NoError(t, err)
	return &testServer{router: SetupRouter(cfg, logger.NewNop(), services), db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *testServer) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func (s *testServer) createAnnouncement(t *testing.T, typ string) int64 {
	t.Helper()
	w := s.do(t, http.MethodPost, "/payments", map[string]interface{}{
		"action": "create_payment", "title": "Нужна помощь", "description": "Описание",
		"author_name": "Ольга", "author_contact": "@olga", "type": typ,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		AnnouncementID int64 `json:"announcement_id"`
	}
	decode(t, w, &res)
	return res.AnnouncementID
}

func TestPreflightAndHeaders(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/announcements", "/payments", "/responses", "/donations", "/celebrities", "/visits", "/admin"} {
		w := s.do(t, http.MethodOptions, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Empty(t, w.Body.String(), path)
	}

	w := s.do(t, http.MethodGet, "/announcements", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMethodAndActionErrors(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/payments", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"error":"Метод не поддерживается"}`, w.Body.String())

	w = s.do(t, http.MethodPut, "/announcements", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = s.do(t, http.MethodPost, "/announcements", map[string]string{"action": "explode"})
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = s.do(t, http.MethodPost, "/announcements", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/donations", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/responses", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePaymentVIP(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/payments", map[string]interface{}{
		"action": "create_payment", "title": "VIP", "description": "d", "type": "vip", "amount": 1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Success        bool    `json:"success"`
		AnnouncementID int64   `json:"announcement_id"`
		Amount         int64   `json:"amount"`
		PaymentStatus  string  `json:"payment_status"`
		ExpiresAt      *string `json:"expires_at"`
	}
	decode(t, w, &res)
	assert.True(t, res.Success)
	assert.Equal(t, int64(100), res.Amount)
	assert.Equal(t, "paid", res.PaymentStatus)
	require.NotNil(t, res.ExpiresAt)
	expires, err := time.Parse(time.RFC3339, *res.ExpiresAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expires, time.Minute)

	w = s.do(t, http.MethodPost, "/payments", map[string]interface{}{"action": "check_payment", "announcement_id": res.AnnouncementID})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/payments", map[string]interface{}{"action": "check_payment", "announcement_id": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/payments", map[string]interface{}{"action": "create_payment", "title": "x", "type": "gold"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnnouncementListAndViews(t *testing.T) {
	s := newTestServer(t)
	id := s.createAnnouncement(t, "boosted")

	w := s.do(t, http.MethodPost, "/announcements", map[string]interface{}{"action": "record_view", "id": id})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/announcements", map[string]interface{}{"action": "record_view", "id": 424242})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/announcements?author="+url.QueryEscape("Ольга"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Ольга", list[0]["author"])
	assert.Equal(t, float64(1), list[0]["views"])
	assert.Equal(t, "Оплачено", list[0]["payment_label"])
	assert.NotContains(t, list[0], "author_contact")

	w = s.do(t, http.MethodGet, fmt.Sprintf("/announcements?id=%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "@olga")

	w = s.do(t, http.MethodPost, "/announcements", map[string]interface{}{"action": "close", "id": id})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/announcements", nil)
	decode(t, w, &list)
	assert.Empty(t, list)

	// 已关闭的公告不能按编号公开查询
	w = s.do(t, http.MethodGet, fmt.Sprintf("/announcements?id=%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/announcements?id=424242", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminGateHasNoEffect(t *testing.T) {
	s := newTestServer(t)
	s.createAnnouncement(t, "regular")

	w := s.do(t, http.MethodPost, "/celebrities", map[string]interface{}{
		"action": "create_request", "requester_name": "Иван", "celebrity_name": "Звезда", "request_text": "Привет",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		RequestID int64 `json:"request_id"`
		Amount    int64 `json:"amount"`
	}
	decode(t, w, &created)
	assert.Equal(t, int64(60), created.Amount)

	forbidden := []struct {
		path string
		body map[string]interface{}
	}{
		{"/announcements", map[string]interface{}{"action": "delete_all", "admin_code": "wrong"}},
		{"/announcements", map[string]interface{}{"action": "delete_all"}},
		{"/announcements", map[string]interface{}{"action": "get_stats", "admin_code": "wrong"}},
		{"/celebrities", map[string]interface{}{"action": "update_status", "admin_code": "wrong", "request_id": created.RequestID, "status": "rejected"}},
		{"/payments", map[string]interface{}{"action": "confirm_payment", "admin_code": "wrong", "announcement_id": 1}},
	}
	for _, tc := range forbidden {
		w := s.do(t, http.MethodPost, tc.path, tc.body)
		assert.Equal(t, http.StatusForbidden, w.Code, tc.body["action"])
		assert.JSONEq(t, `{"error":"Неверный код"}`, w.Body.String())
	}

	assert.Equal(t, 1, s.count(t, "announcements"))
	var status string
	require.NoError(t, s.db.Get(&status, "SELECT status FROM celebrity_requests WHERE id = ?", created.RequestID))
	assert.Equal(t, "pending", status)

	w = s.do(t, http.MethodPost, "/announcements", map[string]interface{}{"action": "get_stats", "admin_code": adminCode})
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]interface{}
	decode(t, w, &stats)
	assert.Equal(t, float64(1), stats["total_announcements"])

	w = s.do(t, http.MethodPost, "/announcements", map[string]interface{}{"action": "delete_all", "admin_code": adminCode})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"deleted":1}`, w.Body.String())
	assert.Equal(t, 0, s.count(t, "announcements"))
}

func TestAdminSessionAndList(t *testing.T) {
	s := newTestServer(t)
	s.createAnnouncement(t, "regular")

	w := s.do(t, http.MethodGet, "/admin/announcements", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/admin", map[string]string{"action": "login", "admin_code": "wrong"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/admin", map[string]string{"action": "login", "admin_code": adminCode})
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		Token string `json:"token"`
	}
	decode(t, w, &session)
	require.Len(t, session.Token, 32)

	req := httptest.NewRequest(http.MethodGet, "/admin/announcements", nil)
	req.Header.Set("X-Admin-Token", session.Token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "@olga", list[0]["author_contact"])

	w = s.do(t, http.MethodPost, "/admin", map[string]string{"action": "logout", "token": session.Token})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/admin/announcements?admin_code="+session.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminCodeGuessesRateLimited(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/admin", map[string]string{"action": "login", "admin_code": adminCode})
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		Token string `json:"token"`
	}
	decode(t, w, &session)

	// 无效管理码退回公开列表，但每次都计入同一个IP的额度
	for i := 0; i < 9; i++ {
		w = s.do(t, http.MethodGet, "/donations?admin_code=guess", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = s.do(t, http.MethodGet, "/donations?admin_code="+adminCode, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = s.do(t, http.MethodPost, "/payments", map[string]interface{}{"action": "confirm_payment", "admin_code": adminCode, "announcement_id": 1})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// 伪造的X-Forwarded-For不会换来新的额度
	req := httptest.NewRequest(http.MethodGet, "/admin/announcements?admin_code="+adminCode, nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.7")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// 已签发的会话令牌不受影响
	req = httptest.NewRequest(http.MethodGet, "/admin/announcements", nil)
	req.Header.Set("X-Admin-Token", session.Token)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResponsesConversation(t *testing.T) {
	s := newTestServer(t)
	id := s.createAnnouncement(t, "regular")

	w := s.do(t, http.MethodPost, "/responses", map[string]interface{}{
		"action": "create_response", "announcement_id": id, "responder_contact": "+7900", "message": "Готов помочь",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		Success    bool  `json:"success"`
		ResponseID int64 `json:"response_id"`
	}
	decode(t, w, &created)
	require.True(t, created.Success)

	for _, text := range []string{"первое", "второе <b>"} {
		w = s.do(t, http.MethodPost, "/responses", map[string]interface{}{
			"action": "send_message", "response_id": created.ResponseID, "sender_name": "Автор", "message": text,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = s.do(t, http.MethodGet, "/responses?response_id="+itoa(created.ResponseID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var messages []struct {
		Sender  string `json:"sender"`
		Message string `json:"message"`
	}
	decode(t, w, &messages)
	require.Len(t, messages, 2)
	assert.Equal(t, "первое", messages[0].Message)
	assert.Equal(t, "второе <b>", messages[1].Message)
	assert.Equal(t, "Автор", messages[0].Sender)

	w = s.do(t, http.MethodGet, "/responses?announcement_id="+itoa(id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var responses []map[string]interface{}
	decode(t, w, &responses)
	require.Len(t, responses, 1)
	assert.Equal(t, "Аноним", responses[0]["responder_name"])
	assert.Equal(t, float64(2), responses[0]["message_count"])

	w = s.do(t, http.MethodPost, "/responses", map[string]interface{}{"action": "send_message", "message": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDonationsPublicAndAdmin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/donations", map[string]interface{}{
		"action": "create_donation", "donor_contact": "secret@mail", "amount": "500", "message": "Держитесь",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created map[string]interface{}
	decode(t, w, &created)
	assert.Equal(t, true, created["success"])
	assert.Contains(t, created["payment_url"], "amount=500")

	w = s.do(t, http.MethodPost, "/donations", map[string]interface{}{"action": "create_donation", "amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/donations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret@mail")
	var public []map[string]interface{}
	decode(t, w, &public)
	require.Len(t, public, 1)
	assert.Equal(t, "Аноним", public[0]["donor_name"])
	assert.NotContains(t, public[0], "admin_notes")

	w = s.do(t, http.MethodGet, "/donations?admin_code=wrong", nil)
	assert.NotContains(t, w.Body.String(), "secret@mail")

	w = s.do(t, http.MethodGet, "/donations?admin_code="+adminCode, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "secret@mail")

	w = s.do(t, http.MethodPost, "/donations", map[string]interface{}{
		"action": "assign_donation", "admin_code": adminCode, "donation_id": 999, "assigned_to": "Фонд",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrackVisit(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/visits", map[string]string{"action": "track_visit"})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/announcements", map[string]string{"action": "track_visit"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, s.count(t, "site_visits"))

	w = s.do(t, http.MethodGet, "/health", nil)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func itoa(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
