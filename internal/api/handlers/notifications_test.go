package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/ewhitmore/lawdesk/internal/testutil"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListNotifications(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	other, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	testutil.NewNotificationBuilder(user.ID).WithTitle("First").Build(t, ts.DB.DB)
	testutil.NewNotificationBuilder(user.ID).WithTitle("Second").Build(t, ts.DB.DB)
	testutil.NewNotificationBuilder(other.ID).WithTitle("Someone else's").Build(t, ts.DB.DB)

	resp := doRequest(t, http.MethodGet, ts.APIURL("/notifications"), token, nil)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var body struct {
		Notifications []domain.Notification `json:"notifications"`
	}
	testutil.AssertJSONResponse(t, resp, &body)

	require.Len(t, body.Notifications, 2)
	for _, n := range body.Notifications {
		assert.Equal(t, user.ID, n.UserID)
	}
}

func TestUnreadCount(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	testutil.NewNotificationBuilder(user.ID).Build(t, ts.DB.DB)
	testutil.NewNotificationBuilder(user.ID).Build(t, ts.DB.DB)

	read := testutil.NewNotificationBuilder(user.ID).Build(t, ts.DB.DB)
	require.NoError(t, ts.DB.DB.Model(&domain.Notification{}).
		Where("id = ?", read.ID).
		Update("read_at", time.Now()).Error)

	resp := doRequest(t, http.MethodGet, ts.APIURL("/notifications/unread-count"), token, nil)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var body map[string]int64
	testutil.AssertJSONResponse(t, resp, &body)
	assert.Equal(t, int64(2), body["count"])
}

func TestMarkNotificationRead(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	n := testutil.NewNotificationBuilder(user.ID).Build(t, ts.DB.DB)

	resp := doRequest(t, http.MethodPost, ts.APIURL("/notifications/"+n.ID.String()+"/read"), token, nil)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var stored domain.Notification
	require.NoError(t, ts.DB.DB.First(&stored, "id = ?", n.ID).Error)
	assert.NotNil(t, stored.ReadAt)
}

func TestMarkNotificationRead_NotOwned(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	other, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	n := testutil.NewNotificationBuilder(other.ID).Build(t, ts.DB.DB)

	resp := doRequest(t, http.MethodPost, ts.APIURL("/notifications/"+n.ID.String()+"/read"), token, nil)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Notification not found")

	// The foreign notification is untouched.
	var stored domain.Notification
	require.NoError(t, ts.DB.DB.First(&stored, "id = ?", n.ID).Error)
	assert.Nil(t, stored.ReadAt)
}

func TestMarkNotificationRead_Unknown(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := doRequest(t, http.MethodPost, ts.APIURL("/notifications/"+uuid.New().String()+"/read"), token, nil)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Notification not found")
}

func TestMarkAllNotificationsRead(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	testutil.NewNotificationBuilder(user.ID).Build(t, ts.DB.DB)
	testutil.NewNotificationBuilder(user.ID).Build(t, ts.DB.DB)

	resp := doRequest(t, http.MethodPost, ts.APIURL("/notifications/read-all"), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var unread int64
	require.NoError(t, ts.DB.DB.Model(&domain.Notification{}).
		Where("user_id = ? AND read_at IS NULL", user.ID).
		Count(&unread).Error)
	assert.Equal(t, int64(0), unread)
}

func TestNotificationStream(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	conn, _, err := websocket.DefaultDialer.Dial(ts.WebSocketURL(token), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the hub a beat to register the client before publishing.
	time.Sleep(100 * time.Millisecond)

	err = ts.Services.Notification.Create(context.Background(), &domain.Notification{
		UserID:  user.ID,
		Type:    domain.NotificationCaseUpdated,
		Title:   "Case Updated",
		Message: "A document was added",
	})
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var event struct {
		Type string `json:"type"`
		Data struct {
			Title  string    `json:"title"`
			UserID uuid.UUID `json:"userId"`
		} `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&event))

	assert.Equal(t, "notification", event.Type)
	assert.Equal(t, "Case Updated", event.Data.Title)
}

func TestNotificationStream_RejectsBadToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(ts.WebSocketURL("not-a-jwt"), nil)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}
