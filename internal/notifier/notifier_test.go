package notifier

import (
	"context"
	"testing"

	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/hiyona/orgflow-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNotifierTest(t *testing.T) (*gorm.DB, *QueueNotifier) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Notification{}))

	n := NewQueueNotifier(repository.NewNotificationRepository(db), 8)
	n.Start()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return db, n
}

func TestNotifyTaskAssigned_RecordsDatabaseChannel(t *testing.T) {
	db, n := setupNotifierTest(t)

	assignee := models.User{ID: 4, Email: "dev@acme.test", EmailNotifications: false}
	task := models.Task{ID: 9, Name: "Fix the build"}

	err := n.NotifyTaskAssigned(context.Background(), TaskAssignedEvent{
		Task:         task,
		Assignee:     assignee,
		AssignerName: "Boss",
	})
	require.NoError(t, err)

	// Close drains the queue so the write is visible
	n.Close()

	var stored models.Notification
	require.NoError(t, db.First(&stored).Error)
	require.Equal(t, assignee.ID, stored.UserID)
	require.Equal(t, models.NotificationTaskAssigned, stored.Type)
	require.EqualValues(t, 9, stored.Data["task_id"])
	require.Equal(t, "Fix the build", stored.Data["task_name"])
	require.Equal(t, "Boss", stored.Data["assigner_name"])
	require.Nil(t, stored.ReadAt)
}

func TestNotifyUserInvited_NoDatabaseChannel(t *testing.T) {
	db, n := setupNotifierTest(t)

	err := n.NotifyUserInvited(context.Background(), UserInvitedEvent{
		Invitation:       models.Invitation{Email: "new@acme.test"},
		OrganizationName: "Acme",
		AcceptURL:        "/invitations/accept/tok",
	})
	require.NoError(t, err)

	n.Close()

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	require.Equal(t, int64(0), count)
}

func TestCloseIsIdempotent(t *testing.T) {
	_, n := setupNotifierTest(t)
	n.Close()
	n.Close()
}
