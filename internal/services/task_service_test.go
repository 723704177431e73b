package services

import (
	"context"
	"testing"

	"github.com/hiyona/orgflow-api/internal/authz"
	"github.com/hiyona/orgflow-api/internal/billing"
	"github.com/hiyona/orgflow-api/internal/config"
	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/hiyona/orgflow-api/internal/notifier"
	"github.com/hiyona/orgflow-api/internal/repository"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// recordingNotifier captures dispatched events for assertions.
type recordingNotifier struct {
	assigned []notifier.TaskAssignedEvent
	invited  []notifier.UserInvitedEvent
}

func (r *recordingNotifier) NotifyTaskAssigned(_ context.Context, e notifier.TaskAssignedEvent) error {
	r.assigned = append(r.assigned, e)
	return nil
}

func (r *recordingNotifier) NotifyUserInvited(_ context.Context, e notifier.UserInvitedEvent) error {
	r.invited = append(r.invited, e)
	return nil
}

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *TaskService
	notifier *recordingNotifier

	org    *models.Organization
	admin  *models.User
	member *models.User
	viewer *models.User
}

func (suite *TaskServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Subscription{},
		&models.Task{},
		&models.Project{},
		&models.ActivityLogEntry{},
		&models.Notification{},
	)
	suite.Require().NoError(err)

	cfg := &config.Config{
		ProPrices:      config.PlanPrices{Monthly: "price_pro_monthly", Yearly: "price_pro_yearly"},
		UltimatePrices: config.PlanPrices{Monthly: "price_ultimate_monthly", Yearly: "price_ultimate_yearly"},
		FreeTaskLimit:  10,
	}

	taskRepo := repository.NewTaskRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	gate := billing.NewGate(cfg,
		repository.NewSubscriptionRepository(suite.db),
		taskRepo,
		repository.NewProjectRepository(suite.db),
	)
	policy := authz.NewEngine(gate)
	suite.notifier = &recordingNotifier{}
	suite.service = NewTaskService(taskRepo, userRepo, gate, policy, suite.notifier)

	suite.org = &models.Organization{Name: "Acme"}
	suite.Require().NoError(suite.db.Create(suite.org).Error)

	suite.admin = suite.createUser("admin@acme.test", models.RoleAdmin, true)
	suite.member = suite.createUser("member@acme.test", models.RoleUser, true)
	suite.viewer = suite.createUser("viewer@acme.test", models.RoleViewer, true)
}

func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createUser(email string, role models.Role, notify bool) *models.User {
	user := &models.User{
		Name:               email,
		Email:              email,
		PasswordHash:       "hashedpassword",
		OrganizationID:     suite.org.ID,
		Role:               role,
		EmailNotifications: notify,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskServiceTestSuite) createTask(name string) *models.Task {
	task := &models.Task{
		Name:           name,
		OrganizationID: suite.org.ID,
		CreatorID:      suite.admin.ID,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *TaskServiceTestSuite) activityCount(event models.ActivityEvent) int64 {
	var count int64
	suite.db.Model(&models.ActivityLogEntry{}).
		Where("organization_id = ? AND event = ?", suite.org.ID, event).
		Count(&count)
	return count
}

func (suite *TaskServiceTestSuite) TestCreateTask_Success() {
	desc := "write the onboarding guide"
	task, err := suite.service.CreateTask(context.Background(), *suite.member, CreateTaskInput{
		Name:        "Onboarding",
		Description: &desc,
	})
	suite.Require().NoError(err)
	suite.Equal("Onboarding", task.Name)
	suite.Equal(suite.org.ID, task.OrganizationID)
	suite.Equal(suite.member.ID, task.CreatorID)

	suite.Equal(int64(1), suite.activityCount(models.ActivityCreated))
	suite.Empty(suite.notifier.assigned)
}

func (suite *TaskServiceTestSuite) TestCreateTask_ViewerForbidden() {
	_, err := suite.service.CreateTask(context.Background(), *suite.viewer, CreateTaskInput{Name: "Nope"})
	suite.ErrorIs(err, authz.ErrForbidden)
}

func (suite *TaskServiceTestSuite) TestCreateTask_EmptyName() {
	_, err := suite.service.CreateTask(context.Background(), *suite.member, CreateTaskInput{Name: "   "})
	suite.ErrorIs(err, ErrTaskNameEmpty)
}

func (suite *TaskServiceTestSuite) TestCreateTask_QuotaExceeded() {
	for i := 0; i < 10; i++ {
		suite.createTask("filler")
	}

	_, err := suite.service.CreateTask(context.Background(), *suite.member, CreateTaskInput{Name: "Eleventh"})
	suite.Require().Error(err)

	var quotaErr *billing.QuotaExceededError
	suite.Require().ErrorAs(err, &quotaErr)
	suite.Equal(10, quotaErr.Limit)

	// The denied creation left no row behind
	var count int64
	suite.db.Model(&models.Task{}).Where("organization_id = ?", suite.org.ID).Count(&count)
	suite.Equal(int64(10), count)
}

func (suite *TaskServiceTestSuite) TestCreateTask_PaidPlanIgnoresQuota() {
	suite.Require().NoError(suite.db.Create(&models.Subscription{
		OrganizationID: suite.org.ID,
		Status:         models.SubscriptionActive,
		PriceID:        "price_pro_monthly",
	}).Error)

	for i := 0; i < 10; i++ {
		suite.createTask("filler")
	}

	_, err := suite.service.CreateTask(context.Background(), *suite.member, CreateTaskInput{Name: "Eleventh"})
	suite.NoError(err)
}

func (suite *TaskServiceTestSuite) TestCreateTask_WithAssigneeNotifies() {
	task, err := suite.service.CreateTask(context.Background(), *suite.admin, CreateTaskInput{
		Name:             "Review PR",
		AssignedToUserID: &suite.member.ID,
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(task.AssignedToUserID)
	suite.Equal(suite.member.ID, *task.AssignedToUserID)

	suite.Require().Len(suite.notifier.assigned, 1)
	suite.Equal(suite.member.ID, suite.notifier.assigned[0].Assignee.ID)
	suite.Equal(suite.admin.Name, suite.notifier.assigned[0].AssignerName)
}

func (suite *TaskServiceTestSuite) TestCreateTask_AssigneeOutsideOrganization() {
	other := &models.Organization{Name: "Rivals"}
	suite.Require().NoError(suite.db.Create(other).Error)
	outsider := &models.User{
		Name: "outsider", Email: "out@rivals.test", PasswordHash: "x",
		OrganizationID: other.ID, Role: models.RoleUser,
	}
	suite.Require().NoError(suite.db.Create(outsider).Error)

	_, err := suite.service.CreateTask(context.Background(), *suite.admin, CreateTaskInput{
		Name:             "Leak",
		AssignedToUserID: &outsider.ID,
	})
	suite.ErrorIs(err, ErrInvalidAssignee)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_AssigneeChangeNotifies() {
	task := suite.createTask("Ship it")

	_, err := suite.service.UpdateTask(context.Background(), *suite.admin, task.ID, UpdateTaskInput{
		AssignedToUserID: &suite.member.ID,
	})
	suite.Require().NoError(err)
	suite.Require().Len(suite.notifier.assigned, 1)

	// Restating the same assignee does not notify again
	_, err = suite.service.UpdateTask(context.Background(), *suite.admin, task.ID, UpdateTaskInput{
		AssignedToUserID: &suite.member.ID,
	})
	suite.Require().NoError(err)
	suite.Len(suite.notifier.assigned, 1)

	// Unassigning never notifies
	_, err = suite.service.UpdateTask(context.Background(), *suite.admin, task.ID, UpdateTaskInput{
		ClearAssignee: true,
	})
	suite.Require().NoError(err)
	suite.Len(suite.notifier.assigned, 1)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_RecordsDirtyAttributes() {
	task := suite.createTask("Draft")

	newName := "Draft v2"
	_, err := suite.service.UpdateTask(context.Background(), *suite.member, task.ID, UpdateTaskInput{
		Name: &newName,
	})
	suite.Require().NoError(err)

	var entry models.ActivityLogEntry
	suite.Require().NoError(suite.db.
		Where("subject_type = ? AND subject_id = ? AND event = ?", models.SubjectTask, task.ID, models.ActivityUpdated).
		First(&entry).Error)

	change, ok := entry.Changes["name"].(map[string]interface{})
	suite.Require().True(ok)
	suite.Equal("Draft", change["old"])
	suite.Equal("Draft v2", change["new"])
}

func (suite *TaskServiceTestSuite) TestUpdateTask_NoOpWritesNoActivity() {
	task := suite.createTask("Stable")

	sameName := "Stable"
	_, err := suite.service.UpdateTask(context.Background(), *suite.member, task.ID, UpdateTaskInput{
		Name: &sameName,
	})
	suite.Require().NoError(err)
	suite.Equal(int64(0), suite.activityCount(models.ActivityUpdated))
}

func (suite *TaskServiceTestSuite) TestDeleteAndRestoreTask() {
	task := suite.createTask("Ephemeral")

	suite.Require().NoError(suite.service.DeleteTask(*suite.member, task.ID))

	// Deleted tasks are invisible to normal reads
	_, err := suite.service.GetTask(*suite.member, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)

	restored, err := suite.service.RestoreTask(*suite.member, task.ID)
	suite.Require().NoError(err)
	suite.Nil(restored.DeletedAt)

	suite.Equal(int64(1), suite.activityCount(models.ActivityDeleted))
	suite.Equal(int64(1), suite.activityCount(models.ActivityRestored))
}

func (suite *TaskServiceTestSuite) TestRestoreTask_NotDeleted() {
	task := suite.createTask("Active")

	_, err := suite.service.RestoreTask(*suite.member, task.ID)
	suite.ErrorIs(err, ErrTaskNotDeleted)
}

func (suite *TaskServiceTestSuite) TestForceDeleteTask_RemovesRow() {
	task := suite.createTask("Gone for good")

	suite.Require().NoError(suite.service.ForceDeleteTask(*suite.member, task.ID))

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *TaskServiceTestSuite) TestGetTask_CrossOrganizationDenied() {
	task := suite.createTask("Internal")

	other := &models.Organization{Name: "Rivals"}
	suite.Require().NoError(suite.db.Create(other).Error)
	outsider := models.User{
		ID: 99, Name: "outsider", OrganizationID: other.ID, Role: models.RoleAdmin,
	}

	_, err := suite.service.GetTask(outsider, task.ID)
	suite.ErrorIs(err, authz.ErrForbidden)
}

func (suite *TaskServiceTestSuite) TestListTasks_ScopedAndOrdered() {
	suite.createTask("first")
	deleted := suite.createTask("second")
	suite.Require().NoError(suite.service.DeleteTask(*suite.admin, deleted.ID))

	tasks, total, err := suite.service.ListTasks(*suite.viewer, 1, 20)
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(tasks, 1)
	suite.Equal("first", tasks[0].Name)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
