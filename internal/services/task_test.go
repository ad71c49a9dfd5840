package services

import (
	"testing"
	"time"

	"github.com/Hangeony/DOT-DAILY/internal/database"
	"github.com/Hangeony/DOT-DAILY/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, db *database.DB, email string) uint {
	t.Helper()

	user := models.User{Email: email, Username: "tester"}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func mustCreateTask(t *testing.T, svc *TaskService, userID uint, title, date string) *models.Task {
	t.Helper()

	task, err := svc.Create(userID, &CreateTaskRequest{
		Title:    title,
		Priority: models.TaskPriorityMust,
		Date:     date,
	})
	require.NoError(t, err)
	return task
}

// seoulToday mirrors the service's calendar arithmetic for assertions.
func seoulToday(t *testing.T) time.Time {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return time.Now().In(loc)
}

func TestCreateTaskStartsPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, newTestConfig())
	userID := seedUser(t, db, "woody@example.com")

	task := mustCreateTask(t, svc, userID, "우유 사기", "2026-08-31")
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, 0, task.RetryCount)
	assert.Equal(t, "2026-08-31", task.Date)
	assert.NotZero(t, task.ID)
}

func TestCreateTaskValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, newTestConfig())
	userID := seedUser(t, db, "woody@example.com")

	var verr *models.ValidationError

	_, err := svc.Create(userID, &CreateTaskRequest{Title: "   ", Priority: models.TaskPriorityMust, Date: "2026-08-31"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	_, err = svc.Create(userID, &CreateTaskRequest{Title: "x", Priority: "urgent", Date: "2026-08-31"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "priority", verr.Field)

	_, err = svc.Create(userID, &CreateTaskRequest{Title: "x", Priority: models.TaskPriorityMust, Date: "08/31/2026"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)
}

func TestToggleCompletion(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, newTestConfig())
	userID := seedUser(t, db, "woody@example.com")
	task := mustCreateTask(t, svc, userID, "운동하기", "2026-08-31")

	// pending -> success -> pending
	toggled, err := svc.ToggleCompletion(userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusSuccess, toggled.Status)

	toggled, err = svc.ToggleCompletion(userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, toggled.Status)
}

func TestToggleFromRetryLandsOnSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, newTestConfig())
	userID := seedUser(t, db, "woody@example.com")
	task := mustCreateTask(t, svc, userID, "운동하기", "2026-08-31")

	_, err := svc.DeferToTomorrow(userID, task.ID)
	require.NoError(t, err)

	// retry에서 토글하면 success로 가고, 다시 토글하면 retry가 아니라 pending
	toggled, err := svc.ToggleCompletion(userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusSuccess, toggled.Status)

	toggled, err = svc.ToggleCompletion(userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, toggled.Status)
}

func TestDeferToTomorrow(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, newTestConfig())
	userID := seedUser(t, db, "woody@example.com")
	task := mustCreateTask(t, svc, userID, "책 읽기", "2026-08-31")

	tomorrow := seoulToday(t).AddDate(0, 0, 1).Format(models.DateLayout)

	deferred, err := svc.DeferToTomorrow(userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusRetry, deferred.Status)
	assert.Equal(t, tomorrow, deferred.Date)
	assert.Equal(t, 1, deferred.RetryCount)

	deferred, err = svc.DeferToTomorrow(userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, deferred.RetryCount)
	assert.Equal(t, tomorrow, deferred.Date)
}

func TestArchiveKeepsDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, newTestConfig())
	userID := seedUser(t, db, "woody@example.com")
	task := mustCreateTask(t, svc, userID, "청소하기", "2026-08-31")

	archived, err := svc.Archive(userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusArchive, archived.Status)
	assert.Equal(t, "2026-08-31", archived.Date)

	// 보관된 task는 활성 목록에서 빠지고 보관함에만 보인다
	active, err := svc.List(userID)
	require.NoError(t, err)
	assert.Empty(t, active)

	archiveList, err := svc.ListArchived(userID)
	require.NoError(t, err)
	require.Len(t, archiveList, 1)
	assert.Equal(t, task.ID, archiveList[0].ID)
}

func TestRestoreFromArchive(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, newTestConfig())
	userID := seedUser(t, db, "woody@example.com")
	task := mustCreateTask(t, svc, userID, "청소하기", "2026-01-01")

	_, err := svc.Archive(userID, task.ID)
	require.NoError(t, err)

	today := seoulToday(t).Format(models.DateLayout)

	restored, err := svc.RestoreFromArchive(userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, restored.Status)
	assert.Equal(t, today, restored.Date)
	assert.Equal(t, "청소하기", restored.Title)
	assert.Equal(t, models.TaskPriorityMust, restored.Priority)
}

func TestUpdateMergesProvidedFieldsOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, newTestConfig())
	userID := seedUser(t, db, "woody@example.com")
	task := mustCreateTask(t, svc, userID, "원래 제목", "2026-08-31")

	newTitle := "바뀐 제목"
	updated, err := svc.Update(userID, task.ID, &UpdateTaskRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "바뀐 제목", updated.Title)
	assert.Equal(t, models.TaskPriorityMust, updated.Priority)
	assert.Equal(t, "2026-08-31", updated.Date)
	assert.Equal(t, models.TaskStatusPending, updated.Status)

	badStatus := models.TaskStatus("done")
	_, err = svc.Update(userID, task.ID, &UpdateTaskRequest{Status: &badStatus})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
}

func TestListByDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, newTestConfig())
	userID := seedUser(t, db, "woody@example.com")

	mustCreateTask(t, svc, userID, "오늘 일", "2026-08-31")
	other := mustCreateTask(t, svc, userID, "내일 일", "2026-09-01")
	archived := mustCreateTask(t, svc, userID, "보관될 일", "2026-08-31")
	_, err := svc.Archive(userID, archived.ID)
	require.NoError(t, err)

	tasks, err := svc.ListByDate(userID, "2026-08-31")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "오늘 일", tasks[0].Title)
	assert.NotEqual(t, other.ID, tasks[0].ID)

	_, err = svc.ListByDate(userID, "not-a-date")
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestOwnershipHidesOtherUsersTasks(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, newTestConfig())
	owner := seedUser(t, db, "owner@example.com")
	intruder := seedUser(t, db, "intruder@example.com")
	task := mustCreateTask(t, svc, owner, "비밀 할 일", "2026-08-31")

	newTitle := "탈취 시도"
	_, err := svc.Update(intruder, task.ID, &UpdateTaskRequest{Title: &newTitle})
	assert.ErrorIs(t, err, models.ErrTaskNotFound)

	_, err = svc.ToggleCompletion(intruder, task.ID)
	assert.ErrorIs(t, err, models.ErrTaskNotFound)

	err = svc.Delete(intruder, task.ID)
	assert.ErrorIs(t, err, models.ErrTaskNotFound)

	// 소유자 쪽 행은 그대로다
	var stored models.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	assert.Equal(t, "비밀 할 일", stored.Title)
	assert.Equal(t, models.TaskStatusPending, stored.Status)
}

func TestDeleteTwiceReportsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, newTestConfig())
	userID := seedUser(t, db, "woody@example.com")
	task := mustCreateTask(t, svc, userID, "지울 일", "2026-08-31")

	require.NoError(t, svc.Delete(userID, task.ID))
	assert.ErrorIs(t, svc.Delete(userID, task.ID), models.ErrTaskNotFound)
}
