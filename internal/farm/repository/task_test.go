package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead/farmstead-backend/internal/farm/repository"
	"github.com/farmstead/farmstead-backend/pkg/testutil"
)

func createTestTask(t *testing.T, ctx context.Context, repo *repository.TaskRepository, farmID, title string, due *time.Time) *repository.FarmTask {
	t.Helper()
	task := &repository.FarmTask{
		FarmID:   farmID,
		Title:    title,
		TaskType: "general",
		DueDate:  due,
		Priority: "medium",
	}
	require.NoError(t, repo.Create(ctx, task))
	return task
}

func TestTaskRepository_SetCompleted(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	farmRepo := repository.NewFarmRepository(suite.DB)
	repo := repository.NewTaskRepository(suite.DB)

	farm := createTestFarm(t, ctx, farmRepo, "North Pasture")
	task := createTestTask(t, ctx, repo, farm.ID, "Mend fence", nil)

	done, err := repo.SetCompleted(ctx, task.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)

	// Reopening clears the completion timestamp
	reopened, err := repo.SetCompleted(ctx, task.ID, false)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.CompletedAt)
}

func TestTaskRepository_ListOpen(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	farmRepo := repository.NewFarmRepository(suite.DB)
	repo := repository.NewTaskRepository(suite.DB)

	farm := createTestFarm(t, ctx, farmRepo, "North Pasture")
	due := time.Now().AddDate(0, 0, 3)

	open := createTestTask(t, ctx, repo, farm.ID, "Water seedlings", &due)
	closed := createTestTask(t, ctx, repo, farm.ID, "Order seed", nil)

	_, err := repo.SetCompleted(ctx, closed.ID, true)
	require.NoError(t, err)

	tasks, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, open.ID, tasks[0].ID)
}

func TestTaskRepository_List_CompletedFilter(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	farmRepo := repository.NewFarmRepository(suite.DB)
	repo := repository.NewTaskRepository(suite.DB)

	farm := createTestFarm(t, ctx, farmRepo, "North Pasture")

	createTestTask(t, ctx, repo, farm.ID, "Mend fence", nil)
	done := createTestTask(t, ctx, repo, farm.ID, "Move cattle", nil)
	_, err := repo.SetCompleted(ctx, done.ID, true)
	require.NoError(t, err)

	completed := true
	doneTasks, err := repo.List(ctx, farm.ID, &completed)
	require.NoError(t, err)
	require.Len(t, doneTasks, 1)
	assert.Equal(t, "Move cattle", doneTasks[0].Title)

	notCompleted := false
	openTasks, err := repo.List(ctx, farm.ID, &notCompleted)
	require.NoError(t, err)
	require.Len(t, openTasks, 1)
	assert.Equal(t, "Mend fence", openTasks[0].Title)
}
