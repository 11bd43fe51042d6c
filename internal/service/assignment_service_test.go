package service

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/dto"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/repository"
	appErrors "github.com/Sabbir-Coder/AssetVerse-Server/pkg/errors"
	"github.com/Sabbir-Coder/AssetVerse-Server/pkg/export"
)

type assignmentRepoStub struct {
	assignments map[string]*models.Assignment
	returnErr   error
	listCalls   int
}

func newAssignmentRepoStub() *assignmentRepoStub {
	return &assignmentRepoStub{assignments: make(map[string]*models.Assignment)}
}

func (r *assignmentRepoStub) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	result := make([]models.Assignment, 0, len(r.assignments))
	for _, assignment := range r.assignments {
		result = append(result, *assignment)
	}
	return result, len(result), nil
}

func (r *assignmentRepoStub) ListAllForHR(ctx context.Context, hrEmail string) ([]models.Assignment, error) {
	r.listCalls++
	result := make([]models.Assignment, 0, len(r.assignments))
	for _, assignment := range r.assignments {
		if assignment.HREmail == hrEmail {
			result = append(result, *assignment)
		}
	}
	return result, nil
}

func (r *assignmentRepoStub) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	if assignment, ok := r.assignments[id]; ok {
		copy := *assignment
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (r *assignmentRepoStub) Return(ctx context.Context, id string) error {
	if r.returnErr != nil {
		return r.returnErr
	}
	assignment, ok := r.assignments[id]
	if !ok {
		return sql.ErrNoRows
	}
	now := time.Now()
	assignment.Status = models.AssignmentStatusReturned
	assignment.ReturnDate = &now
	return nil
}

type historyRepoStub struct {
	items []dto.AssetHistoryItem
}

func (r historyRepoStub) EmployeeHistory(ctx context.Context, email string) ([]dto.AssetHistoryItem, error) {
	return r.items, nil
}

func newAssignmentServiceForTest(repo *assignmentRepoStub, history historyRepoStub) *AssignmentService {
	cache := NewCacheService(nil, nil, 0, nil, false)
	return NewAssignmentService(repo, history, cache, time.Minute, nil)
}

func TestAssignmentServiceReturn(t *testing.T) {
	repo := newAssignmentRepoStub()
	repo.assignments["as-1"] = &models.Assignment{ID: "as-1", HREmail: "hr@corp.com", Status: models.AssignmentStatusAssigned}
	svc := newAssignmentServiceForTest(repo, historyRepoStub{})

	assignment, err := svc.Return(context.Background(), "as-1")
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusReturned, assignment.Status)
	assert.NotNil(t, assignment.ReturnDate)
}

func TestAssignmentServiceReturnConflict(t *testing.T) {
	repo := newAssignmentRepoStub()
	repo.returnErr = repository.ErrAssignmentNotAssigned
	svc := newAssignmentServiceForTest(repo, historyRepoStub{})

	_, err := svc.Return(context.Background(), "as-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceReturnNotFound(t *testing.T) {
	svc := newAssignmentServiceForTest(newAssignmentRepoStub(), historyRepoStub{})

	_, err := svc.Return(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAggregateAssignments(t *testing.T) {
	assignments := []models.Assignment{
		{EmployeeEmail: "b@corp.com", EmployeeName: "B", Status: models.AssignmentStatusAssigned},
		{EmployeeEmail: "a@corp.com", EmployeeName: "A", Status: models.AssignmentStatusAssigned},
		{EmployeeEmail: "a@corp.com", EmployeeName: "A", Status: models.AssignmentStatusReturned},
		{EmployeeEmail: "a@corp.com", EmployeeName: "A", Status: models.AssignmentStatusAssigned},
	}

	summaries := AggregateAssignments(assignments)
	require.Len(t, summaries, 2)
	assert.Equal(t, "a@corp.com", summaries[0].EmployeeEmail)
	assert.Equal(t, 2, summaries[0].AssignedCount)
	assert.Equal(t, 1, summaries[0].ReturnedCount)
	assert.Equal(t, 3, summaries[0].TotalCount)
	assert.Equal(t, "b@corp.com", summaries[1].EmployeeEmail)
	assert.Equal(t, 1, summaries[1].TotalCount)
}

func TestAggregateAssignmentsEmpty(t *testing.T) {
	summaries := AggregateAssignments(nil)
	assert.Empty(t, summaries)
}

func TestAssignmentServiceAggregateByEmployee(t *testing.T) {
	repo := newAssignmentRepoStub()
	repo.assignments["as-1"] = &models.Assignment{ID: "as-1", HREmail: "hr@corp.com",
		EmployeeEmail: "emp@corp.com", Status: models.AssignmentStatusAssigned}
	svc := newAssignmentServiceForTest(repo, historyRepoStub{})

	summaries, cacheHit, err := svc.AggregateByEmployee(context.Background(), "hr@corp.com")
	require.NoError(t, err)
	assert.False(t, cacheHit)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].AssignedCount)
	assert.Equal(t, 1, repo.listCalls)
}

func TestAssignmentServiceExportCSV(t *testing.T) {
	repo := newAssignmentRepoStub()
	repo.assignments["as-1"] = &models.Assignment{
		ID: "as-1", HREmail: "hr@corp.com", ProductName: "Laptop", ProductType: "returnable",
		EmployeeEmail: "emp@corp.com", AssignedDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Status: models.AssignmentStatusAssigned,
	}
	svc := newAssignmentServiceForTest(repo, historyRepoStub{})

	payload, err := svc.Export(context.Background(), "hr@corp.com", export.FormatCSV)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(payload, []byte("Product")))
	assert.True(t, bytes.Contains(payload, []byte("Laptop")))
	assert.True(t, bytes.Contains(payload, []byte("2026-03-14")))
}

func TestAssignmentServiceExportInvalidFormat(t *testing.T) {
	svc := newAssignmentServiceForTest(newAssignmentRepoStub(), historyRepoStub{})

	_, err := svc.Export(context.Background(), "hr@corp.com", export.Format("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceEmployeeHistory(t *testing.T) {
	live := "Laptop Pro"
	history := historyRepoStub{items: []dto.AssetHistoryItem{
		{RequestID: "req-1", ProductName: "Laptop", Status: models.RequestStatusApproved, LiveProductName: &live},
		{RequestID: "req-2", ProductName: "Monitor", Status: models.RequestStatusRejected},
	}}
	svc := newAssignmentServiceForTest(newAssignmentRepoStub(), history)

	items, err := svc.EmployeeHistory(context.Background(), "emp@corp.com")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Laptop Pro", *items[0].LiveProductName)
	assert.Nil(t, items[1].LiveProductName)
}
