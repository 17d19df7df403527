package testresult_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/smarthealth/internal/mockapi/mockapitest"
	"github.com/jwalitptl/smarthealth/internal/model"
	"github.com/jwalitptl/smarthealth/internal/service/file"
	"github.com/jwalitptl/smarthealth/internal/service/testresult"
	apperrors "github.com/jwalitptl/smarthealth/pkg/errors"
	"github.com/jwalitptl/smarthealth/pkg/listing"
)

func TestAdvanceThroughLabQueue(t *testing.T) {
	env := mockapitest.New(t, true)
	env.Login(t, mockapitest.StaffEmail, mockapitest.StaffPassword)
	svc := testresult.NewService(env.Client(t), nil)
	ctx := context.Background()

	tr, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, model.TestResultStatusPending, tr.Status)

	tr, err = svc.Advance(ctx, tr.ID, tr.Status)
	require.NoError(t, err)
	assert.Equal(t, model.TestResultStatusInProgress, tr.Status)

	tr, err = svc.Advance(ctx, tr.ID, tr.Status)
	require.NoError(t, err)
	assert.Equal(t, model.TestResultStatusCompleted, tr.Status)

	_, err = svc.Advance(ctx, tr.ID, tr.Status)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindPrecondition))
	assert.Equal(t, "Test result #1 is already Completed", apperrors.UserMessage(err))
}

func TestAttachUploadedReport(t *testing.T) {
	env := mockapitest.New(t, true)
	env.LoginAdmin(t)
	c := env.Client(t)
	svc := testresult.NewService(c, nil)
	files := file.NewService(c)
	ctx := context.Background()

	_, err := files.Upload(ctx, "", "cbc.pdf", strings.NewReader("x"))
	assert.True(t, apperrors.Is(err, apperrors.KindPrecondition))

	up, err := files.Upload(ctx, file.FolderLab, "CBC Report.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "lab/cbc_report.pdf", up.FileName)

	tr, err := svc.AttachFile(ctx, 2, up.FileName)
	require.NoError(t, err)
	assert.Equal(t, "lab/cbc_report.pdf", tr.FileName)

	_, err = svc.AttachFile(ctx, 2, "")
	assert.True(t, apperrors.Is(err, apperrors.KindPrecondition))
}

func TestFilterByStatus(t *testing.T) {
	env := mockapitest.New(t, true)
	env.LoginAdmin(t)
	svc := testresult.NewService(env.Client(t), nil)
	ctx := context.Background()

	_, err := svc.Advance(ctx, 3, model.TestResultStatusPending)
	require.NoError(t, err)

	q := listing.NewQuery(6, testresult.DefaultSort)
	q.Filters["status"] = string(model.TestResultStatusInProgress)
	page, err := svc.List(ctx, q)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(3), page.Items[0].ID)
	assert.Equal(t, "X-Ray", page.Items[0].TestType)
}
