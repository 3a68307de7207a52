package usecase

import (
	"context"
	"testing"

	"go-healthcare-booking/internal/domain/entity"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditLogRepo struct {
	logs      []entity.AuditLog
	lastLimit int
}

func (r *fakeAuditLogRepo) Create(_ context.Context, log *entity.AuditLog) error {
	log.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeAuditLogRepo) FindAll(_ context.Context, limit int) ([]entity.AuditLog, error) {
	r.lastLimit = limit
	return r.logs, nil
}

func (r *fakeAuditLogRepo) FindByID(_ context.Context, id int64) (*entity.AuditLog, error) {
	for _, l := range r.logs {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, nil
}

func TestAuditLogUsecase(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	repo := &fakeAuditLogRepo{}
	require.NoError(t, repo.Create(context.Background(), &entity.AuditLog{Action: entity.AuditActionAppointmentCancel}))
	uc := NewAuditLogUsecase(log, repo)

	list, err := uc.GetAllAuditLogs(context.Background(), 10_000)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, maxAuditLogLimit, repo.lastLimit)

	entry, err := uc.GetAuditLog(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditActionAppointmentCancel, entry.Action)

	_, err = uc.GetAuditLog(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}
