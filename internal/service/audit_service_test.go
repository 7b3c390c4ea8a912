package service

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"ea-licensing-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditTrail(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuditService(env.uow, env.clock)
	ctx := env.ctx()

	user := env.createUser(t, "audited")
	other := env.createUser(t, "other")

	require.NoError(t, svc.Record(ctx, AuditEntry{
		UserId:     userRef(user.Id),
		Action:     entity.AuditLicenseRequest,
		ObjectType: "LicenseKey",
		ObjectId:   "42",
		Extra:      map[string]interface{}{"ea": "Gold Scalper"},
	}))
	env.advance(time.Minute)
	require.NoError(t, svc.Record(ctx, AuditEntry{
		UserId:     userRef(user.Id),
		Action:     entity.AuditEADownload,
		ObjectType: "EAFile",
		ObjectId:   "7",
	}))
	require.NoError(t, svc.Record(ctx, AuditEntry{
		UserId:     userRef(other.Id),
		Action:     entity.AuditUserLogin,
		ObjectType: "User",
		ObjectId:   other.Id.String(),
	}))

	list, err := svc.ListForUser(ctx, user.Id, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ea_download", list[0].Action)

	limited, err := svc.ListForUser(ctx, user.Id, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, user.Id, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Time", "Action", "Object", "Details"}, rows[0])
	assert.Equal(t, "EA Download", rows[1][1])
	assert.Equal(t, "EAFile #7", rows[1][2])
	assert.Equal(t, "License Request", rows[2][1])
	assert.JSONEq(t, `{"ea":"Gold Scalper"}`, rows[2][3])
}
