package services

import (
	"bytes"
	"testing"

	"restaurant-pos/internal/notsub/app/core"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_Handle(t *testing.T) {
	var out bytes.Buffer
	s := NewNotificationService(&out, logger.Nop())

	event, err := s.Handle([]byte(`{"order_id":"ORD12345","old_status":"preparing","new_status":"ready","timestamp":"2024-05-01T12:00:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, event.NewStatus)
	assert.Equal(t, "Order ORD12345 is now ready for pickup\n", out.String())

	_, err = s.Handle([]byte(`not json`))
	require.ErrorIs(t, err, core.ErrBadMessage)

	_, err = s.Handle([]byte(`{"order_id":"ORD12345"}`))
	require.ErrorIs(t, err, core.ErrBadMessage)
}
