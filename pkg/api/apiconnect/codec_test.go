package apiconnect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/pkg/api"
)

func TestCodec(t *testing.T) {
	c := Codec{}
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(&api.CreateExpenseRequest{GroupID: "g1", Amount: "10.00", Category: "food"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"group_id":"g1","payer_id":"","amount":"10.00","category":"food"}`, string(data))

	var empty api.GetCurrentUserRequest
	assert.NoError(t, c.Unmarshal(nil, &empty))

	var req api.UpdateExpenseRequest
	require.NoError(t, c.Unmarshal([]byte(`{"expense_id":"e1","amount":"5.50"}`), &req))
	require.NotNil(t, req.Amount)
	assert.Equal(t, "5.50", *req.Amount)
	assert.Nil(t, req.PayerID)
	assert.Nil(t, req.Splits)

	assert.Error(t, c.Unmarshal([]byte(`{`), &req))
}
