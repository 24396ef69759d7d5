package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/internal/models"
)

func balance(id, amount string) models.ParticipantBalance {
	return models.ParticipantBalance{ParticipantID: id, Balance: dec(amount)}
}

func TestBalances(t *testing.T) {
	rows := Balances([]*models.Participant{
		{ID: "p1", Name: "Asha", TotalPaid: dec("100"), TotalOwed: dec("50")},
		{ID: "p2", Name: "Ravi", TotalPaid: dec("0"), TotalOwed: dec("50")},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "Asha", rows[0].Name)
	assert.True(t, rows[0].Balance.Equal(dec("50")))
	assert.True(t, rows[1].Balance.Equal(dec("-50")))
}

func TestSimplifyDebts(t *testing.T) {
	tests := []struct {
		name     string
		balances []models.ParticipantBalance
		want     []models.Transfer
	}{
		{
			name:     "two people",
			balances: []models.ParticipantBalance{balance("p1", "50"), balance("p2", "-50")},
			want:     []models.Transfer{{FromID: "p2", ToID: "p1", Amount: dec("50")}},
		},
		{
			name: "one creditor two debtors",
			balances: []models.ParticipantBalance{
				balance("p1", "60"), balance("p2", "-20"), balance("p3", "-40"),
			},
			want: []models.Transfer{
				{FromID: "p3", ToID: "p1", Amount: dec("40")},
				{FromID: "p2", ToID: "p1", Amount: dec("20")},
			},
		},
		{
			name: "chain",
			balances: []models.ParticipantBalance{
				balance("a", "30"), balance("b", "10"), balance("c", "-25"), balance("d", "-15"),
			},
			want: []models.Transfer{
				{FromID: "c", ToID: "a", Amount: dec("25")},
				{FromID: "d", ToID: "a", Amount: dec("5")},
				{FromID: "d", ToID: "b", Amount: dec("10")},
			},
		},
		{
			name:     "all settled",
			balances: []models.ParticipantBalance{balance("p1", "0"), balance("p2", "0")},
			want:     nil,
		},
		{
			name:     "rounding slack left unmatched",
			balances: []models.ParticipantBalance{balance("p1", "66.67"), balance("p2", "-33.33"), balance("p3", "-33.33")},
			want: []models.Transfer{
				{FromID: "p2", ToID: "p1", Amount: dec("33.33")},
				{FromID: "p3", ToID: "p1", Amount: dec("33.33")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SimplifyDebts(tt.balances)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].FromID, got[i].FromID)
				assert.Equal(t, tt.want[i].ToID, got[i].ToID)
				assert.True(t, tt.want[i].Amount.Equal(got[i].Amount), "transfer %d = %s, want %s", i, got[i].Amount, tt.want[i].Amount)
			}
		})
	}
}
