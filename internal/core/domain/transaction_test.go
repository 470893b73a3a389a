package domain_test

import (
	"testing"

	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func stringPtr(s string) *string { return &s }

func TestTransaction_BalanceDeltas(t *testing.T) {
	tests := []struct {
		name        string
		transaction domain.Transaction
		want        map[string]string
	}{
		{
			name: "income credits the destination account",
			transaction: domain.Transaction{
				TransactionType: domain.Income,
				Amount:          decimal.NewFromInt(150),
				ToAccountID:     stringPtr("acc-1"),
			},
			want: map[string]string{"acc-1": "150"},
		},
		{
			name: "expense debits the source account",
			transaction: domain.Transaction{
				TransactionType: domain.Expense,
				Amount:          decimal.NewFromInt(75),
				FromAccountID:   stringPtr("acc-1"),
			},
			want: map[string]string{"acc-1": "-75"},
		},
		{
			name: "transfer nets to zero across the pair",
			transaction: domain.Transaction{
				TransactionType: domain.Transfer,
				Amount:          decimal.NewFromInt(50),
				FromAccountID:   stringPtr("acc-1"),
				ToAccountID:     stringPtr("acc-2"),
			},
			want: map[string]string{"acc-1": "-50", "acc-2": "50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.transaction.BalanceDeltas()
			assert.Len(t, got, len(tt.want))
			total := decimal.Zero
			for accID, wantDelta := range tt.want {
				assert.Equal(t, wantDelta, got[accID].String())
				total = total.Add(got[accID])
			}
			if tt.transaction.TransactionType == domain.Transfer {
				assert.True(t, total.IsZero(), "transfer must conserve money")
			}
		})
	}
}

func TestAccount_CanBeDebited(t *testing.T) {
	acc := domain.Account{Balance: decimal.NewFromInt(100), AllowNegativeBalance: false}
	assert.True(t, acc.CanBeDebited(decimal.NewFromInt(100)))
	assert.False(t, acc.CanBeDebited(decimal.NewFromInt(101)))

	creditCard := domain.Account{
		AccountType:          domain.CreditCard,
		Balance:              decimal.Zero,
		AllowNegativeBalance: true,
	}
	assert.True(t, creditCard.CanBeDebited(decimal.NewFromInt(10000)))
}
