package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/encoding"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/validation"
)

const generic = "Date,Description,Amount\n2024-05-03,Salary,2500.00\n2024-05-04,Coffee,-3.20\n"

func TestService_Import(t *testing.T) {
	type testCase struct {
		name      string
		format    importer.Format
		body      string
		setupMock func(m *importer.MockTransactions)
		wantCount int
		wantValid bool
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Generic",
			format: importer.FormatCSV,
			body:   generic,
			setupMock: func(m *importer.MockTransactions) {
				m.EXPECT().CreateBatch(gomock.Any(), int64(1), int64(10), gomock.Any()).
					DoAndReturn(func(_ context.Context, _, accountID int64, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
						require.Len(t, params, 2)
						assert.True(t, params[1].Amount.Equal(decimal.RequireFromString("-3.20")))

						txs := make([]*transaction.Transaction, 0, len(params))
						for i, p := range params {
							txs = append(txs, &transaction.Transaction{ID: int64(i + 1), AccountID: accountID, Amount: p.Amount})
						}

						return txs, nil
					})
			},
			wantCount: 2,
		},
		{
			name:      "CGDRejectsGeneric",
			format:    importer.FormatCGD,
			body:      generic,
			setupMock: func(m *importer.MockTransactions) {},
			wantValid: true,
		},
		{
			name:      "UnknownFormat",
			format:    "ofx",
			body:      generic,
			setupMock: func(m *importer.MockTransactions) {},
			wantValid: true,
		},
		{
			name:   "ForeignAccount",
			format: importer.FormatCSV,
			body:   generic,
			setupMock: func(m *importer.MockTransactions) {
				m.EXPECT().CreateBatch(gomock.Any(), int64(1), int64(10), gomock.Any()).Return(nil, account.ErrForbidden)
			},
			wantErr: account.ErrForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			txs := importer.NewMockTransactions(ctrl)
			tc.setupMock(txs)

			svc := importer.NewService(txs)
			res, err := svc.Import(context.Background(), 1, 10, tc.format, strings.NewReader(tc.body))

			switch {
			case tc.wantValid:
				var verr *validation.Error
				assert.ErrorAs(t, err, &verr)
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			default:
				require.NoError(t, err)
				assert.Len(t, res.Transactions, tc.wantCount)
				assert.Equal(t, encoding.UTF8, res.Charset)
				assert.Equal(t, tc.format, res.Format)
			}
		})
	}
}

func TestService_ImportTranscodesLatin1(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().String("Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n")
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	txs := importer.NewMockTransactions(ctrl)
	txs.EXPECT().CreateBatch(gomock.Any(), int64(1), int64(10), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, accountID int64, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
			require.Len(t, params, 1)
			assert.Equal(t, "CAFÉ CENTRAL", params[0].Description)
			assert.True(t, params[0].Amount.Equal(decimal.RequireFromString("-10")))

			return []*transaction.Transaction{{ID: 1, AccountID: accountID, Description: params[0].Description}}, nil
		})

	res, err := importer.NewService(txs).Import(context.Background(), 1, 10, importer.FormatCGD, strings.NewReader(latin1))
	require.NoError(t, err)
	assert.NotEqual(t, encoding.UTF8, res.Charset)
	assert.Len(t, res.Transactions, 1)
}

func TestService_Formats(t *testing.T) {
	svc := importer.NewService(nil)
	assert.Equal(t, []importer.Format{importer.FormatCGD, importer.FormatCSV}, svc.Formats())
}
