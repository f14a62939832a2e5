package csv_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/importer/csv"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParser_Generic(t *testing.T) {
	statement := `Date,Description,Amount,Category
2024-05-03,Salary,2500.00,Income
2024-05-04,Coffee,-3.20,
2024-05-05,Refund,0,
not-a-date,ignored,1,
`

	txs, err := csv.NewParser().Parse(strings.NewReader(statement))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, date(2024, 5, 3), txs[0].Date)
	assert.Equal(t, "Salary", txs[0].Description)
	assert.True(t, txs[0].Amount.Equal(amount("2500")))
	require.NotNil(t, txs[0].Category)
	assert.Equal(t, "Income", *txs[0].Category)

	assert.True(t, txs[1].Amount.Equal(amount("-3.2")))
	assert.Nil(t, txs[1].Category)
}

func TestParser_GenericWithoutCategory(t *testing.T) {
	statement := "description,amount,date\nRent,-900,2024-05-01\n"

	txs, err := csv.NewParser().Parse(strings.NewReader(statement))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "Rent", txs[0].Description)
	assert.True(t, txs[0].Amount.Equal(amount("-900")))
	assert.Equal(t, date(2024, 5, 1), txs[0].Date)
}

func TestParser_Conta(t *testing.T) {
	statement := `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR
Saldo disponível;1.000,00 EUR

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`

	txs, err := csv.NewParser().Parse(strings.NewReader(statement))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, date(2026, 1, 30), txs[0].Date)
	assert.Equal(t, "INSTITUTO GESTAO FINA", txs[0].Description)
	assert.True(t, txs[0].Amount.Equal(amount("-588.74")))

	assert.Equal(t, date(2026, 1, 9), txs[1].Date)
	assert.Equal(t, "TFI Wise", txs[1].Description)
	assert.True(t, txs[1].Amount.Equal(amount("8608.52")))
}

func TestParser_Extrato(t *testing.T) {
	statement := `Consultar extrato - 15-02-2026 : 0000000000000
Nome empresa ;EXAMPLE UNIPESSOAL,LDA
Saldo contabilístico final ;41.393,66

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`

	txs, err := csv.NewParser().Parse(strings.NewReader(statement))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "PAGAMENTO TSU", txs[0].Description)
	assert.True(t, txs[0].Amount.Equal(amount("-608.13")))
	assert.True(t, txs[1].Amount.Equal(amount("4324.06")))
}

func TestParser_Cartao(t *testing.T) {
	statement := `Conta cartão ;4163 **** **** 0000 - EUR - Business Débito

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR         GONDOMAR ;64,00 ; ;
31-12-2025 ;29-12-2025 ;REFUND AMAZON ;  ;25,00 ;
 ; ; ; ;Página 1/2 ;
`

	txs, err := csv.NewParser().Parse(strings.NewReader(statement))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, date(2025, 12, 16), txs[0].Date)
	assert.True(t, txs[0].Amount.Equal(amount("-64")), "debits are negative")
	assert.True(t, txs[1].Amount.Equal(amount("25")), "credits are positive")
}

func TestParser_RestrictedProfiles(t *testing.T) {
	statement := "Date,Description,Amount\n2024-05-03,Salary,2500.00\n"

	_, err := csv.NewParser(csv.CGD...).Parse(strings.NewReader(statement))
	assert.ErrorIs(t, err, csv.ErrUnknownFormat)
}

func TestParser_Errors(t *testing.T) {
	type testCase struct {
		name      string
		statement string
		wantErr   string
	}

	tests := []testCase{
		{name: "EmptyFile", statement: "", wantErr: "no matching statement format"},
		{name: "UnknownHeader", statement: "foo,bar\n1,2\n", wantErr: "no matching statement format"},
		{name: "MissingDescription", statement: "Data mov.;Descrição;Montante\n30-01-2026;;-10,00\n", wantErr: "row 2: missing description"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := csv.NewParser().Parse(strings.NewReader(tc.statement))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParser_EdgeRows(t *testing.T) {
	type testCase struct {
		name      string
		statement string
		wantLen   int
		want      string
	}

	tests := []testCase{
		{name: "HeaderOnly", statement: "Data mov.;Data-valor;Descrição;Montante", wantLen: 0},
		{name: "FooterSkipped", statement: "Data mov.;Descrição;Montante\n30-01-2026;TEST;-10,00\nTotais;;;;\n", wantLen: 1, want: "-10"},
		{name: "ColumnOrder", statement: "Random;MetaData\nMontante;Descrição;Data mov.;Ignored\n-10,00;TEST_ORDER;30-01-2026;XXX\n", wantLen: 1, want: "-10"},
		{name: "LargeAmounts", statement: "Data mov.;Descrição;Montante\n30-01-2026;BIG TRANSFER;-1.234.567,89\n", wantLen: 1, want: "-1234567.89"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			txs, err := csv.NewParser().Parse(strings.NewReader(tc.statement))
			require.NoError(t, err)
			require.Len(t, txs, tc.wantLen)

			if tc.wantLen > 0 {
				assert.True(t, txs[0].Amount.Equal(amount(tc.want)), "got %s", txs[0].Amount)
			}
		})
	}
}
