package csv

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Montante" with value "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns (e.g. "Débito"/"Crédito").
	amountSplit
)

// Profile describes the column layout of a CSV statement format.
type Profile struct {
	Name         string
	Comma        rune
	DateLayout   string
	DecimalComma bool // "1.234,56" rather than "1234.56"
	DateCol      string
	DescCol      string
	CategoryCol  string // optional
	AmountMode   amountMode
	AmountCol    string // used when AmountMode == amountSingle
	DebitCol     string // used when AmountMode == amountSplit
	CreditCol    string // used when AmountMode == amountSplit
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// Generic is the plain export format: Date,Description,Amount[,Category]
// with ISO dates and dot decimals.
var Generic = Profile{
	Name:        "generic",
	Comma:       ',',
	DateLayout:  "2006-01-02",
	DateCol:     "Date",
	DescCol:     "Description",
	CategoryCol: "Category",
	AmountMode:  amountSingle,
	AmountCol:   "Amount",
}

// CGD lists the Caixa Geral de Depósitos export formats. More specific
// profiles come first to avoid false matches.
var CGD = []Profile{
	{
		Name:         "cgd-cartao",
		Comma:        ';',
		DateLayout:   "02-01-2006",
		DecimalComma: true,
		DateCol:      "Data",
		DescCol:      "Descrição",
		AmountMode:   amountSplit,
		DebitCol:     "Débito",
		CreditCol:    "Crédito",
	},
	{
		Name:         "cgd-extrato",
		Comma:        ';',
		DateLayout:   "02-01-2006",
		DecimalComma: true,
		DateCol:      "Data mov.",
		DescCol:      "Descrição",
		AmountMode:   amountSingle,
		AmountCol:    "Movimento",
	},
	{
		Name:         "cgd-conta",
		Comma:        ';',
		DateLayout:   "02-01-2006",
		DecimalComma: true,
		DateCol:      "Data mov.",
		DescCol:      "Descrição",
		AmountMode:   amountSingle,
		AmountCol:    "Montante",
	},
}

// All is every known profile in detection order.
func All() []Profile {
	return append(append([]Profile{}, CGD...), Generic)
}
