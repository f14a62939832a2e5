// Package importer turns uploaded bank statements into posted transactions.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/finboard/internal/encoding"
	"github.com/MrJamesThe3rd/finboard/internal/importer/csv"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/validation"
)

type Format string

const (
	// FormatCSV auto-detects among every known layout.
	FormatCSV Format = "csv"
	// FormatCGD only accepts Caixa Geral de Depósitos exports.
	FormatCGD Format = "cgd"
)

type Parser interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type Transactions interface {
	CreateBatch(ctx context.Context, userID, accountID int64, params []transaction.CreateParams) ([]*transaction.Transaction, error)
}

type Result struct {
	Format       Format
	Charset      encoding.Charset
	Transactions []*transaction.Transaction
}

type Service struct {
	parsers map[Format]Parser
	txs     Transactions
}

func NewService(txs Transactions) *Service {
	return &Service{
		parsers: map[Format]Parser{
			FormatCSV: csv.NewParser(),
			FormatCGD: csv.NewParser(csv.CGD...),
		},
		txs: txs,
	}
}

// Formats lists the accepted formats in a stable order.
func (s *Service) Formats() []Format {
	formats := make([]Format, 0, len(s.parsers))
	for f := range s.parsers {
		formats = append(formats, f)
	}

	slices.Sort(formats)

	return formats
}

// Import parses the statement and posts every row against accountID, which
// must belong to userID. Unparseable input is reported as a validation error.
func (s *Service) Import(ctx context.Context, userID, accountID int64, format Format, r io.Reader) (Result, error) {
	parser, ok := s.parsers[format]
	if !ok {
		names := make([]string, 0, len(s.parsers))
		for _, f := range s.Formats() {
			names = append(names, string(f))
		}

		return Result{}, validation.Field("format", "must be one of: "+strings.Join(names, ", "))
	}

	utf8r, charset, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return Result{}, fmt.Errorf("detect encoding: %w", err)
	}

	params, err := parser.Parse(utf8r)
	if err != nil {
		return Result{}, validation.Field("file", err.Error())
	}

	txs, err := s.txs.CreateBatch(ctx, userID, accountID, params)
	if err != nil {
		return Result{}, err
	}

	slog.Info("statement imported",
		"user_id", userID,
		"account_id", accountID,
		"format", format,
		"charset", charset,
		"count", len(txs),
	)

	return Result{Format: format, Charset: charset, Transactions: txs}, nil
}
