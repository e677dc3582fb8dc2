// Package ofx converts OFX/QFX bank and credit card statements into ledger
// transaction inputs.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/aclindsa/ofxgo"

	"urmoney/internal/core"
)

const maxDescription = 200

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Entry is one statement line ready to be stored.
type Entry struct {
	FITID     string
	AccountID string
	Input     core.TransactionInput
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Opening tags missing their closing bracket in SGML-style files
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// Parse reads a statement and returns one entry per non-zero transaction.
// Credits become income and debits expenses; amounts are absolute.
func (p *Parser) Parse(ctx context.Context, reader io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("parse OFX file: %w", err)
	}

	var entries []Entry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			entries = p.appendEntries(ctx, entries, string(stmt.BankAcctFrom.AcctID), stmt.BankTranList.Transactions)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			entries = p.appendEntries(ctx, entries, string(stmt.CCAcctFrom.AcctID), stmt.BankTranList.Transactions)
		}
	}

	slog.InfoContext(ctx, "Parsed OFX file",
		"total_transactions", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return entries, nil
}

func (p *Parser) appendEntries(ctx context.Context, entries []Entry, accountID string, txs []ofxgo.Transaction) []Entry {
	for _, tx := range txs {
		entry, ok := p.convert(tx, accountID)
		if !ok {
			slog.WarnContext(ctx, "Skipping zero-amount OFX transaction",
				"fitid", string(tx.FiTID),
				"account", accountID)
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func (p *Parser) convert(tx ofxgo.Transaction, accountID string) (Entry, bool) {
	cents := toCents(&tx.TrnAmt.Rat)
	if cents == 0 {
		return Entry{}, false
	}

	typ := core.Income
	if cents < 0 {
		typ = core.Expense
		cents = -cents
	}

	posted := tx.DtPosted.Time
	desc := extractDescription(tx)
	if desc == "" {
		desc = "OFX " + strings.ToLower(tx.TrnType.String())
	}
	if r := []rune(desc); len(r) > maxDescription {
		desc = string(r[:maxDescription])
	}

	return Entry{
		FITID:     string(tx.FiTID),
		AccountID: accountID,
		Input: core.TransactionInput{
			Description: desc,
			Amount:      core.Money{Cents: cents},
			Type:        typ,
			Date:        core.NewDate(posted.Year(), int(posted.Month()), posted.Day()),
		},
	}, true
}

// toCents rounds an exact decimal amount to the nearest cent.
func toCents(r *big.Rat) int64 {
	scaled := new(big.Rat).Mul(r, big.NewRat(100, 1))
	n, err := strconv.ParseInt(scaled.FloatString(0), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// extractDescription tries to get a clean merchant name from OFX data.
func extractDescription(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && (name == "" || isGenericDescription(name)) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "MM/DD " date
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
