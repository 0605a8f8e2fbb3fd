package models

import "github.com/shopspring/decimal"

// Transaction represents a single reconciled statement movement.
// Amount is signed: positive is a credit, negative is a debit. The sign
// comes from the running-balance movement, never from a printed glyph.
type Transaction struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Currency distinguishes peso accounts from foreign-currency accounts.
type Currency string

const (
	CurrencyPeso   Currency = "$"
	CurrencyDollar Currency = "U$S"
)

// Account holds one account discovered in the statement summary together
// with the ledger reconciled from its movement section.
type Account struct {
	Key            string          `json:"key"` // canonical account number
	Label          string          `json:"label"`
	Currency       Currency        `json:"currency"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Transactions   []Transaction   `json:"transactions"`
}

// Metadata holds document-level fields extracted once per statement.
type Metadata struct {
	Holder        string `json:"holder"`
	Period        string `json:"period"`
	ReferenceYear string `json:"referenceYear"` // 4 digits
}

// BankType represents supported bank statement formats.
type BankType string

const (
	BankHSBC BankType = "hsbc"
)

// Statement is the output of one parse: the account registry in discovery
// order plus the document metadata.
type Statement struct {
	Bank     BankType   `json:"bank"`
	Metadata Metadata   `json:"metadata"`
	Accounts []*Account `json:"accounts"`

	byKey map[string]*Account
}

// Register adds an account to the registry. Re-registering an existing key
// replaces the entry but keeps its original discovery position.
func (s *Statement) Register(a *Account) {
	if s.byKey == nil {
		s.byKey = make(map[string]*Account)
	}
	if prev, ok := s.byKey[a.Key]; ok {
		for i, existing := range s.Accounts {
			if existing == prev {
				s.Accounts[i] = a
				break
			}
		}
	} else {
		s.Accounts = append(s.Accounts, a)
	}
	s.byKey[a.Key] = a
}

// Account returns the registered account for the given key.
func (s *Statement) Account(key string) (*Account, bool) {
	a, ok := s.byKey[key]
	return a, ok
}
