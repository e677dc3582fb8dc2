package core

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DefaultCategoryColor is applied when a category is created without a color.
const DefaultCategoryColor = "#3B82F6"

// DateLayout is the wire and storage format of transaction dates.
const DateLayout = "2006-01-02"

const (
	maxDescriptionLength  = 200
	maxCategoryNameLength = 100
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Category struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		Color     string    `json:"color"`
		CreatedAt time.Time `json:"created_at"`
	}

	Transaction struct {
		ID          int64           `json:"id"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Type        TransactionType `json:"type"`
		CategoryID  *int64          `json:"category_id"`
		Date        Date            `json:"date"`
		CreatedAt   time.Time       `json:"created_at"`
	}

	// EnrichedTransaction is a transaction joined with its category's display
	// fields. Both are nil when the category is unset or no longer exists.
	EnrichedTransaction struct {
		Transaction
		CategoryName  *string `json:"category_name"`
		CategoryColor *string `json:"category_color"`
	}

	TransactionInput struct {
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Type        TransactionType `json:"type"`
		CategoryID  *int64          `json:"category_id"`
		Date        Date            `json:"date"`
	}

	CategoryInput struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseTransactionType accepts "income" or "expense" in any letter case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", &ValidationError{Field: "type", Err: ErrInvalidType}
	}
	return t, nil
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	if m.Cents > MaxAmountCents {
		return ErrAmountTooLarge
	}
	return nil
}

// Validate checks every field of the input and reports the first problem.
func (in TransactionInput) Validate() error {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return &ValidationError{Field: "description", Err: ErrEmptyDescription}
	}
	if utf8.RuneCountInString(desc) > maxDescriptionLength {
		return &ValidationError{Field: "description", Err: ErrDescriptionTooLong}
	}
	if err := in.Amount.Validate(); err != nil {
		return &ValidationError{Field: "amount", Err: err}
	}
	if !in.Type.Valid() {
		return &ValidationError{Field: "type", Err: ErrInvalidType}
	}
	if err := in.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Err: err}
	}
	if in.CategoryID != nil && *in.CategoryID <= 0 {
		return &ValidationError{Field: "category_id", Err: ErrInvalidCategoryID}
	}
	return nil
}

func (in CategoryInput) Validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return &ValidationError{Field: "name", Err: ErrEmptyName}
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLength {
		return &ValidationError{Field: "name", Err: ErrNameTooLong}
	}
	if in.Color != "" && !hexColor.MatchString(in.Color) {
		return &ValidationError{Field: "color", Err: ErrInvalidColor}
	}
	return nil
}

// ColorOrDefault returns the requested color, or DefaultCategoryColor when none was given.
func (in CategoryInput) ColorOrDefault() string {
	if in.Color == "" {
		return DefaultCategoryColor
	}
	return in.Color
}
