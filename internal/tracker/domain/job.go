package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format of application_date.
const DateLayout = "2006-01-02"

// JobApplication is the DTO handed to callers; it never aliases store rows.
type JobApplication struct {
	ID                   int64     `json:"id"`
	CompanyName          string    `json:"company_name"`
	JobTitle             string    `json:"job_title"`
	JobURL               string    `json:"job_url"`
	Location             string    `json:"location"`
	Description          string    `json:"description"`
	Status               Status    `json:"status"`
	ApplicationDate      Date      `json:"application_date"`
	SalaryRange          string    `json:"salary_range"`
	SalaryRangeFormatted string    `json:"salary_range_formatted"`
	Notes                Notes     `json:"notes"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// NoteTemplate is reusable text that callers copy into a note.
type NoteTemplate struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note is one timeline entry.
type Note struct {
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note"`
}

// Notes is the append-only timeline, stored as JSON text in insertion order.
type Notes []Note

// Value implements driver.Valuer
func (n Notes) Value() (driver.Value, error) {
	if n == nil {
		n = Notes{}
	}
	b, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notes: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (n *Notes) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*n = Notes{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported notes column type %T", src)
	}

	if len(raw) == 0 {
		*n = Notes{}
		return nil
	}

	var out Notes
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to unmarshal notes: %w", err)
	}
	if out == nil {
		out = Notes{}
	}
	*n = out
	return nil
}

// Append returns a new timeline with entry added last; n is not modified.
func (n Notes) Append(entry Note) Notes {
	out := make(Notes, len(n), len(n)+1)
	copy(out, n)
	return append(out, entry)
}

// Date is a calendar date without a time of day, carried at UTC midnight.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
