package repository

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// errCritical marks errors the repeater must not retry
var errCritical = errors.New("critical database error")

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

func (e *criticalError) Unwrap() error {
	return e.err
}

// Is makes any criticalError match errCritical
func (e *criticalError) Is(target error) bool {
	return target == errCritical
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

// timeLayout is fixed-width so stored values sort lexicographically in time order
const timeLayout = "2006-01-02 15:04:05.000000000-07:00"

// readLayouts are accepted when a time column comes back as text
var readLayouts = []string{
	timeLayout,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// timeSQL stores time in UTC with a sortable text layout
type timeSQL struct {
	time.Time
}

// Value implements driver.Valuer for database storage
func (t timeSQL) Value() (driver.Value, error) {
	return t.UTC().Format(timeLayout), nil
}

// Scan implements sql.Scanner for database retrieval, aggregates like MAX()
// lose the column type and return plain text
func (t *timeSQL) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported time value %T", value)
	}
}

func (t *timeSQL) parse(s string) error {
	for _, layout := range readLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("can't parse time %q", s)
}
