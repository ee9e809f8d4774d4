package errors

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// ErrorDump flattens an error chain for structured logging, pulling out
// MySQL-specific fields when the underlying driver error is present.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	MySQLNumber   uint16 `json:"mysql_number,omitempty"`
	MySQLState    string `json:"mysql_state,omitempty"`
	MySQLMessage  string `json:"mysql_message,omitempty"`
	DuplicateKey  bool   `json:"duplicate_key,omitempty"`
	ForeignKeyErr bool   `json:"foreign_key_err,omitempty"`
}

// MySQL server error numbers the order/catalog paths care about.
const (
	mysqlErrDupEntry      = 1062
	mysqlErrRowIsRefd     = 1451
	mysqlErrNoRefdRow     = 1452
	mysqlErrLockWaitTmout = 1205
	mysqlErrLockDeadlock  = 1213
)

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		d.MySQLNumber = myErr.Number
		d.MySQLState = string(myErr.SQLState[:])
		d.MySQLMessage = myErr.Message
		d.DuplicateKey = myErr.Number == mysqlErrDupEntry
		d.ForeignKeyErr = myErr.Number == mysqlErrRowIsRefd || myErr.Number == mysqlErrNoRefdRow
	}

	return d
}

// IsDuplicateEntry reports whether the error chain contains a unique
// constraint violation, either the raw MySQL error or GORM's translated form.
func IsDuplicateEntry(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlErrDupEntry
}

// IsForeignKeyViolation reports whether the error chain contains a foreign
// key failure, either the raw MySQL error or GORM's translated form.
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) &&
		(myErr.Number == mysqlErrRowIsRefd || myErr.Number == mysqlErrNoRefdRow)
}

// IsRetryableMySQL reports lock timeouts and deadlocks that a caller may retry.
func IsRetryableMySQL(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	return myErr.Number == mysqlErrLockWaitTmout || myErr.Number == mysqlErrLockDeadlock
}
