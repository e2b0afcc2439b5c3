package natives

import (
	"database/sql"
	"darix/internal/object"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// SupportedDrivers lists the database/sql drivers linked into the binary.
var SupportedDrivers = []string{"sqlite3", "mysql", "postgres"}

// Database owns the connections and open transactions created through the
// db_* natives. Handles are small integers scoped to one Database.
type Database struct {
	allowed      map[string]bool
	connections  map[int64]*sql.DB
	transactions map[int64]*sql.Tx
	nextID       int64
	logger       *slog.Logger
}

func NewDatabase(drivers []string, logger *slog.Logger) *Database {
	if len(drivers) == 0 {
		drivers = SupportedDrivers
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	allowed := map[string]bool{}
	for _, d := range drivers {
		allowed[d] = true
	}
	return &Database{
		allowed:      allowed,
		connections:  map[int64]*sql.DB{},
		transactions: map[int64]*sql.Tx{},
		logger:       logger,
	}
}

func (d *Database) Natives() map[string]Native {
	return map[string]Native{
		"db_open":     {Arity: 2, Fn: d.open},
		"db_exec":     {Arity: object.Variadic, Fn: d.exec},
		"db_query":    {Arity: object.Variadic, Fn: d.query},
		"db_begin":    {Arity: 1, Fn: d.begin},
		"db_commit":   {Arity: 1, Fn: d.commit},
		"db_rollback": {Arity: 1, Fn: d.rollback},
		"db_close":    {Arity: 1, Fn: d.close},
	}
}

// Close rolls back pending transactions and closes every open connection.
func (d *Database) Close() error {
	var firstErr error
	for id, tx := range d.transactions {
		_ = tx.Rollback()
		delete(d.transactions, id)
	}
	for id, db := range d.connections {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(d.connections, id)
	}
	return firstErr
}

func dbError(format string, a ...interface{}) error {
	return object.NewError(object.DatabaseError, format, a...)
}

func (d *Database) open(args ...object.Object) (object.Object, error) {
	driver, err := unpackString(args[0], "db_open", 1)
	if err != nil {
		return nil, err
	}
	dsn, err := unpackString(args[1], "db_open", 2)
	if err != nil {
		return nil, err
	}
	if !d.allowed[driver] {
		return nil, dbError("driver %q is not enabled", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, dbError("failed to open connection: %v", err)
	}
	if driver == "sqlite3" {
		// every pooled sqlite connection to :memory: would see its own database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, dbError("failed to ping database: %v", err)
	}

	d.nextID++
	d.connections[d.nextID] = db
	d.logger.Debug("db open", slog.String("driver", driver), slog.Int64("handle", d.nextID))
	return &object.Integer{Value: d.nextID}, nil
}

func (d *Database) handle(arg object.Object, fnName string) (int64, *sql.DB, error) {
	id, err := unpackInteger(arg, fnName, 1)
	if err != nil {
		return 0, nil, err
	}
	db, ok := d.connections[id]
	if !ok {
		return 0, nil, dbError("invalid connection handle %d", id)
	}
	return id, db, nil
}

// statement unpacks the handle, sql text and bind parameters shared by
// db_exec and db_query.
func (d *Database) statement(fnName string, args []object.Object) (int64, *sql.DB, string, []interface{}, error) {
	if err := argCount(fnName, args, 2); err != nil {
		return 0, nil, "", nil, err
	}
	id, db, err := d.handle(args[0], fnName)
	if err != nil {
		return 0, nil, "", nil, err
	}
	query, err := unpackString(args[1], fnName, 2)
	if err != nil {
		return 0, nil, "", nil, err
	}

	params := make([]interface{}, len(args)-2)
	for i, arg := range args[2:] {
		v, err := bindValue(arg)
		if err != nil {
			return 0, nil, "", nil, err
		}
		params[i] = v
	}
	return id, db, query, params, nil
}

func bindValue(arg object.Object) (interface{}, error) {
	switch v := arg.(type) {
	case *object.Integer:
		return v.Value, nil
	case *object.Float:
		return v.Value, nil
	case *object.String:
		return v.Value, nil
	case *object.Boolean:
		return v.Value, nil
	case *object.Null:
		return nil, nil
	}
	return nil, object.NewError(object.TypeError, "cannot bind %s as a query parameter", arg.Type())
}

func (d *Database) exec(args ...object.Object) (object.Object, error) {
	id, db, query, params, err := d.statement("db_exec", args)
	if err != nil {
		return nil, err
	}

	var result sql.Result
	if tx, ok := d.transactions[id]; ok {
		result, err = tx.Exec(query, params...)
	} else {
		result, err = db.Exec(query, params...)
	}
	if err != nil {
		return nil, dbError("exec failed: %v", err)
	}

	affected, _ := result.RowsAffected()
	lastID, _ := result.LastInsertId()

	return object.NewMap().
		Put("rowsAffected", &object.Integer{Value: affected}).
		Put("lastInsertId", &object.Integer{Value: lastID}), nil
}

func (d *Database) query(args ...object.Object) (object.Object, error) {
	id, db, query, params, err := d.statement("db_query", args)
	if err != nil {
		return nil, err
	}

	var rows *sql.Rows
	if tx, ok := d.transactions[id]; ok {
		rows, err = tx.Query(query, params...)
	} else {
		rows, err = db.Query(query, params...)
	}
	if err != nil {
		return nil, dbError("query failed: %v", err)
	}
	defer rows.Close()

	return renderRows(rows)
}

func (d *Database) begin(args ...object.Object) (object.Object, error) {
	id, db, err := d.handle(args[0], "db_begin")
	if err != nil {
		return nil, err
	}
	if _, ok := d.transactions[id]; ok {
		return nil, dbError("transaction already open on handle %d", id)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, dbError("failed to begin transaction: %v", err)
	}
	d.transactions[id] = tx
	return args[0], nil
}

func (d *Database) commit(args ...object.Object) (object.Object, error) {
	id, tx, err := d.transaction(args[0], "db_commit")
	if err != nil {
		return nil, err
	}
	delete(d.transactions, id)
	if err := tx.Commit(); err != nil {
		return nil, dbError("failed to commit transaction: %v", err)
	}
	return args[0], nil
}

func (d *Database) rollback(args ...object.Object) (object.Object, error) {
	id, tx, err := d.transaction(args[0], "db_rollback")
	if err != nil {
		return nil, err
	}
	delete(d.transactions, id)
	if err := tx.Rollback(); err != nil {
		return nil, dbError("failed to rollback transaction: %v", err)
	}
	return args[0], nil
}

func (d *Database) transaction(arg object.Object, fnName string) (int64, *sql.Tx, error) {
	id, err := unpackInteger(arg, fnName, 1)
	if err != nil {
		return 0, nil, err
	}
	tx, ok := d.transactions[id]
	if !ok {
		return 0, nil, dbError("no open transaction on handle %d", id)
	}
	return id, tx, nil
}

func (d *Database) close(args ...object.Object) (object.Object, error) {
	id, db, err := d.handle(args[0], "db_close")
	if err != nil {
		return nil, err
	}
	if tx, ok := d.transactions[id]; ok {
		_ = tx.Rollback()
		delete(d.transactions, id)
	}
	delete(d.connections, id)
	if err := db.Close(); err != nil {
		return nil, dbError("failed to close connection: %v", err)
	}
	d.logger.Debug("db close", slog.Int64("handle", id))
	return object.NULL, nil
}

func renderRows(rows *sql.Rows) (object.Object, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, dbError("failed to read columns: %v", err)
	}
	types, _ := rows.ColumnTypes()

	result := &object.Array{Elements: []object.Object{}}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, dbError("failed to scan row: %v", err)
		}

		row := object.NewMap()
		for i, col := range columns {
			var typeName string
			if i < len(types) {
				typeName = types[i].DatabaseTypeName()
			}
			row.Put(col, mapValue(values[i], typeName))
		}
		result.Elements = append(result.Elements, row)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("query failed: %v", err)
	}
	return result, nil
}

// mapValue converts a scanned column. Drivers using a text protocol return
// numbers as []byte, so the column type decides how those are read.
func mapValue(v interface{}, dbType string) object.Object {
	if v == nil {
		return object.NULL
	}
	switch x := v.(type) {
	case int64:
		return &object.Integer{Value: x}
	case float64:
		return &object.Float{Value: x}
	case []byte:
		return textValue(string(x), dbType)
	case string:
		return &object.String{Value: x}
	case bool:
		return object.NativeBoolToBooleanObject(x)
	case time.Time:
		return &object.String{Value: x.Format(time.RFC3339)}
	default:
		return &object.String{Value: fmt.Sprintf("%v", v)}
	}
}

func textValue(s, dbType string) object.Object {
	switch strings.ToUpper(dbType) {
	case "INT", "INTEGER", "TINYINT", "SMALLINT", "MEDIUMINT", "BIGINT", "INT2", "INT4", "INT8":
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &object.Integer{Value: i}
		}
	case "FLOAT", "DOUBLE", "REAL", "FLOAT4", "FLOAT8", "DECIMAL", "NUMERIC":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &object.Float{Value: f}
		}
	}
	return &object.String{Value: s}
}
