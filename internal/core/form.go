// internal/core/form.go
package core

import "strings"

// DBType identifies a supported database backend.
type DBType string

const (
	DBTypeSupabase   DBType = "supabase"
	DBTypePostgreSQL DBType = "postgresql"
	DBTypeMySQL      DBType = "mysql"
	DBTypeMongoDB    DBType = "mongodb"
)

// Method selects how SQL credentials are entered. MongoDB always connects via
// a connection string, so the method is ignored for it.
type Method string

const (
	MethodConnectionString Method = "connection_string"
	MethodIndividual       Method = "individual"
)

// Mode gates whether mutating queries (and therefore the history ledger) are
// available for the session.
type Mode string

const (
	ModeReadOnly  Mode = "read-only"
	ModeReadWrite Mode = "read-write"
)

// Credential field names as transmitted to the backend.
const (
	FieldConnectionString = "connection_string"
	FieldHost             = "host"
	FieldPort             = "port"
	FieldDBName           = "dbname"
	FieldUser             = "user"
	FieldPassword         = "password"
)

// Form holds the connection form state: database type, connection method,
// operation mode, entered credential values, and the per-field missing flags
// from the last validation pass.
type Form struct {
	dbType  DBType
	method  Method
	mode    Mode
	creds   map[string]string
	missing map[string]bool
}

// NewForm returns a form with the defaults the connect screen opens with.
func NewForm() *Form {
	return &Form{
		dbType:  DBTypeSupabase,
		method:  MethodConnectionString,
		mode:    ModeReadOnly,
		creds:   make(map[string]string),
		missing: make(map[string]bool),
	}
}

func (f *Form) DBType() DBType { return f.dbType }
func (f *Form) Mode() Mode     { return f.mode }

// Method reports the effective connection method. For MongoDB the stored
// method is meaningless and connection_string is always reported.
func (f *Form) Method() Method {
	if f.dbType == DBTypeMongoDB {
		return MethodConnectionString
	}
	return f.method
}

// SetDBType switches the database type. The method resets to
// connection_string and all entered credentials and validation flags are
// cleared: stale fields for a different shape must never be submitted.
func (f *Form) SetDBType(t DBType) {
	f.dbType = t
	f.method = MethodConnectionString
	f.clear()
}

// SetConnectionMethod switches between connection-string and individual
// credentials. It is a no-op for MongoDB. Switching clears entered
// credentials and validation flags.
func (f *Form) SetConnectionMethod(m Method) {
	if f.dbType == DBTypeMongoDB {
		return
	}
	f.method = m
	f.clear()
}

func (f *Form) SetMode(m Mode) { f.mode = m }

// SetField records a credential value. If the field was flagged as missing
// and the new value is non-blank, the flag clears immediately so the user
// sees the correction without resubmitting.
func (f *Form) SetField(name, value string) {
	f.creds[name] = value
	if f.missing[name] && strings.TrimSpace(value) != "" {
		delete(f.missing, name)
	}
}

// Field returns the entered value for a credential field.
func (f *Form) Field(name string) string { return f.creds[name] }

// Missing reports whether a field was flagged by the last Validate call.
func (f *Form) Missing(name string) bool { return f.missing[name] }

// Credentials returns a copy of the entered credential values.
func (f *Form) Credentials() map[string]string {
	out := make(map[string]string, len(f.creds))
	for k, v := range f.creds {
		out[k] = v
	}
	return out
}

// RequiredFields returns the credential fields the current
// (dbType, connectionMethod) pair demands. Port is always optional.
func (f *Form) RequiredFields() []string {
	if f.Method() == MethodConnectionString {
		return []string{FieldConnectionString}
	}
	return []string{FieldDBName, FieldHost, FieldUser, FieldPassword}
}

// Validate recomputes the missing-field map for the current shape. A field is
// missing when it is absent or all whitespace. The returned map holds an
// entry for every required field so callers can render both states. Entered
// credential values are not mutated.
func (f *Form) Validate() map[string]bool {
	result := make(map[string]bool)
	for _, name := range f.RequiredFields() {
		result[name] = strings.TrimSpace(f.creds[name]) == ""
	}
	f.missing = make(map[string]bool, len(result))
	for name, miss := range result {
		if miss {
			f.missing[name] = true
		}
	}
	return result
}

// Reset returns the form to its initial state, dropping all credentials and
// validation flags. Called on disconnect.
func (f *Form) Reset() {
	f.dbType = DBTypeSupabase
	f.method = MethodConnectionString
	f.mode = ModeReadOnly
	f.clear()
}

func (f *Form) clear() {
	f.creds = make(map[string]string)
	f.missing = make(map[string]bool)
}

// Config captures the form's selection triple for submission.
func (f *Form) Config() ConnectionConfig {
	return ConnectionConfig{
		DBType: f.dbType,
		Method: f.Method(),
		Mode:   f.mode,
	}
}

// DefaultPort returns the conventional port for a database type, for display
// next to the optional port field. MongoDB connects by URI only.
func DefaultPort(t DBType) string {
	switch t {
	case DBTypeMySQL:
		return "3306"
	case DBTypeSupabase, DBTypePostgreSQL:
		return "5432"
	default:
		return ""
	}
}
