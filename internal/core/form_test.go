// internal/core/form_test.go
package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredFieldsPerShape(t *testing.T) {
	testCases := []struct {
		name   string
		dbType DBType
		method Method
		want   []string
	}{
		{"mongodb always uses connection string", DBTypeMongoDB, MethodIndividual, []string{FieldConnectionString}},
		{"supabase connection string", DBTypeSupabase, MethodConnectionString, []string{FieldConnectionString}},
		{"postgresql connection string", DBTypePostgreSQL, MethodConnectionString, []string{FieldConnectionString}},
		{"mysql connection string", DBTypeMySQL, MethodConnectionString, []string{FieldConnectionString}},
		{"postgresql individual", DBTypePostgreSQL, MethodIndividual, []string{FieldDBName, FieldHost, FieldUser, FieldPassword}},
		{"mysql individual", DBTypeMySQL, MethodIndividual, []string{FieldDBName, FieldHost, FieldUser, FieldPassword}},
		{"supabase individual", DBTypeSupabase, MethodIndividual, []string{FieldDBName, FieldHost, FieldUser, FieldPassword}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := NewForm()
			f.SetDBType(tc.dbType)
			f.SetConnectionMethod(tc.method)
			assert.ElementsMatch(t, tc.want, f.RequiredFields())

			// Validate flags exactly the required set and nothing else.
			result := f.Validate()
			assert.Len(t, result, len(tc.want))
			for _, field := range tc.want {
				assert.True(t, result[field], "empty required field %q should be flagged", field)
			}
		})
	}
}

func TestValidateWhitespaceOnlyIsMissing(t *testing.T) {
	f := NewForm()
	f.SetDBType(DBTypePostgreSQL)
	f.SetConnectionMethod(MethodIndividual)
	f.SetField(FieldHost, "   ")
	f.SetField(FieldDBName, "school")
	f.SetField(FieldUser, "a")
	f.SetField(FieldPassword, "b")

	result := f.Validate()
	assert.Equal(t, map[string]bool{
		FieldHost:     true,
		FieldDBName:   false,
		FieldUser:     false,
		FieldPassword: false,
	}, result)

	// Validation never mutates the entered values.
	assert.Equal(t, "   ", f.Field(FieldHost))
	assert.Equal(t, "school", f.Field(FieldDBName))
}

func TestPortIsOptional(t *testing.T) {
	f := NewForm()
	f.SetDBType(DBTypeMySQL)
	f.SetConnectionMethod(MethodIndividual)
	f.SetField(FieldDBName, "shop")
	f.SetField(FieldHost, "localhost")
	f.SetField(FieldUser, "root")
	f.SetField(FieldPassword, "secret")

	result := f.Validate()
	for field, miss := range result {
		assert.False(t, miss, "field %q should not be flagged", field)
	}
	_, portRequired := result[FieldPort]
	assert.False(t, portRequired, "port must not appear in the required set")
}

func TestSwitchingTypeClearsCredentials(t *testing.T) {
	f := NewForm()
	f.SetDBType(DBTypePostgreSQL)
	f.SetConnectionMethod(MethodIndividual)
	f.SetField(FieldHost, "db.internal")
	f.SetField(FieldPassword, "hunter2")
	f.Validate()

	f.SetDBType(DBTypeMySQL)
	assert.Empty(t, f.Credentials())
	assert.False(t, f.Missing(FieldHost))
	assert.Equal(t, MethodConnectionString, f.Method(), "method resets on type switch")
}

func TestSwitchingMethodClearsCredentials(t *testing.T) {
	f := NewForm()
	f.SetDBType(DBTypePostgreSQL)
	f.SetField(FieldConnectionString, "postgresql://u:p@host:5432/db")

	f.SetConnectionMethod(MethodIndividual)
	assert.Empty(t, f.Credentials())
}

func TestMethodSwitchIsNoOpForMongoDB(t *testing.T) {
	f := NewForm()
	f.SetDBType(DBTypeMongoDB)
	f.SetField(FieldConnectionString, "mongodb+srv://u:p@cluster.mongodb.net/db")

	f.SetConnectionMethod(MethodIndividual)
	assert.Equal(t, MethodConnectionString, f.Method())
	assert.Equal(t, "mongodb+srv://u:p@cluster.mongodb.net/db", f.Field(FieldConnectionString),
		"no-op switch must not clear credentials")
}

func TestLiveClearOnCorrection(t *testing.T) {
	f := NewForm()
	f.SetDBType(DBTypePostgreSQL)
	f.SetConnectionMethod(MethodIndividual)
	f.Validate()
	assert.True(t, f.Missing(FieldUser))

	f.SetField(FieldUser, "admin")
	assert.False(t, f.Missing(FieldUser))

	// A still-blank value does not clear the flag.
	f.Validate()
	f.SetField(FieldHost, "  ")
	assert.True(t, f.Missing(FieldHost))
}

func TestConfigValidation(t *testing.T) {
	f := NewForm()
	f.SetDBType(DBTypeMongoDB)
	f.SetMode(ModeReadWrite)
	cfg := f.Config()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, MethodConnectionString, cfg.Method)

	bad := ConnectionConfig{DBType: "oracle", Method: MethodIndividual, Mode: ModeReadOnly}
	assert.Error(t, bad.Validate())
}

func TestDefaultPort(t *testing.T) {
	assert.Equal(t, "5432", DefaultPort(DBTypeSupabase))
	assert.Equal(t, "5432", DefaultPort(DBTypePostgreSQL))
	assert.Equal(t, "3306", DefaultPort(DBTypeMySQL))
	assert.Equal(t, "", DefaultPort(DBTypeMongoDB))
}
