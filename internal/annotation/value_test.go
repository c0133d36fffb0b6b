package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/kubegen/cli/internal/errors"
)

func TestIntValue(t *testing.T) {
	t.Setenv("REPLICAS", "4")

	tests := []struct {
		name    string
		input   any
		want    int
		wantErr string
	}{
		{"int", 3, 3, ""},
		{"integral float", float64(8), 8, ""},
		{"numeric string", "12", 12, ""},
		{"env string", "$env{REPLICAS}", 4, ""},
		{"fraction", 1.5, 0, "unable to parse value: 1.5"},
		{"word", "abc", 0, "unable to parse value: abc"},
		{"expression", Expression{Text: "replicaCount"}, 0, "unable to parse value: replicaCount"},
		{"int64", int64(42), 42, ""},
		{"int64 above int32", int64(4294967377), 0, "unable to parse value: 4294967377"},
		{"int64 below int32", int64(-2147483649), 0, "unable to parse value: -2147483649"},
		{"uint64 above int32", uint64(1 << 31), 0, "unable to parse value: 2147483648"},
		{"large string", "4294967377", 0, "unable to parse value: 4294967377"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := intValue(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBoolValue(t *testing.T) {
	b, err := boolValue("true")
	require.NoError(t, err)
	assert.True(t, b)

	_, err = boolValue("yes please")
	assert.EqualError(t, err, "unable to parse value: yes please")
}

func TestStringListValueAcceptsScalar(t *testing.T) {
	got, err := stringListValue("only")
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, got)

	got, err = stringListValue([]any{"a", 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "2"}, got)
}

func TestEnumValueIsCaseInsensitive(t *testing.T) {
	got, err := enumValue("nodeport", []string{"ClusterIP", "NodePort"})
	require.NoError(t, err)
	assert.Equal(t, "NodePort", got)

	_, err = enumValue("Headless", []string{"ClusterIP", "NodePort"})
	assert.Error(t, err)
}

func TestDecodeRecordRejectsUnknownField(t *testing.T) {
	var name string
	err := decodeRecord("kubernetes:Service", "", map[string]any{
		"name":  "svc",
		"bogus": true,
	}, fields{"name": setString(&name)})

	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrValidation)
	assert.Contains(t, err.Error(), "@kubernetes:Service{bogus}")
	assert.Contains(t, err.Error(), `unknown field "bogus"`)
}

func TestDecodeRecordNamesNestedPath(t *testing.T) {
	err := decodeRecord("kubernetes:Deployment", "livenessProbe", map[string]any{
		"port": "eighty",
	}, fields{"port": setInt(new(int))})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "@kubernetes:Deployment{livenessProbe.port}: unable to parse value: eighty")
}
