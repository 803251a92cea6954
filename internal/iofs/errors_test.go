package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	origErr := errors.New("permission denied")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		vars int
		msg  string
	}{
		{
			name: "create dir",
			err:  CreateDirError("/test/dir", origErr),
			code: errcode.CreateDirError,
			vars: 1,
			msg:  "cannot create directory",
		},
		{
			name: "copy file",
			err:  CopyFileError("/test/config.yaml", origErr),
			code: errcode.CopyFileError,
			vars: 1,
			msg:  "cannot copy file",
		},
		{
			name: "parse config",
			err:  ParseConfigError(origErr),
			code: errcode.ConfigParseError,
			vars: 0,
			msg:  "cannot parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok, "Error should be of type *gn.Error")
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			assert.Len(t, gnErr.Vars, tt.vars)
			assert.ErrorIs(t, gnErr.Err, origErr)
			assert.Contains(t, gnErr.Err.Error(), tt.msg)
			assert.Contains(t, gnErr.Err.Error(), "TestErrors",
				"Error should name the caller")
		})
	}
}
