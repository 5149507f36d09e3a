package cfg

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sonemaro/cfgload/pkg/logger"
	"github.com/sonemaro/cfgload/pkg/strutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// values mirrors the demo schema used across these tests.
type values struct {
	Int     int
	Str     string
	StrList string
	MulStr  []string
	Uint64  uint64
}

func (v *values) schema(t *testing.T, mandatoryInt bool) *Schema {
	t.Helper()

	req := Optional
	if mandatoryInt {
		req = Mandatory
	}

	schema, err := NewSchema(
		Descriptor{Name: "test_int", Target: Int(&v.Int), Required: req, Min: 0, Max: 100},
		Descriptor{Name: "test_str", Target: String(&v.Str)},
		Descriptor{Name: "test_str_list", Target: StringList(&v.StrList)},
		Descriptor{Name: "test_mul_str", Target: MultiString(&v.MulStr)},
		Descriptor{Name: "test_uint64", Target: Uint64(&v.Uint64), Max: 12121212121},
	)
	require.NoError(t, err)
	return schema
}

func setupFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		optional bool
		strict   bool
		verify   func(*testing.T, *values)
		wantErr  error
		wantLine int
	}{
		{
			name: "all kinds",
			files: map[string]string{
				"/etc/app.conf": strings.Join([]string{
					"# demo",
					"test_int=42",
					"test_str=hello world",
					"test_str_list= a , b,\tc ",
					"test_mul_str=first",
					"test_mul_str=second",
					"test_uint64=4K",
				}, "\n"),
			},
			strict: true,
			verify: func(t *testing.T, v *values) {
				assert.Equal(t, 42, v.Int)
				assert.Equal(t, "hello world", v.Str)
				assert.Equal(t, "a,b,c", v.StrList)
				assert.Equal(t, []string{"first", "second"}, v.MulStr)
				assert.Equal(t, uint64(4096), v.Uint64)
			},
		},
		{
			name: "whitespace comments and CRLF",
			files: map[string]string{
				"/etc/app.conf": "\r\n   # indented comment\r\n\t test_int \t=\t 7 \r\n\r\n   \ntest_str =  padded value  \r\n",
			},
			strict: true,
			verify: func(t *testing.T, v *values) {
				assert.Equal(t, 7, v.Int)
				assert.Equal(t, "padded value", v.Str)
			},
		},
		{
			name: "value may contain equals sign",
			files: map[string]string{
				"/etc/app.conf": "test_str=a=b=c\n",
			},
			verify: func(t *testing.T, v *values) {
				assert.Equal(t, "a=b=c", v.Str)
			},
		},
		{
			name: "empty value",
			files: map[string]string{
				"/etc/app.conf": "test_str=\n",
			},
			verify: func(t *testing.T, v *values) {
				assert.Equal(t, "", v.Str)
			},
		},
		{
			name: "later value wins",
			files: map[string]string{
				"/etc/app.conf": "test_int=1\ntest_int=2\n",
			},
			verify: func(t *testing.T, v *values) {
				assert.Equal(t, 2, v.Int)
			},
		},
		{
			name: "unknown key ignored when not strict",
			files: map[string]string{
				"/etc/app.conf": "unknown=1\ntest_int=3\n",
			},
			verify: func(t *testing.T, v *values) {
				assert.Equal(t, 3, v.Int)
			},
		},
		{
			name: "unknown key fails when strict",
			files: map[string]string{
				"/etc/app.conf": "test_int=3\nunknown=1\n",
			},
			strict:   true,
			wantErr:  ErrUnknownParameter,
			wantLine: 2,
		},
		{
			name: "non UTF-8 line",
			files: map[string]string{
				"/etc/app.conf": "test_int=3\n# fine\ntest_str=\xff\n",
			},
			wantErr:  ErrNotUTF8,
			wantLine: 3,
		},
		{
			name: "line without equals",
			files: map[string]string{
				"/etc/app.conf": "test_int=3\njust some words\n",
			},
			wantErr:  ErrNotKeyValue,
			wantLine: 2,
		},
		{
			name: "integer above max",
			files: map[string]string{
				"/etc/app.conf": "test_int=101\n",
			},
			wantErr:  strutil.ErrOutOfRange,
			wantLine: 1,
		},
		{
			name: "integer not a number",
			files: map[string]string{
				"/etc/app.conf": "test_int=ten\n",
			},
			wantErr:  strutil.ErrNotNumber,
			wantLine: 1,
		},
		{
			name: "negative integer rejected",
			files: map[string]string{
				"/etc/app.conf": "test_int=-1\n",
			},
			wantErr:  ErrBadValue,
			wantLine: 1,
		},
		{
			name: "uint64 above max",
			files: map[string]string{
				"/etc/app.conf": "test_int=1\ntest_uint64=12121212122\n",
			},
			wantErr:  ErrBadValue,
			wantLine: 2,
		},
		{
			name: "uint64 with suffix in range",
			files: map[string]string{
				"/etc/app.conf": "test_uint64=11G\n",
			},
			verify: func(t *testing.T, v *values) {
				assert.Equal(t, uint64(11*strutil.Gibibyte), v.Uint64)
			},
		},
		{
			name:     "optional missing file",
			files:    map[string]string{},
			optional: true,
			verify: func(t *testing.T, v *values) {
				assert.Zero(t, v.Int)
				assert.Empty(t, v.MulStr)
			},
		},
		{
			name:    "required missing file",
			files:   map[string]string{},
			wantErr: ErrOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := setupFS(t, tt.files)
			v := &values{}
			p := NewParser(fs, logger.Nop())

			err := p.Parse("/etc/app.conf", v.schema(t, false), tt.optional, tt.strict)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantLine != 0 {
					var lineErr *LineError
					require.True(t, errors.As(err, &lineErr))
					assert.Equal(t, tt.wantLine, lineErr.Line)
					assert.Equal(t, "/etc/app.conf", lineErr.File)
				}
				return
			}

			require.NoError(t, err)
			if tt.verify != nil {
				tt.verify(t, v)
			}
		})
	}
}

func TestParseMandatory(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "missing integer", content: "test_str=x\n", wantErr: true},
		{name: "present integer", content: "test_int=5\n"},
		{name: "integer set to zero counts as missing", content: "test_int=0\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := setupFS(t, map[string]string{"/etc/app.conf": tt.content})
			v := &values{}

			err := NewParser(fs, nil).Parse("/etc/app.conf", v.schema(t, true), false, true)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMissingMandatory)

				var missing *MissingError
				require.True(t, errors.As(err, &missing))
				assert.Equal(t, "test_int", missing.Name)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseMandatoryStrings(t *testing.T) {
	newSchema := func(s, l *string) *Schema {
		return MustSchema(
			Descriptor{Name: "name", Target: String(s), Required: Mandatory},
			Descriptor{Name: "list", Target: StringList(l), Required: Mandatory},
		)
	}

	t.Run("missing string", func(t *testing.T) {
		var s, l string
		fs := setupFS(t, map[string]string{"/app.conf": "list=a\n"})

		err := NewParser(fs, nil).Parse("/app.conf", newSchema(&s, &l), false, false)
		var missing *MissingError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "name", missing.Name)
	})

	t.Run("explicit empty string is set", func(t *testing.T) {
		var s, l string
		fs := setupFS(t, map[string]string{"/app.conf": "name=\nlist=a\n"})

		require.NoError(t, NewParser(fs, nil).Parse("/app.conf", newSchema(&s, &l), false, false))
	})

	t.Run("caller default satisfies", func(t *testing.T) {
		s, l := "preset", "x,y"
		fs := setupFS(t, map[string]string{"/app.conf": "# nothing\n"})

		require.NoError(t, NewParser(fs, nil).Parse("/app.conf", newSchema(&s, &l), false, false))
	})

	t.Run("optional missing file skips check", func(t *testing.T) {
		var s, l string
		fs := setupFS(t, nil)

		require.NoError(t, NewParser(fs, nil).Parse("/absent.conf", newSchema(&s, &l), true, false))
	})
}

func TestParseRoundTripAndIdempotence(t *testing.T) {
	inputs := []string{"plain", "with spaces inside", "ünïcödé ✓", "trailing=equals="}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			fs := setupFS(t, map[string]string{
				"/etc/app.conf": fmt.Sprintf("test_str=  %s  \ntest_mul_str=%s\ntest_int=9\n", in, in),
			})
			p := NewParser(fs, nil)

			first := &values{}
			require.NoError(t, p.Parse("/etc/app.conf", first.schema(t, true), false, true))
			assert.Equal(t, in, first.Str)

			second := &values{}
			require.NoError(t, p.Parse("/etc/app.conf", second.schema(t, true), false, true))
			assert.Equal(t, first, second)
		})
	}
}

func TestParseDiagnostics(t *testing.T) {
	fs := setupFS(t, map[string]string{
		"/etc/app.conf": "test_int=1\nbogus=2\n",
	})

	var buf bytes.Buffer
	log := logger.NewLogger(logger.Config{Output: &buf})
	v := &values{}

	err := NewParser(fs, log).Parse("/etc/app.conf", v.schema(t, false), false, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parameter [bogus] in config file [/etc/app.conf], line 2")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "failure is logged once")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "/etc/app.conf", entry["file"])
	assert.Equal(t, float64(2), entry["line"])
	assert.Equal(t, "bogus", entry["content"])
}

func TestParseNilSchema(t *testing.T) {
	err := NewParser(afero.NewMemMapFs(), nil).Parse("/x", nil, true, false)
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestIsNotFound(t *testing.T) {
	v := &values{}
	err := NewParser(afero.NewMemMapFs(), nil).Parse("/missing.conf", v.schema(t, false), false, false)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	assert.False(t, IsNotFound(errors.New("other")))
	assert.False(t, IsNotFound(&LineError{Err: ErrNotUTF8}))
}

func TestParseFileFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.conf")
	require.NoError(t, os.WriteFile(path, []byte("test_int=12\ntest_str_list=x , y\n"), 0644))

	v := &values{}
	require.NoError(t, ParseFile(path, v.schema(t, true), false, true))
	assert.Equal(t, 12, v.Int)
	assert.Equal(t, "x,y", v.StrList)
}

func TestCustomSuffixes(t *testing.T) {
	var timeout int
	schema := MustSchema(Descriptor{Name: "Timeout", Target: Int(&timeout), Suffixes: strutil.TimeSuffixes})

	fs := setupFS(t, map[string]string{"/app.conf": "Timeout=2h\n"})
	require.NoError(t, NewParser(fs, nil).Parse("/app.conf", schema, false, true))
	assert.Equal(t, 7200, timeout)

	fs = setupFS(t, map[string]string{"/app.conf": "Timeout=2K\n"})
	err := NewParser(fs, nil).Parse("/app.conf", schema, false, true)
	assert.ErrorIs(t, err, ErrBadValue)
}
