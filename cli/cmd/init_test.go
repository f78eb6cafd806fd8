package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	Format  string   `default:"lines"`
	Set     []string `sep:"none"`
	Hidden  string   `default:"secret" hidden:""`
	Verbose bool
}

func initContext(t *testing.T, confPath string, args ...string) *kong.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return ktx
}

func TestInit_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create"},
		{name: "overwrite with force", force: true, exists: true},
		{name: "refuse without force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")
			if tt.exists {
				writeFile(t, filepath.Dir(confPath), "config.yaml", "old: true\n")
			}

			ktx := initContext(t, confPath, "--set", "A=1", "--set", "B=x,y")
			ctx := WithContext(t.Context(), ktx)

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("Run error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("generated config is not yaml: %v\n%s", err, data)
			}

			if got["format"] != "lines" {
				t.Errorf("format = %v, want lines", got["format"])
			}

			if set, ok := got["set"].([]any); !ok || len(set) != 2 || set[1] != "B=x,y" {
				t.Errorf("set = %#v, want [A=1 B=x,y]", got["set"])
			}

			for _, key := range []string{"help", "hidden", "old"} {
				if _, ok := got[key]; ok {
					t.Errorf("unexpected key %q in:\n%s", key, data)
				}
			}
		})
	}
}

func TestInit_InvalidPath(t *testing.T) {
	t.Parallel()

	confPath := filepath.Join(t.TempDir(), "missing", "config.yaml")
	ctx := WithContext(t.Context(), initContext(t, confPath))

	if err := (&Init{}).Run(ctx); !errors.Is(err, ErrWriteConfig) {
		t.Fatalf("Run error = %v, want ErrWriteConfig", err)
	}
}

func TestIsEmptyValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		val  any
		want bool
	}{
		{nil, true},
		{"", true},
		{[]string{}, true},
		{"x", false},
		{false, false},
		{0, false},
	}

	for _, tt := range tests {
		if got := isEmptyValue(tt.val); got != tt.want {
			t.Errorf("isEmptyValue(%#v) = %v, want %v", tt.val, got, tt.want)
		}
	}
}
