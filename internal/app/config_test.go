package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slinger/internal/crypto"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slinger.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.RSABits != 2048 || cfg.AESKeyBytes != 32 || cfg.KDF.Name != crypto.KDFArgon2id {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	home := t.TempDir()
	path := writeConfig(t, "home: "+home+"\nrsa_bits: 3072\nkdf:\n  name: scrypt\nlog:\n  format: json\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Home != home {
		t.Fatalf("home = %q, want %q", cfg.Home, home)
	}
	if cfg.RSABits != 3072 {
		t.Fatalf("rsa_bits = %d", cfg.RSABits)
	}
	if cfg.KDF.Name != crypto.KDFScrypt || cfg.KDF.ScryptN != 1<<15 {
		t.Fatalf("kdf = %+v", cfg.KDF)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Fatalf("log = %+v", cfg.Log)
	}
	if cfg.MinPassphraseLength != 8 {
		t.Fatalf("min passphrase length = %d", cfg.MinPassphraseLength)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	t.Setenv("SLINGER_HOME", t.TempDir())
	if _, err := Load(writeConfig(t, "")); err != nil {
		t.Fatalf("Load empty: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"unknown field", "colour: blue\n", "colour"},
		{"bad rsa bits", "rsa_bits: 1024\n", "rsa_bits"},
		{"bad aes size", "aes_key_bytes: 20\n", "aes_key_bytes"},
		{"bad kdf", "kdf:\n  name: pbkdf2\n", "kdf"},
		{"bad log level", "log:\n  level: loud\n", "log level"},
		{"bad log format", "log:\n  format: xml\n", "log format"},
		{"burst without rate", "unlock:\n  rate_per_minute: 6\n  burst: 0\n", "burst"},
		{"bad passphrase length", "min_passphrase_length: 0\n", "min_passphrase_length"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SLINGER_HOME", home)
	t.Setenv("SLINGER_RSA_BITS", "4096")
	t.Setenv("SLINGER_KDF", "SCRYPT")
	t.Setenv("SLINGER_LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, "rsa_bits: 3072\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Home != home || cfg.RSABits != 4096 || cfg.KDF.Name != crypto.KDFScrypt || cfg.Log.Level != "debug" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}

	t.Setenv("SLINGER_RSA_BITS", "lots")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric SLINGER_RSA_BITS")
	}
}

func TestExpandHome(t *testing.T) {
	dir, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/.slinger"); got != filepath.Join(dir, ".slinger") {
		t.Fatalf("expandHome = %q", got)
	}
	if got := expandHome("/srv/slinger"); got != "/srv/slinger" {
		t.Fatalf("expandHome changed absolute path: %q", got)
	}
}
